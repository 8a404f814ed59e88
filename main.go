package main

import "github.com/gaurav-prasanna/iconfontify/cmd"

func main() {
	cmd.Execute()
}
