// Package cmd — clean command.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/iconfontify/core/assemble"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete the files a previous build wrote to the output directory",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runClean,
	}
}

func runClean(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := cfg.OutputPath()
	removed, err := assemble.New(assemble.Options{Logger: newLogger(cmd.ErrOrStderr())}).Clean(dir)
	for _, path := range removed {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed: %s\n", path)
	}
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to clean in %s\n", dir)
	}
	return nil
}
