package svgdoc

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// AnyElement matches every element node.
var AnyElement goquery.Matcher = cascadia.MustCompile("*")

// Tag matches elements by local name, case-sensitively. cascadia folds
// selectors to lower case, which misses camelCase names like clipPath and
// linearGradient.
type Tag string

var _ goquery.Matcher = Tag("")

// Match reports whether n is an element named t.
func (t Tag) Match(n *html.Node) bool {
	return n.Type == html.ElementNode && LocalName(n) == string(t)
}

// MatchAll returns n and its descendants that match, in document order.
func (t Tag) MatchAll(n *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if t.Match(c) {
			out = append(out, c)
		}
		for cc := c.FirstChild; cc != nil; cc = cc.NextSibling {
			walk(cc)
		}
	}
	walk(n)
	return out
}

// Filter keeps the nodes that match.
func (t Tag) Filter(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range nodes {
		if t.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
