// Package svgdoc parses icon documents into an x/net/html node tree that
// goquery can walk, and serializes them back to markup.
//
// Parsing is strict XML: mismatched or unclosed tags are errors. Element and
// attribute names keep their original case and namespace prefix. XML
// declarations, processing instructions and doctypes are dropped.
package svgdoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Namespace is stamped on every element so the renderer treats the tree as
// foreign content.
const Namespace = "svg"

// Document is a parsed icon.
type Document struct {
	root *html.Node
}

// Parse reads src into a Document. The root element must be <svg>.
func Parse(src []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(src))
	dec.Strict = true

	holder := &html.Node{Type: html.DocumentNode}
	var root *html.Node
	var stack []*html.Node

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &html.Node{
				Type:      html.ElementNode,
				Data:      qualified(t.Name),
				Namespace: Namespace,
			}
			for _, a := range t.Attr {
				n.Attr = append(n.Attr, html.Attribute{
					Namespace: a.Name.Space,
					Key:       a.Name.Local,
					Val:       a.Value,
				})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parsing markup: second root element <%s>", n.Data)
				}
				root = n
				holder.AppendChild(n)
			} else {
				stack[len(stack)-1].AppendChild(n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			name := qualified(t.Name)
			if len(stack) == 0 {
				return nil, fmt.Errorf("parsing markup: unexpected </%s>", name)
			}
			top := stack[len(stack)-1]
			if top.Data != name {
				return nil, fmt.Errorf("parsing markup: </%s> closes <%s>", name, top.Data)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, errors.New("parsing markup: text outside the root element")
				}
				continue
			}
			stack[len(stack)-1].AppendChild(&html.Node{Type: html.TextNode, Data: string(t)})

		case xml.Comment:
			if len(stack) > 0 {
				stack[len(stack)-1].AppendChild(&html.Node{Type: html.CommentNode, Data: string(t)})
			}

		case xml.ProcInst, xml.Directive:
			// dropped
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("parsing markup: <%s> is never closed", stack[len(stack)-1].Data)
	}
	if root == nil {
		return nil, errors.New("parsing markup: no root element")
	}
	if LocalName(root) != "svg" {
		return nil, fmt.Errorf("parsing markup: root element is <%s>, want <svg>", root.Data)
	}
	return &Document{root: root}, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// Root returns the <svg> element.
func (d *Document) Root() *html.Node {
	return d.root
}

// Selection wraps the root element for goquery traversal. Find on the result
// searches descendants only.
func (d *Document) Selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(d.root).Selection
}

// Elements selects the root and every descendant element.
func (d *Document) Elements() *goquery.Selection {
	return d.Selection().FindMatcher(AnyElement).AddBack()
}

// Render serializes the document.
func (d *Document) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return nil, fmt.Errorf("rendering markup: %w", err)
	}
	return buf.Bytes(), nil
}

// LocalName returns the element name without its namespace prefix.
func LocalName(n *html.Node) string {
	for i := len(n.Data) - 1; i >= 0; i-- {
		if n.Data[i] == ':' {
			return n.Data[i+1:]
		}
	}
	return n.Data
}

// Prefix returns the namespace prefix of the element name, if any.
func Prefix(n *html.Node) string {
	for i := len(n.Data) - 1; i >= 0; i-- {
		if n.Data[i] == ':' {
			return n.Data[:i]
		}
	}
	return ""
}

// Attr returns the unprefixed attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets the unprefixed attribute key, appending it when absent.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the unprefixed attribute key and reports whether it was
// present.
func RemoveAttr(n *html.Node, key string) bool {
	out := n.Attr[:0]
	found := false
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			found = true
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
	return found
}

// ElementChildren returns the element children of n.
func ElementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}
