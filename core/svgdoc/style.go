package svgdoc

import (
	"strings"

	"golang.org/x/net/html"
)

// Declaration is one property of an inline style attribute.
type Declaration struct {
	Property string
	Value    string
}

// ParseStyle splits an inline style into declarations, dropping empty ones.
func ParseStyle(s string) []Declaration {
	var out []Declaration
	for _, part := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		if prop == "" || val == "" {
			continue
		}
		out = append(out, Declaration{Property: prop, Value: val})
	}
	return out
}

// FormatStyle joins declarations back into an inline style.
func FormatStyle(decls []Declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.Property + ":" + d.Value
	}
	return strings.Join(parts, ";")
}

// Presentation returns the value of a presentation property on n. The inline
// style wins over the attribute of the same name.
func Presentation(n *html.Node, prop string) (string, bool) {
	if style, ok := Attr(n, "style"); ok {
		for _, d := range ParseStyle(style) {
			if d.Property == prop {
				return d.Value, true
			}
		}
	}
	return Attr(n, prop)
}

// RemoveStyleProperties drops props from the inline style of n, removing the
// attribute once it is empty.
func RemoveStyleProperties(n *html.Node, props ...string) {
	style, ok := Attr(n, "style")
	if !ok {
		return
	}
	drop := make(map[string]bool, len(props))
	for _, p := range props {
		drop[p] = true
	}
	var kept []Declaration
	for _, d := range ParseStyle(style) {
		if !drop[d.Property] {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", FormatStyle(kept))
}
