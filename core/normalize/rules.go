// Package normalize — the ordered rule set.
// Each rule is a pure stage over the parsed tree. The order matters: paint
// is stripped only after background shapes are gone, otherwise a background
// would come back as a visible outline.
package normalize

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/iconfontify/core/optimize"
	"github.com/gaurav-prasanna/iconfontify/core/svgdoc"
)

// CurrentColor is the fill marker that lets text color paint the glyph.
const CurrentColor = "currentColor"

// Rule is one named normalization stage.
type Rule struct {
	Name  string
	Apply func(doc *svgdoc.Document) error
}

// Rules returns the normalization stages in application order.
func Rules() []Rule {
	return []Rule{
		{"optimize", optimizeRule},
		{"remove-backgrounds", removeBackgrounds},
		{"unwrap-clip-groups", unwrapClipGroups},
		{"strip-paint", stripPaint},
		{"prune-empty-groups", pruneEmptyGroups},
		{"inject-current-color", injectCurrentColor},
		{"format-viewbox", formatViewBox},
		{"collapse-whitespace", collapseWhitespace},
	}
}

var defaultOptimizer = func() *optimize.Optimizer {
	cfg := optimize.DefaultConfig()
	cfg.Disable = optimize.NeverApplied
	o, err := optimize.New(cfg)
	if err != nil {
		panic(err)
	}
	return o
}()

func optimizeRule(doc *svgdoc.Document) error {
	return defaultOptimizer.Optimize(doc)
}

// backgroundColors are fills that blend into the canvas.
var backgroundColors = []string{"#fff", "#ffffff", "white", "none", "transparent"}

func isBackgroundColor(v string) bool {
	return slices.Contains(backgroundColors, strings.ToLower(strings.TrimSpace(v)))
}

func isZero(v string) bool {
	l, err := svgdoc.ParseLength(v)
	return err == nil && l.Value == 0
}

// inherited resolves a presentation property through the ancestors of n.
func inherited(n *html.Node, prop string) (string, bool) {
	for c := n; c != nil && c.Type == html.ElementNode; c = c.Parent {
		if v, ok := svgdoc.Presentation(c, prop); ok && v != "inherit" {
			return v, true
		}
	}
	return "", false
}

// removeBackgrounds drops canvas backgrounds, masks, definitions, clip
// paths and invisible decoys.
func removeBackgrounds(doc *svgdoc.Document) error {
	canvas, hasCanvas := canvasBox(doc.Root())

	doc.Selection().FindMatcher(svgdoc.Tag("rect")).FilterFunction(func(_ int, s *goquery.Selection) bool {
		n := s.Nodes[0]
		return paintsNothing(n) || (hasCanvas && coversCanvas(n, canvas))
	}).Remove()

	for _, name := range []string{"mask", "defs", "clipPath"} {
		doc.Selection().FindMatcher(svgdoc.Tag(name)).Remove()
	}
	doc.Elements().Each(func(_ int, s *goquery.Selection) {
		svgdoc.RemoveAttr(s.Nodes[0], "mask")
	})

	doc.Selection().FindMatcher(svgdoc.AnyElement).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return isDecoy(s.Nodes[0])
	}).Remove()
	return nil
}

// canvasBox is the viewBox, or the width and height of the root.
func canvasBox(root *html.Node) (svgdoc.ViewBox, bool) {
	if v, ok := svgdoc.Attr(root, "viewBox"); ok {
		if vb, err := svgdoc.ParseViewBox(v); err == nil {
			return vb, true
		}
		return svgdoc.ViewBox{}, false
	}
	w, errW := lengthAttr(root, "width", 0)
	h, errH := lengthAttr(root, "height", 0)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return svgdoc.ViewBox{}, false
	}
	return svgdoc.ViewBox{Width: w, Height: h}, true
}

func lengthAttr(n *html.Node, key string, ref float64) (float64, error) {
	v, ok := svgdoc.Attr(n, key)
	if !ok {
		return 0, svgdoc.ErrNoLength
	}
	l, err := svgdoc.ParseLength(v)
	if err != nil {
		return 0, err
	}
	return l.Resolve(ref), nil
}

func coversCanvas(n *html.Node, canvas svgdoc.ViewBox) bool {
	x, err := lengthAttr(n, "x", canvas.Width)
	if err != nil {
		x = 0
	}
	y, err := lengthAttr(n, "y", canvas.Height)
	if err != nil {
		y = 0
	}
	w, errW := lengthAttr(n, "width", canvas.Width)
	h, errH := lengthAttr(n, "height", canvas.Height)
	if errW != nil || errH != nil {
		return false
	}
	if _, ok := svgdoc.Attr(n, "transform"); ok {
		return false
	}
	const eps = 1e-6
	return x <= canvas.MinX+eps && y <= canvas.MinY+eps &&
		x+w >= canvas.MinX+canvas.Width-eps && y+h >= canvas.MinY+canvas.Height-eps
}

// paintsNothing reports a shape with neither a visible fill nor a stroke.
func paintsNothing(n *html.Node) bool {
	if stroke, ok := inherited(n, "stroke"); ok && stroke != "none" && stroke != "transparent" {
		return false
	}
	if v, ok := svgdoc.Presentation(n, "opacity"); ok && isZero(v) {
		return true
	}
	if v, ok := inherited(n, "fill-opacity"); ok && isZero(v) {
		return true
	}
	fill, ok := inherited(n, "fill")
	return ok && (fill == "none" || fill == "transparent")
}

// isDecoy reports an element hidden by zero opacity whose fill matches the
// background.
func isDecoy(n *html.Node) bool {
	hidden := false
	for _, prop := range []string{"opacity", "fill-opacity"} {
		if v, ok := svgdoc.Presentation(n, prop); ok && isZero(v) {
			hidden = true
		}
	}
	if !hidden {
		return false
	}
	fill, ok := inherited(n, "fill")
	return ok && isBackgroundColor(fill)
}

// unwrapClipGroups replaces a group whose only attribute is clip-path with
// its children.
func unwrapClipGroups(doc *svgdoc.Document) error {
	doc.Selection().FindMatcher(svgdoc.Tag("g")).FilterFunction(func(_ int, s *goquery.Selection) bool {
		attrs := s.Nodes[0].Attr
		return len(attrs) == 1 && attrs[0].Namespace == "" && attrs[0].Key == "clip-path"
	}).Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithSelection(s.Contents())
	})
	return nil
}

var paintProps = []string{"fill", "fill-opacity", "clip-path"}

func stripPaint(doc *svgdoc.Document) error {
	doc.Elements().Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		for _, p := range paintProps {
			svgdoc.RemoveAttr(n, p)
		}
		svgdoc.RemoveStyleProperties(n, paintProps...)
	})
	return nil
}

func pruneEmptyGroups(doc *svgdoc.Document) error {
	for {
		empty := doc.Selection().FindMatcher(svgdoc.Tag("g")).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return len(svgdoc.ElementChildren(s.Nodes[0])) == 0
		})
		if empty.Length() == 0 {
			return nil
		}
		empty.Remove()
	}
}

func injectCurrentColor(doc *svgdoc.Document) error {
	hasFill := doc.Elements().FilterFunction(func(_ int, s *goquery.Selection) bool {
		_, ok := svgdoc.Presentation(s.Nodes[0], "fill")
		return ok
	}).Length() > 0
	if hasFill {
		return nil
	}
	doc.Selection().FindMatcher(svgdoc.Tag("path")).Each(func(_ int, s *goquery.Selection) {
		svgdoc.SetAttr(s.Nodes[0], "fill", CurrentColor)
	})
	return nil
}

func formatViewBox(doc *svgdoc.Document) error {
	var firstErr error
	doc.Elements().Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		v, ok := svgdoc.Attr(n, "viewBox")
		if !ok || firstErr != nil {
			return
		}
		vb, err := svgdoc.ParseViewBox(v)
		if err != nil {
			firstErr = fmt.Errorf("<%s>: %w", n.Data, err)
			return
		}
		svgdoc.SetAttr(n, "viewBox", vb.String())
	})
	return firstErr
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func collapseWhitespace(doc *svgdoc.Document) error {
	doc.Elements().Contents().FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Nodes[0].Type == html.TextNode
	}).Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		if strings.TrimSpace(n.Data) == "" {
			n.Parent.RemoveChild(n)
			return
		}
		n.Data = whitespaceRun.ReplaceAllString(n.Data, " ")
	})
	return nil
}
