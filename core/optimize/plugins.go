package optimize

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/iconfontify/core/svgdoc"
)

func removeComments(doc *svgdoc.Document, _ Config) error {
	doc.Elements().Contents().FilterFunction(func(_ int, s *goquery.Selection) bool {
		n := s.Nodes[0]
		// <!--! ... --> marks a comment that must survive, such as a license.
		return n.Type == html.CommentNode && !strings.HasPrefix(n.Data, "!")
	}).Remove()
	return nil
}

func removeElements(name string) func(*svgdoc.Document, Config) error {
	return func(doc *svgdoc.Document, _ Config) error {
		doc.Selection().FindMatcher(svgdoc.Tag(name)).Remove()
		return nil
	}
}

// editorNamespaces are namespace URIs written by drawing tools.
var editorNamespaces = []string{
	"http://creativecommons.org/ns#",
	"http://inkscape.sourceforge.net/DTD/sodipodi-0.dtd",
	"http://ns.adobe.com/AdobeIllustrator/10.0/",
	"http://ns.adobe.com/AdobeSVGViewerExtensions/3.0/",
	"http://ns.adobe.com/Extensibility/1.0/",
	"http://ns.adobe.com/Flows/1.0/",
	"http://ns.adobe.com/GenericCustomNamespace/1.0/",
	"http://ns.adobe.com/Graphs/1.0/",
	"http://ns.adobe.com/ImageReplacement/1.0/",
	"http://ns.adobe.com/SaveForWeb/1.0/",
	"http://ns.adobe.com/Variables/1.0/",
	"http://ns.adobe.com/XPath/1.0/",
	"http://purl.org/dc/elements/1.1/",
	"http://schemas.microsoft.com/visio/2003/SVGExtensions/",
	"http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd",
	"http://taptrix.com/vectorillustrator/svg_extensions",
	"http://www.bohemiancoding.com/sketch/ns",
	"http://www.figma.com/figma/ns",
	"http://www.inkscape.org/namespaces/inkscape",
	"http://www.serif.com/",
	"http://www.vector.evaxdesign.sk",
	"http://www.w3.org/1999/02/22-rdf-syntax-ns#",
}

// editorPrefixes are dropped even when their namespace is never declared.
var editorPrefixes = []string{"sodipodi", "inkscape", "sketch"}

func removeEditorsNSData(doc *svgdoc.Document, _ Config) error {
	prefixes := map[string]bool{}
	for _, p := range editorPrefixes {
		prefixes[p] = true
	}
	doc.Elements().Each(func(_ int, s *goquery.Selection) {
		for _, a := range s.Nodes[0].Attr {
			if a.Namespace == "xmlns" && slices.Contains(editorNamespaces, a.Val) {
				prefixes[a.Key] = true
			}
		}
	})

	doc.Elements().FilterFunction(func(_ int, s *goquery.Selection) bool {
		return prefixes[svgdoc.Prefix(s.Nodes[0])]
	}).Remove()

	doc.Elements().Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if prefixes[a.Namespace] || (a.Namespace == "xmlns" && prefixes[a.Key]) {
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	})
	return nil
}

var spaceRun = regexp.MustCompile(`\s+`)

func cleanupAttrs(doc *svgdoc.Document, _ Config) error {
	doc.Elements().Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		for i, a := range n.Attr {
			n.Attr[i].Val = strings.TrimSpace(spaceRun.ReplaceAllString(a.Val, " "))
		}
	})
	return nil
}

// conditionalAttrs change meaning when empty, so they are kept.
var conditionalAttrs = []string{"requiredExtensions", "requiredFeatures", "systemLanguage"}

func removeEmptyAttrs(doc *svgdoc.Document, _ Config) error {
	doc.Elements().Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if a.Val == "" && !slices.Contains(conditionalAttrs, a.Key) {
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	})
	return nil
}

func removeHiddenElems(doc *svgdoc.Document, _ Config) error {
	doc.Selection().FindMatcher(svgdoc.AnyElement).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return isHidden(s.Nodes[0])
	}).Remove()
	return nil
}

func isHidden(n *html.Node) bool {
	if v, ok := svgdoc.Presentation(n, "display"); ok && v == "none" {
		return true
	}
	// Elements inside a clipPath draw nothing but still shape the clip.
	if v, ok := svgdoc.Presentation(n, "opacity"); ok && isZero(v) && !insideClipPath(n) {
		return true
	}

	zero := func(key string) bool {
		v, ok := svgdoc.Attr(n, key)
		return ok && isZero(v)
	}
	missing := func(key string) bool {
		v, ok := svgdoc.Attr(n, key)
		return !ok || strings.TrimSpace(v) == ""
	}

	switch svgdoc.LocalName(n) {
	case "circle":
		return zero("r") || missing("r")
	case "ellipse":
		return zero("rx") || zero("ry")
	case "rect", "image", "pattern":
		return n.FirstChild == nil && (zero("width") || zero("height"))
	case "path":
		return missing("d")
	case "polyline", "polygon":
		return missing("points")
	}
	return false
}

func insideClipPath(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && svgdoc.LocalName(p) == "clipPath" {
			return true
		}
	}
	return false
}

func isZero(v string) bool {
	l, err := svgdoc.ParseLength(v)
	return err == nil && l.Value == 0
}

// shapeElements draw paint directly.
var shapeElements = []string{"path", "rect", "circle", "ellipse", "line", "polyline", "polygon", "text"}

var strokeProps = []string{
	"stroke", "stroke-width", "stroke-opacity", "stroke-linecap", "stroke-linejoin",
	"stroke-miterlimit", "stroke-dasharray", "stroke-dashoffset",
}

// removeUselessStrokeAndFill drops stroke properties from shapes whose
// stroke paints nothing. A shape that overrides a painted inherited stroke
// keeps stroke="none".
func removeUselessStrokeAndFill(doc *svgdoc.Document, _ Config) error {
	doc.Selection().FindMatcher(svgdoc.AnyElement).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return slices.Contains(shapeElements, svgdoc.LocalName(s.Nodes[0]))
	}).Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		stroke, _ := inherited(n, "stroke")
		width, hasWidth := inherited(n, "stroke-width")
		opacity, hasOpacity := inherited(n, "stroke-opacity")

		useless := stroke == "" || stroke == "none" ||
			(hasWidth && isZero(width)) ||
			(hasOpacity && isZero(opacity))
		if !useless {
			return
		}

		for _, p := range strokeProps {
			svgdoc.RemoveAttr(n, p)
		}
		svgdoc.RemoveStyleProperties(n, strokeProps...)
		if parentStroke, ok := inherited(n.Parent, "stroke"); ok && parentStroke != "none" {
			svgdoc.SetAttr(n, "stroke", "none")
		}
	})
	return nil
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

// numericAttrs hold a single length or number.
var numericAttrs = []string{
	"x", "y", "x1", "y1", "x2", "y2", "cx", "cy", "r", "rx", "ry", "fx", "fy",
	"width", "height", "opacity", "fill-opacity", "stroke-opacity", "stroke-width",
	"stroke-miterlimit", "stroke-dashoffset", "offset",
}

func cleanupNumericValues(doc *svgdoc.Document, cfg Config) error {
	doc.Elements().Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		for i, a := range n.Attr {
			if a.Namespace != "" {
				continue
			}
			switch {
			case a.Key == "viewBox" || a.Key == "points":
				if nums, err := svgdoc.ParseNumberList(a.Val); err == nil && len(nums) > 0 {
					parts := make([]string, len(nums))
					for j, v := range nums {
						parts[j] = svgdoc.FormatNumber(v, cfg.Precision)
					}
					n.Attr[i].Val = strings.Join(parts, " ")
				}
			case slices.Contains(numericAttrs, a.Key):
				n.Attr[i].Val = cleanNumber(a.Val, cfg.Precision)
			}
		}
	})
	return nil
}

// cleanNumber rounds a plain or px value and leaves anything else untouched.
func cleanNumber(v string, precision int) string {
	raw := strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return v
	}
	return svgdoc.FormatNumber(f, precision)
}

func cleanupPathData(doc *svgdoc.Document, cfg Config) error {
	var firstErr error
	doc.Selection().FindMatcher(svgdoc.Tag("path")).Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		d, ok := svgdoc.Attr(n, "d")
		if !ok || firstErr != nil {
			return
		}
		segs, err := svgdoc.ParsePath(d)
		if err != nil {
			firstErr = err
			return
		}
		svgdoc.SetAttr(n, "d", svgdoc.FormatPath(segs, cfg.Precision))
	})
	return firstErr
}

// containerElements may hold other elements and render nothing when empty.
var containerElements = []string{"a", "defs", "g", "marker", "mask", "pattern", "switch", "symbol", "clipPath"}

func removeEmptyContainers(doc *svgdoc.Document, _ Config) error {
	// Remove bottom-up so a container emptied by a pass is caught too.
	for {
		empty := doc.Selection().FindMatcher(svgdoc.AnyElement).FilterFunction(func(_ int, s *goquery.Selection) bool {
			n := s.Nodes[0]
			if !slices.Contains(containerElements, svgdoc.LocalName(n)) {
				return false
			}
			// A filter can paint an empty group.
			if _, ok := svgdoc.Attr(n, "filter"); ok {
				return false
			}
			return len(svgdoc.ElementChildren(n)) == 0
		})
		if empty.Length() == 0 {
			return nil
		}
		empty.Remove()
	}
}
