package fontgen

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/iconfontify/core/svgdoc"
)

// Point is a position in icon user space, or in font units once scaled.
type Point struct {
	X, Y float64
}

func (p Point) add(q Point) Point   { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) sub(q Point) Point   { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) mul(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) mid(q Point) Point   { return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2} }

type segKind uint8

const (
	segLine segKind = iota
	segQuad
	segCubic
)

// segment ends at its last used point: P[0] for lines, P[1] for quadratics,
// P[2] for cubics.
type segment struct {
	Kind segKind
	P    [3]Point
}

func (s segment) end() Point {
	switch s.Kind {
	case segQuad:
		return s.P[1]
	case segCubic:
		return s.P[2]
	}
	return s.P[0]
}

// Contour is one closed subpath.
type Contour struct {
	Start Point
	Segs  []segment
}

// Outline is the filled geometry of one icon in user space.
type Outline struct {
	ViewBox  svgdoc.ViewBox
	Contours []Contour
}

// ErrEmptyOutline means the icon has nothing a font can draw.
var ErrEmptyOutline = errors.New("icon has no fillable outline")

// ExtractOutline collects the filled geometry of an icon: path data
// (including arcs and smooth curves), rect, circle, ellipse, polygon and
// polyline shapes, with nested transforms applied.
func ExtractOutline(src []byte) (*Outline, error) {
	doc, err := svgdoc.Parse(src)
	if err != nil {
		return nil, err
	}
	root := doc.Root()

	vb, err := iconBox(root)
	if err != nil {
		return nil, err
	}

	out := &Outline{ViewBox: vb}
	base := svgdoc.Identity
	if t, ok := svgdoc.Attr(root, "transform"); ok {
		if base, err = svgdoc.ParseTransform(t); err != nil {
			return nil, err
		}
	}
	if err := walkElement(root, base, out); err != nil {
		return nil, err
	}
	if len(out.Contours) == 0 {
		return nil, ErrEmptyOutline
	}
	return out, nil
}

// iconBox is the viewBox, falling back to width and height.
func iconBox(root *html.Node) (svgdoc.ViewBox, error) {
	if v, ok := svgdoc.Attr(root, "viewBox"); ok {
		vb, err := svgdoc.ParseViewBox(v)
		if err != nil {
			return svgdoc.ViewBox{}, err
		}
		if vb.Width == 0 || vb.Height == 0 {
			return svgdoc.ViewBox{}, fmt.Errorf("viewBox %q has no area", v)
		}
		return vb, nil
	}
	w, errW := rootLength(root, "width")
	h, errH := rootLength(root, "height")
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return svgdoc.ViewBox{}, errors.New("icon has neither a viewBox nor a width and height")
	}
	return svgdoc.ViewBox{Width: w, Height: h}, nil
}

func rootLength(n *html.Node, key string) (float64, error) {
	v, ok := svgdoc.Attr(n, key)
	if !ok {
		return 0, svgdoc.ErrNoLength
	}
	l, err := svgdoc.ParseLength(v)
	if err != nil || l.Percent {
		return 0, fmt.Errorf("%s %q is not an absolute length", key, v)
	}
	return l.Value, nil
}

// skipped elements never contribute to the drawn outline.
var skipped = []string{
	"clipPath", "defs", "desc", "linearGradient", "marker", "mask", "metadata",
	"pattern", "radialGradient", "script", "style", "symbol", "title",
}

func walkElement(n *html.Node, m svgdoc.Matrix, out *Outline) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || svgdoc.Prefix(c) != "" {
			continue
		}
		name := svgdoc.LocalName(c)
		if slices.Contains(skipped, name) {
			continue
		}
		if v, ok := svgdoc.Presentation(c, "display"); ok && v == "none" {
			continue
		}

		cm := m
		if t, ok := svgdoc.Attr(c, "transform"); ok {
			tm, err := svgdoc.ParseTransform(t)
			if err != nil {
				return fmt.Errorf("<%s>: %w", name, err)
			}
			cm = m.Mul(tm)
		}

		switch name {
		case "g", "a", "switch":
			if err := walkElement(c, cm, out); err != nil {
				return err
			}
			continue
		}

		if fill, ok := inheritedFill(c); ok && (fill == "none" || fill == "transparent") {
			continue
		}

		contours, err := shapeContours(c)
		if err != nil {
			return fmt.Errorf("<%s>: %w", name, err)
		}
		for _, ct := range contours {
			out.Contours = append(out.Contours, ct.transform(cm))
		}
	}
	return nil
}

func inheritedFill(n *html.Node) (string, bool) {
	for c := n; c != nil && c.Type == html.ElementNode; c = c.Parent {
		if v, ok := svgdoc.Presentation(c, "fill"); ok && v != "inherit" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func (c Contour) transform(m svgdoc.Matrix) Contour {
	apply := func(p Point) Point {
		x, y := m.Apply(p.X, p.Y)
		return Point{x, y}
	}
	out := Contour{Start: apply(c.Start), Segs: make([]segment, len(c.Segs))}
	for i, s := range c.Segs {
		out.Segs[i] = segment{Kind: s.Kind, P: [3]Point{apply(s.P[0]), apply(s.P[1]), apply(s.P[2])}}
	}
	return out
}

func shapeContours(n *html.Node) ([]Contour, error) {
	num := func(key string) float64 {
		v, ok := svgdoc.Attr(n, key)
		if !ok {
			return 0
		}
		l, err := svgdoc.ParseLength(v)
		if err != nil {
			return 0
		}
		return l.Value
	}

	switch svgdoc.LocalName(n) {
	case "path":
		d, _ := svgdoc.Attr(n, "d")
		segs, err := svgdoc.ParsePath(d)
		if err != nil {
			return nil, err
		}
		return pathContours(segs), nil
	case "rect":
		return rectContour(num("x"), num("y"), num("width"), num("height"), attrOr(n, "rx"), attrOr(n, "ry")), nil
	case "circle":
		r := num("r")
		return ellipseContour(num("cx"), num("cy"), r, r), nil
	case "ellipse":
		return ellipseContour(num("cx"), num("cy"), num("rx"), num("ry")), nil
	case "polygon", "polyline":
		pts, _ := svgdoc.Attr(n, "points")
		nums, err := svgdoc.ParseNumberList(pts)
		if err != nil {
			return nil, err
		}
		return polyContour(nums), nil
	}
	return nil, nil
}

func attrOr(n *html.Node, key string) float64 {
	v, ok := svgdoc.Attr(n, key)
	if !ok {
		return -1
	}
	l, err := svgdoc.ParseLength(v)
	if err != nil {
		return -1
	}
	return l.Value
}

// pathContours resolves relative, smooth and arc commands into absolute
// line, quadratic and cubic segments.
func pathContours(segs []svgdoc.PathSegment) []Contour {
	var (
		out       []Contour
		cur       *Contour
		pen       Point
		start     Point
		lastCubic Point // second control point of the previous cubic
		lastQuad  Point // control point of the previous quadratic
		prev      byte
	)

	flush := func() {
		if cur != nil && len(cur.Segs) > 0 {
			out = append(out, *cur)
		}
		cur = nil
	}
	ensure := func() {
		if cur == nil {
			cur = &Contour{Start: pen}
			start = pen
		}
	}
	add := func(s segment) {
		ensure()
		cur.Segs = append(cur.Segs, s)
		pen = s.end()
	}

	for _, s := range segs {
		a := s.Args
		rel := s.Cmd >= 'a'
		off := Point{}
		if rel {
			off = pen
		}
		pt := func(i int) Point { return Point{a[i], a[i+1]}.add(off) }

		switch s.Cmd {
		case 'M', 'm':
			flush()
			pen = pt(0)
			start = pen
			cur = &Contour{Start: pen}
		case 'L', 'l':
			add(segment{Kind: segLine, P: [3]Point{pt(0)}})
		case 'H':
			add(segment{Kind: segLine, P: [3]Point{{a[0], pen.Y}}})
		case 'h':
			add(segment{Kind: segLine, P: [3]Point{{pen.X + a[0], pen.Y}}})
		case 'V':
			add(segment{Kind: segLine, P: [3]Point{{pen.X, a[0]}}})
		case 'v':
			add(segment{Kind: segLine, P: [3]Point{{pen.X, pen.Y + a[0]}}})
		case 'C', 'c':
			c2 := pt(2)
			add(segment{Kind: segCubic, P: [3]Point{pt(0), c2, pt(4)}})
			lastCubic = c2
		case 'S', 's':
			c1 := pen
			if prev == 'C' || prev == 'c' || prev == 'S' || prev == 's' {
				c1 = pen.mul(2).sub(lastCubic)
			}
			c2 := pt(0)
			add(segment{Kind: segCubic, P: [3]Point{c1, c2, pt(2)}})
			lastCubic = c2
		case 'Q', 'q':
			c := pt(0)
			add(segment{Kind: segQuad, P: [3]Point{c, pt(2)}})
			lastQuad = c
		case 'T', 't':
			c := pen
			if prev == 'Q' || prev == 'q' || prev == 'T' || prev == 't' {
				c = pen.mul(2).sub(lastQuad)
			}
			add(segment{Kind: segQuad, P: [3]Point{c, pt(0)}})
			lastQuad = c
		case 'A', 'a':
			end := pt(5)
			for _, cs := range arcToCubics(pen, a[0], a[1], a[2], a[3] != 0, a[4] != 0, end) {
				add(cs)
			}
			pen = end
		case 'Z', 'z':
			if cur != nil {
				flush()
			}
			pen = start
		}
		prev = s.Cmd
	}
	flush()
	return out
}

const kappa = 0.5522847498307936 // 4/3 * (sqrt(2) - 1)

func ellipseContour(cx, cy, rx, ry float64) []Contour {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	kx, ky := rx*kappa, ry*kappa
	return []Contour{{
		Start: Point{cx + rx, cy},
		Segs: []segment{
			{segCubic, [3]Point{{cx + rx, cy + ky}, {cx + kx, cy + ry}, {cx, cy + ry}}},
			{segCubic, [3]Point{{cx - kx, cy + ry}, {cx - rx, cy + ky}, {cx - rx, cy}}},
			{segCubic, [3]Point{{cx - rx, cy - ky}, {cx - kx, cy - ry}, {cx, cy - ry}}},
			{segCubic, [3]Point{{cx + kx, cy - ry}, {cx + rx, cy - ky}, {cx + rx, cy}}},
		},
	}}
}

// rectContour builds a rectangle; negative rx or ry means unset.
func rectContour(x, y, w, h, rx, ry float64) []Contour {
	if w <= 0 || h <= 0 {
		return nil
	}
	switch {
	case rx < 0 && ry < 0:
		rx, ry = 0, 0
	case rx < 0:
		rx = ry
	case ry < 0:
		ry = rx
	}
	rx = math.Min(rx, w/2)
	ry = math.Min(ry, h/2)

	if rx == 0 || ry == 0 {
		return []Contour{{
			Start: Point{x, y},
			Segs: []segment{
				{Kind: segLine, P: [3]Point{{x + w, y}}},
				{Kind: segLine, P: [3]Point{{x + w, y + h}}},
				{Kind: segLine, P: [3]Point{{x, y + h}}},
			},
		}}
	}

	kx, ky := rx*kappa, ry*kappa
	return []Contour{{
		Start: Point{x + rx, y},
		Segs: []segment{
			{Kind: segLine, P: [3]Point{{x + w - rx, y}}},
			{segCubic, [3]Point{{x + w - rx + kx, y}, {x + w, y + ry - ky}, {x + w, y + ry}}},
			{Kind: segLine, P: [3]Point{{x + w, y + h - ry}}},
			{segCubic, [3]Point{{x + w, y + h - ry + ky}, {x + w - rx + kx, y + h}, {x + w - rx, y + h}}},
			{Kind: segLine, P: [3]Point{{x + rx, y + h}}},
			{segCubic, [3]Point{{x + rx - kx, y + h}, {x, y + h - ry + ky}, {x, y + h - ry}}},
			{Kind: segLine, P: [3]Point{{x, y + ry}}},
			{segCubic, [3]Point{{x, y + ry - ky}, {x + rx - kx, y}, {x + rx, y}}},
		},
	}}
}

func polyContour(nums []float64) []Contour {
	if len(nums) < 6 {
		return nil
	}
	ct := Contour{Start: Point{nums[0], nums[1]}}
	for i := 2; i+1 < len(nums); i += 2 {
		ct.Segs = append(ct.Segs, segment{Kind: segLine, P: [3]Point{{nums[i], nums[i+1]}}})
	}
	return []Contour{ct}
}
