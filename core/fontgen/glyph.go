package fontgen

import "math"

// quadTolerance is how far, in font units, a quadratic piece may stray from
// the cubic it replaces.
const quadTolerance = 0.5

type glyphPoint struct {
	X, Y int16
	On   bool
}

// glyphData is one glyph laid out in font units, ready for the glyf table.
type glyphData struct {
	Name     string
	Contours [][]glyphPoint
	Advance  uint16

	XMin, YMin, XMax, YMax int16
}

type fpoint struct {
	P  Point
	On bool
}

// layoutGlyph scales an outline into the em square with the y axis flipped,
// converts every curve to quadratics and rounds to the integer grid.
func layoutGlyph(name string, o *Outline, opts Options) (glyphData, error) {
	em := float64(opts.FontHeight)
	ascent := em - float64(opts.Descent)
	vb := o.ViewBox

	scale := 1.0
	if opts.Normalize {
		scale = em / vb.Height
	}
	toFont := func(p Point) Point {
		return Point{(p.X - vb.MinX) * scale, ascent - (p.Y-vb.MinY)*scale}
	}

	advance := math.Round(vb.Width * scale)
	if opts.FixedWidth {
		advance = em
	}

	var contours [][]fpoint
	for _, c := range o.Contours {
		pts := []fpoint{{P: toFont(c.Start), On: true}}
		pen := toFont(c.Start)
		for _, s := range c.Segs {
			switch s.Kind {
			case segLine:
				pen = toFont(s.P[0])
				pts = append(pts, fpoint{P: pen, On: true})
			case segQuad:
				pts = append(pts, fpoint{P: toFont(s.P[0])}, fpoint{P: toFont(s.P[1]), On: true})
				pen = toFont(s.P[1])
			case segCubic:
				cubicToQuads(pen, toFont(s.P[0]), toFont(s.P[1]), toFont(s.P[2]), quadTolerance, func(ctrl, end Point) {
					pts = append(pts, fpoint{P: ctrl}, fpoint{P: end, On: true})
				})
				pen = toFont(s.P[2])
			}
		}
		contours = append(contours, pts)
	}

	dx := 0.0
	if opts.CenterHorizontally {
		minX, maxX := math.Inf(1), math.Inf(-1)
		for _, c := range contours {
			for _, p := range c {
				minX = math.Min(minX, p.P.X)
				maxX = math.Max(maxX, p.P.X)
			}
		}
		dx = (advance-(maxX-minX))/2 - minX
	}

	g := glyphData{Name: name, Advance: clampU16(advance)}
	for _, c := range contours {
		rounded := roundContour(c, dx)
		if len(rounded) < 3 {
			continue
		}
		g.Contours = append(g.Contours, rounded)
	}
	if len(g.Contours) == 0 {
		return glyphData{}, ErrEmptyOutline
	}
	g.computeBounds()
	return g, nil
}

// roundContour snaps points to the grid, dropping repeated on-curve points
// and a closing point that returns to the start.
func roundContour(c []fpoint, dx float64) []glyphPoint {
	out := make([]glyphPoint, 0, len(c))
	for _, p := range c {
		gp := glyphPoint{X: clampI16(p.P.X + dx), Y: clampI16(p.P.Y), On: p.On}
		if n := len(out); n > 0 && gp.On && out[n-1].On && out[n-1].X == gp.X && out[n-1].Y == gp.Y {
			continue
		}
		out = append(out, gp)
	}
	if n := len(out); n > 1 && out[n-1].On && out[n-1].X == out[0].X && out[n-1].Y == out[0].Y {
		out = out[:n-1]
	}
	return out
}

func (g *glyphData) computeBounds() {
	g.XMin, g.YMin = math.MaxInt16, math.MaxInt16
	g.XMax, g.YMax = math.MinInt16, math.MinInt16
	for _, c := range g.Contours {
		for _, p := range c {
			g.XMin = min(g.XMin, p.X)
			g.YMin = min(g.YMin, p.Y)
			g.XMax = max(g.XMax, p.X)
			g.YMax = max(g.YMax, p.Y)
		}
	}
}

func (g *glyphData) numPoints() int {
	n := 0
	for _, c := range g.Contours {
		n += len(c)
	}
	return n
}

// coordLimit keeps every point delta within int16.
const coordLimit = 16383

func clampI16(v float64) int16 {
	return int16(math.Max(-coordLimit, math.Min(coordLimit, math.Round(v))))
}

func clampU16(v float64) uint16 {
	return uint16(math.Max(0, math.Min(math.MaxUint16, math.Round(v))))
}
