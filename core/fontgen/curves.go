package fontgen

import "math"

// arcToCubics converts an elliptical arc from the endpoint parameterization
// used by path data into cubic segments spanning at most a quarter turn each.
// Out-of-range radii are scaled up; a zero radius degrades to a line.
func arcToCubics(from Point, rx, ry, phiDeg float64, large, sweep bool, to Point) []segment {
	if from == to {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return []segment{{Kind: segLine, P: [3]Point{to}}}
	}

	phi := phiDeg * math.Pi / 180
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)

	dx2 := (from.X - to.X) / 2
	dy2 := (from.Y - to.Y) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	if lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if num > 0 && den > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx
	cx := cosPhi*cxp - sinPhi*cyp + (from.X+to.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (from.Y+to.Y)/2

	u := Point{(x1p - cxp) / rx, (y1p - cyp) / ry}
	v := Point{(-x1p - cxp) / rx, (-y1p - cyp) / ry}
	theta := vectorAngle(Point{1, 0}, u)
	delta := vectorAngle(u, v)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta)/(math.Pi/2) - 1e-9))
	if n < 1 {
		n = 1
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	onEllipse := func(p Point) Point {
		return Point{
			cx + rx*cosPhi*p.X - ry*sinPhi*p.Y,
			cy + rx*sinPhi*p.X + ry*cosPhi*p.Y,
		}
	}

	out := make([]segment, 0, n)
	for i := 0; i < n; i++ {
		a1 := theta + float64(i)*step
		a2 := a1 + step
		s1, c1 := math.Sincos(a1)
		s2, c2 := math.Sincos(a2)
		end := onEllipse(Point{c2, s2})
		if i == n-1 {
			end = to
		}
		out = append(out, segment{Kind: segCubic, P: [3]Point{
			onEllipse(Point{c1 - k*s1, s1 + k*c1}),
			onEllipse(Point{c2 + k*s2, s2 - k*c2}),
			end,
		}})
	}
	return out
}

func vectorAngle(u, v Point) float64 {
	return math.Atan2(u.X*v.Y-u.Y*v.X, u.X*v.X+u.Y*v.Y)
}

const maxSplitDepth = 8

// cubicToQuads approximates a cubic with quadratic pieces whose distance
// from the cubic stays within tol. emit receives each control and end point.
func cubicToQuads(p0, c1, c2, p3 Point, tol float64, emit func(ctrl, end Point)) {
	splitCubic(p0, c1, c2, p3, tol, 0, emit)
}

func splitCubic(p0, c1, c2, p3 Point, tol float64, depth int, emit func(ctrl, end Point)) {
	d := p3.sub(c2.mul(3)).add(c1.mul(3)).sub(p0)
	if math.Hypot(d.X, d.Y)*math.Sqrt(3)/36 <= tol || depth >= maxSplitDepth {
		ctrl := c1.mul(3).sub(p0).add(c2.mul(3)).sub(p3).mul(0.25)
		emit(ctrl, p3)
		return
	}

	// de Casteljau at t = 0.5
	ab := p0.mid(c1)
	bc := c1.mid(c2)
	cd := c2.mid(p3)
	abc := ab.mid(bc)
	bcd := bc.mid(cd)
	m := abc.mid(bcd)

	splitCubic(p0, ab, abc, m, tol, depth+1, emit)
	splitCubic(m, bcd, cd, p3, tol, depth+1, emit)
}
