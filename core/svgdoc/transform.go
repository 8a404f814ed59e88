package svgdoc

import (
	"fmt"
	"math"
	"strings"
)

// Matrix is an affine transform [a b c d e f], mapping (x, y) to
// (a*x + c*y + e, b*x + d*y + f).
type Matrix [6]float64

// Identity is the transform that changes nothing.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Mul returns m × n, the transform that applies n first and then m.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[2]*n[1],
		m[1]*n[0] + m[3]*n[1],
		m[0]*n[2] + m[2]*n[3],
		m[1]*n[2] + m[3]*n[3],
		m[0]*n[4] + m[2]*n[5] + m[4],
		m[1]*n[4] + m[3]*n[5] + m[5],
	}
}

// Apply transforms a point.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ParseTransform reads a transform attribute: a list of matrix, translate,
// scale, rotate, skewX and skewY functions applied right to left.
func ParseTransform(s string) (Matrix, error) {
	out := Identity
	rest := strings.TrimSpace(s)
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			return Identity, fmt.Errorf("transform %q: missing '('", s)
		}
		closing := strings.IndexByte(rest, ')')
		if closing < open {
			return Identity, fmt.Errorf("transform %q: missing ')'", s)
		}
		name := strings.TrimSpace(rest[:open])
		args, err := ParseNumberList(rest[open+1 : closing])
		if err != nil {
			return Identity, fmt.Errorf("transform %q: %w", s, err)
		}
		m, err := transformFunc(name, args)
		if err != nil {
			return Identity, fmt.Errorf("transform %q: %w", s, err)
		}
		out = out.Mul(m)
		rest = strings.TrimLeft(rest[closing+1:], " \t\n\r,")
	}
	return out, nil
}

func transformFunc(name string, args []float64) (Matrix, error) {
	want := func(counts ...int) error {
		for _, c := range counts {
			if len(args) == c {
				return nil
			}
		}
		return fmt.Errorf("%s takes %v arguments, got %d", name, counts, len(args))
	}

	switch name {
	case "matrix":
		if err := want(6); err != nil {
			return Identity, err
		}
		return Matrix{args[0], args[1], args[2], args[3], args[4], args[5]}, nil
	case "translate":
		if err := want(1, 2); err != nil {
			return Identity, err
		}
		ty := 0.0
		if len(args) == 2 {
			ty = args[1]
		}
		return Matrix{1, 0, 0, 1, args[0], ty}, nil
	case "scale":
		if err := want(1, 2); err != nil {
			return Identity, err
		}
		sy := args[0]
		if len(args) == 2 {
			sy = args[1]
		}
		return Matrix{args[0], 0, 0, sy, 0, 0}, nil
	case "rotate":
		if err := want(1, 3); err != nil {
			return Identity, err
		}
		rad := args[0] * math.Pi / 180
		sin, cos := math.Sincos(rad)
		r := Matrix{cos, sin, -sin, cos, 0, 0}
		if len(args) == 3 {
			cx, cy := args[1], args[2]
			return Matrix{1, 0, 0, 1, cx, cy}.Mul(r).Mul(Matrix{1, 0, 0, 1, -cx, -cy}), nil
		}
		return r, nil
	case "skewX":
		if err := want(1); err != nil {
			return Identity, err
		}
		return Matrix{1, 0, math.Tan(args[0] * math.Pi / 180), 1, 0, 0}, nil
	case "skewY":
		if err := want(1); err != nil {
			return Identity, err
		}
		return Matrix{1, math.Tan(args[0] * math.Pi / 180), 0, 1, 0, 0}, nil
	}
	return Identity, fmt.Errorf("unknown function %q", name)
}
