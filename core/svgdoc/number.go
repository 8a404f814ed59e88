package svgdoc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatNumber rounds v to precision decimal digits and prints the shortest
// form, without trailing zeros. Negative zero prints as "0".
func FormatNumber(v float64, precision int) string {
	if precision >= 0 {
		p := math.Pow10(precision)
		v = math.Round(v*p) / p
	}
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseNumberList splits a comma- or whitespace-separated list of numbers.
func ParseNumberList(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// ViewBox is the user coordinate window of an icon.
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

// ParseViewBox reads a viewBox attribute value.
func ParseViewBox(s string) (ViewBox, error) {
	nums, err := ParseNumberList(s)
	if err != nil {
		return ViewBox{}, fmt.Errorf("viewBox %q: %w", s, err)
	}
	if len(nums) != 4 {
		return ViewBox{}, fmt.Errorf("viewBox %q: want 4 numbers, got %d", s, len(nums))
	}
	vb := ViewBox{nums[0], nums[1], nums[2], nums[3]}
	if vb.Width < 0 || vb.Height < 0 {
		return ViewBox{}, fmt.Errorf("viewBox %q: negative size", s)
	}
	return vb, nil
}

// String prints integers without a decimal point and everything else fixed
// to three decimals.
func (v ViewBox) String() string {
	parts := []string{
		formatViewBoxNumber(v.MinX),
		formatViewBoxNumber(v.MinY),
		formatViewBoxNumber(v.Width),
		formatViewBoxNumber(v.Height),
	}
	return strings.Join(parts, " ")
}

func formatViewBoxNumber(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// ErrNoLength is returned by ParseLength for an empty value.
var ErrNoLength = errors.New("no length")

// Length is a coordinate or size attribute. Percent lengths keep their raw
// percentage in Value.
type Length struct {
	Value   float64
	Percent bool
}

// ParseLength reads a length attribute, accepting a px suffix or a percentage.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Length{}, ErrNoLength
	}
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "%"), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q", s)
	}
	return Length{Value: v, Percent: pct}, nil
}

// Resolve converts a percentage against ref; absolute lengths pass through.
func (l Length) Resolve(ref float64) float64 {
	if l.Percent {
		return l.Value / 100 * ref
	}
	return l.Value
}
