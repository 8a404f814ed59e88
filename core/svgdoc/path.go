package svgdoc

import (
	"fmt"
	"strconv"
	"strings"
)

// PathSegment is one command of path data with its arguments. Implicit
// repeats are split into separate segments, so len(Args) always equals
// ArgCount(Cmd).
type PathSegment struct {
	Cmd  byte
	Args []float64
}

// ArgCount is the number of arguments one instance of cmd takes, or -1 for an
// unknown command.
func ArgCount(cmd byte) int {
	switch cmd {
	case 'M', 'm', 'L', 'l', 'T', 't':
		return 2
	case 'H', 'h', 'V', 'v':
		return 1
	case 'C', 'c':
		return 6
	case 'S', 's', 'Q', 'q':
		return 4
	case 'A', 'a':
		return 7
	case 'Z', 'z':
		return 0
	}
	return -1
}

// ParsePath tokenizes SVG path data.
func ParsePath(d string) ([]PathSegment, error) {
	sc := pathScanner{s: d}
	var segs []PathSegment

	for {
		sc.skipSeparators()
		if sc.done() {
			break
		}
		cmd := sc.s[sc.pos]
		n := ArgCount(cmd)
		if n < 0 {
			return nil, fmt.Errorf("path data: unexpected %q at offset %d", cmd, sc.pos)
		}
		if len(segs) == 0 && cmd != 'M' && cmd != 'm' {
			return nil, fmt.Errorf("path data: must start with a moveto, got %q", cmd)
		}
		sc.pos++

		if n == 0 {
			segs = append(segs, PathSegment{Cmd: cmd})
			continue
		}

		first := true
		for {
			sc.skipSeparators()
			if sc.done() || !sc.atNumber() {
				if first {
					return nil, fmt.Errorf("path data: %q without arguments", cmd)
				}
				break
			}
			args := make([]float64, n)
			for i := range args {
				sc.skipSeparators()
				var (
					v   float64
					err error
				)
				if (cmd == 'A' || cmd == 'a') && (i == 3 || i == 4) {
					v, err = sc.flag()
				} else {
					v, err = sc.number()
				}
				if err != nil {
					return nil, fmt.Errorf("path data: %q argument %d: %w", cmd, i+1, err)
				}
				args[i] = v
			}
			c := cmd
			if !first {
				// Extra coordinate pairs after a moveto are linetos.
				switch cmd {
				case 'M':
					c = 'L'
				case 'm':
					c = 'l'
				}
			}
			segs = append(segs, PathSegment{Cmd: c, Args: args})
			first = false
		}
	}
	return segs, nil
}

// FormatPath prints segments compactly, rounding arguments to precision.
// Repeated commands are written out every time.
func FormatPath(segs []PathSegment, precision int) string {
	var b strings.Builder
	for _, seg := range segs {
		b.WriteByte(seg.Cmd)
		for i, a := range seg.Args {
			s := FormatNumber(a, precision)
			if i > 0 && !strings.HasPrefix(s, "-") {
				b.WriteByte(' ')
			}
			b.WriteString(s)
		}
	}
	return b.String()
}

type pathScanner struct {
	s   string
	pos int
}

func (sc *pathScanner) done() bool { return sc.pos >= len(sc.s) }

func (sc *pathScanner) skipSeparators() {
	for sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.pos++
		default:
			return
		}
	}
}

func (sc *pathScanner) atNumber() bool {
	c := sc.s[sc.pos]
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

// flag reads a single-digit arc flag, which may be packed against the next
// argument ("a1 1 0 011 1").
func (sc *pathScanner) flag() (float64, error) {
	if sc.done() {
		return 0, fmt.Errorf("missing flag")
	}
	switch sc.s[sc.pos] {
	case '0':
		sc.pos++
		return 0, nil
	case '1':
		sc.pos++
		return 1, nil
	}
	return 0, fmt.Errorf("invalid flag %q", sc.s[sc.pos])
}

func (sc *pathScanner) number() (float64, error) {
	start := sc.pos
	i := sc.pos
	if i < len(sc.s) && (sc.s[i] == '-' || sc.s[i] == '+') {
		i++
	}
	digits := 0
	for i < len(sc.s) && isDigit(sc.s[i]) {
		i++
		digits++
	}
	if i < len(sc.s) && sc.s[i] == '.' {
		i++
		for i < len(sc.s) && isDigit(sc.s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	if i < len(sc.s) && (sc.s[i] == 'e' || sc.s[i] == 'E') {
		j := i + 1
		if j < len(sc.s) && (sc.s[j] == '-' || sc.s[j] == '+') {
			j++
		}
		if j < len(sc.s) && isDigit(sc.s[j]) {
			for j < len(sc.s) && isDigit(sc.s[j]) {
				j++
			}
			i = j
		}
	}
	v, err := strconv.ParseFloat(sc.s[start:i], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", sc.s[start:i])
	}
	sc.pos = i
	return v, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
