package fontgen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/iconfontify/core"
	"github.com/gaurav-prasanna/iconfontify/core/discover"
)

// NativeName is the registry name of the in-process synthesizer.
const NativeName = "native"

func init() {
	Register(NativeName, func(cfg Config) (Synthesizer, error) {
		return NewNative(cfg.Logger), nil
	})
}

// Native encodes TrueType fonts in-process.
type Native struct {
	log *slog.Logger
}

// NewNative creates the in-process synthesizer. A nil logger discards
// warnings about dropped icons.
func NewNative(log *slog.Logger) *Native {
	return &Native{log: core.LoggerOr(log)}
}

// Synthesize builds one glyph per icon matched by req.Glob, in glob order.
// Icons without a drawable outline are dropped with a warning.
func (n *Native) Synthesize(ctx context.Context, req Request) (*Result, error) {
	for _, f := range req.Formats {
		if f != FormatTTF {
			return nil, core.Errorf(core.KindSynthesis, "fontgen",
				"request only the ttf format", "native synthesizer cannot produce %q", f)
		}
	}

	paths, err := filepath.Glob(req.Glob)
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", req.Glob, err)
	}
	slices.Sort(paths)

	var (
		glyphs []glyphData
		out    []Glyph
		names  = make(map[string]bool)
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !discover.IsIcon(filepath.Base(path)) {
			continue
		}

		g, err := n.glyph(path, req.Options)
		if err != nil {
			n.log.Warn("icon dropped from font", "file", path, "err", err)
			continue
		}

		cp := req.StartUnicode + rune(len(out))
		if cp > core.LastPrivateUse {
			return nil, core.Errorf(core.KindSynthesis, "fontgen",
				"split the icons into several fonts",
				"code point %U is past the private use area", cp)
		}

		name := discover.IconName(path)
		g.Name = uniqueGlyphName(postGlyphName(name), names)
		glyphs = append(glyphs, g)
		out = append(out, Glyph{Name: name, Path: path, Unicode: []rune{cp}})
		n.log.Debug("glyph encoded", "name", name, "codepoint", fmt.Sprintf("U+%04X", cp))
	}

	if len(glyphs) == 0 {
		return nil, core.Errorf(core.KindSynthesis, "fontgen",
			"make sure the icons contain filled shapes",
			"no icon matching %q produced a glyph", req.Glob)
	}

	font, err := encodeTTF(req.Options, glyphs)
	if err != nil {
		return nil, core.Wrap(core.KindSynthesis, "fontgen", "encoding font",
			"re-run with --verbose and inspect the icon named in the log", err)
	}
	return &Result{Fonts: map[string][]byte{FormatTTF: font}, Glyphs: out}, nil
}

func (n *Native) glyph(path string, opts Options) (glyphData, error) {
	info, err := os.Stat(path)
	if err != nil {
		return glyphData{}, err
	}
	if !info.Mode().IsRegular() {
		return glyphData{}, fmt.Errorf("%s is not a regular file", path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return glyphData{}, err
	}
	outline, err := ExtractOutline(src)
	if err != nil {
		return glyphData{}, err
	}
	return layoutGlyph("", outline, opts)
}

// postGlyphName maps an icon name onto the characters glyph names allow.
func postGlyphName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" || s[0] == '.' || (s[0] >= '0' && s[0] <= '9') {
		s = "g" + s
	}
	if len(s) > 63 {
		s = s[:63]
	}
	return s
}

func uniqueGlyphName(base string, taken map[string]bool) string {
	name := base
	for i := 1; taken[name]; i++ {
		suffix := "." + strconv.Itoa(i)
		name = base
		if len(name)+len(suffix) > 63 {
			name = name[:63-len(suffix)]
		}
		name += suffix
	}
	taken[name] = true
	return name
}
