package assemble

import (
	"golang.org/x/image/font/sfnt"

	"github.com/gaurav-prasanna/iconfontify/core"
)

const verifyRemediation = "the synthesizer must emit glyphs in the order it reports them"

// Verify checks that font parses and that each record's code point maps to
// the glyph at the record's position, after .notdef.
func Verify(font []byte, records GlyphMap) error {
	f, err := sfnt.Parse(font)
	if err != nil {
		return core.Wrap(core.KindSynthesis, op, "font does not parse", verifyRemediation, err)
	}
	if n := f.NumGlyphs(); n < len(records)+1 {
		return core.Errorf(core.KindSynthesis, op, verifyRemediation,
			"font has %d glyphs for %d icons", n, len(records))
	}

	var buf sfnt.Buffer
	for i, r := range records {
		gi, err := f.GlyphIndex(&buf, r.CodePoint)
		if err != nil {
			return core.Wrap(core.KindSynthesis, op,
				"looking up "+r.DisplayCodePoint, verifyRemediation, err)
		}
		if want := sfnt.GlyphIndex(i + 1); gi != want {
			return core.Errorf(core.KindSynthesis, op, verifyRemediation,
				"%s (%s) maps to glyph %d, want %d", r.DisplayCodePoint, r.IconName, gi, want)
		}
	}
	return nil
}
