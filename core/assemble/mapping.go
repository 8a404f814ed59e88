// Package assemble — glyph map.
// Builds the code point records for a synthesized font and renders them as
// icon-mapping.json.
package assemble

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/gaurav-prasanna/iconfontify/core"
	"github.com/gaurav-prasanna/iconfontify/core/fontgen"
)

// MappingFile is the glyph map written next to the font.
const MappingFile = "icon-mapping.json"

type mappingEntry struct {
	Unicode   rune   `json:"unicode"`
	Hex       string `json:"hex"`
	CodePoint string `json:"codePoint"`
}

// GlyphMap is the ordered record list of one build.
type GlyphMap []core.GlyphRecord

// MarshalJSON writes an object keyed by icon name with keys in code point
// order.
func (m GlyphMap) MarshalJSON() ([]byte, error) {
	sorted := slices.Clone(m)
	slices.SortStableFunc(sorted, func(a, b core.GlyphRecord) int {
		return int(a.CodePoint - b.CodePoint)
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range sorted {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.IconName)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(mappingEntry{
			Unicode:   r.CodePoint,
			Hex:       r.HexCode,
			CodePoint: r.DisplayCodePoint,
		})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Render returns the contents of icon-mapping.json, indented by two spaces.
func (m GlyphMap) Render() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// StyleRules returns one ::before rule per record, in record order.
func (m GlyphMap) StyleRules() []string {
	rules := make([]string, 0, len(m))
	for _, r := range m {
		rules = append(rules, r.StyleRule())
	}
	return rules
}

// Records assigns code points in the order the synthesizer returned the
// glyphs. Any code point the synthesizer reported is ignored.
func Records(glyphs []fontgen.Glyph) (GlyphMap, error) {
	if len(glyphs) == 0 {
		return nil, core.Errorf(core.KindSynthesis, op,
			"make sure the icons contain filled shapes", "synthesizer returned no glyphs")
	}

	seen := make(map[string]int, len(glyphs))
	records := make(GlyphMap, 0, len(glyphs))
	for i, g := range glyphs {
		if g.Name == "" {
			return nil, core.Errorf(core.KindSynthesis, op,
				"check that the synthesizer names every glyph after its icon file", "glyph %d has no name", i)
		}
		if prev, dup := seen[g.Name]; dup {
			return nil, core.Errorf(core.KindSynthesis, op, "rename one of the icons",
				"glyphs %d and %d are both named %q", prev, i, g.Name)
		}
		seen[g.Name] = i
		records = append(records, core.NewGlyphRecord(g.Name, i))
	}
	return records, nil
}
