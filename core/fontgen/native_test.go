package fontgen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-text/typesetting/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gaurav-prasanna/iconfontify/core"
)

var testIcons = map[string]string{
	"home.svg":   `<svg viewBox="0 0 24 24"><path d="M12 3L2 12h3v8h6v-6h2v6h6v-8h3z" fill="currentColor"/></svg>`,
	"search.svg": `<svg viewBox="0 0 24 24"><circle cx="10" cy="10" r="6"/><path d="M14 15l6 6 1-1-6-6z"/></svg>`,
	"square.svg": `<svg viewBox="0 0 24 24"><rect width="24" height="24"/></svg>`,
}

func writeIcons(t *testing.T, icons map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range icons {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func synthesize(t *testing.T, dir string) *Result {
	t.Helper()
	res, err := NewNative(nil).Synthesize(context.Background(), Request{
		Glob:    filepath.Join(dir, "*.svg"),
		Options: DefaultOptions("testicons"),
	})
	require.NoError(t, err)
	return res
}

func glyphNames(res *Result) []string {
	var names []string
	for _, g := range res.Glyphs {
		names = append(names, g.Name)
	}
	return names
}

func TestNativeGlyphOrder(t *testing.T) {
	res := synthesize(t, writeIcons(t, testIcons))

	assert.Equal(t, []string{"home", "search", "square"}, glyphNames(res))
	for i, g := range res.Glyphs {
		assert.Equal(t, []rune{core.BasePoint + rune(i)}, g.Unicode)
	}
}

func TestNativeFontParses(t *testing.T) {
	res := synthesize(t, writeIcons(t, testIcons))
	data := res.Fonts[FormatTTF]
	require.NotEmpty(t, data)

	f, err := sfnt.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 4, f.NumGlyphs())
	assert.EqualValues(t, 1024, f.UnitsPerEm())

	var buf sfnt.Buffer
	family, err := f.Name(&buf, sfnt.NameIDFamily)
	require.NoError(t, err)
	assert.Equal(t, "testicons", family)

	for i, want := range []string{"home", "search", "square"} {
		gi, err := f.GlyphIndex(&buf, core.BasePoint+rune(i))
		require.NoError(t, err)
		assert.Equal(t, sfnt.GlyphIndex(i+1), gi)

		name, err := f.GlyphName(&buf, gi)
		require.NoError(t, err)
		assert.Equal(t, want, name)

		segs, err := f.LoadGlyph(&buf, gi, fixed.I(1024), nil)
		require.NoError(t, err)
		assert.NotEmpty(t, segs)
	}

	gi, err := f.GlyphIndex(&buf, 'A')
	require.NoError(t, err)
	assert.Equal(t, sfnt.GlyphIndex(0), gi)
}

func TestNativeSquareMetrics(t *testing.T) {
	res := synthesize(t, writeIcons(t, map[string]string{"square.svg": testIcons["square.svg"]}))
	f, err := sfnt.Parse(res.Fonts[FormatTTF])
	require.NoError(t, err)

	var buf sfnt.Buffer
	ppem := fixed.I(1024)
	adv, err := f.GlyphAdvance(&buf, 1, ppem, 0)
	require.NoError(t, err)
	assert.Equal(t, fixed.I(1024), adv)

	bounds, _, err := f.GlyphBounds(&buf, 1, ppem, 0)
	require.NoError(t, err)
	// sfnt reports y growing downward.
	assert.Equal(t, fixed.I(0), bounds.Min.X)
	assert.Equal(t, fixed.I(1024), bounds.Max.X)
	assert.Equal(t, fixed.I(-824), bounds.Min.Y)
	assert.Equal(t, fixed.I(200), bounds.Max.Y)
}

func TestNativeFontParsesWithGoText(t *testing.T) {
	res := synthesize(t, writeIcons(t, testIcons))

	face, err := font.ParseTTF(bytes.NewReader(res.Fonts[FormatTTF]))
	require.NoError(t, err)
	for i := range 3 {
		gid, ok := face.NominalGlyph(core.BasePoint + rune(i))
		require.True(t, ok)
		assert.EqualValues(t, i+1, gid)
	}
	_, ok := face.NominalGlyph(core.BasePoint + 3)
	assert.False(t, ok)
}

func TestNativeIsReproducible(t *testing.T) {
	dir := writeIcons(t, testIcons)
	first := synthesize(t, dir)
	second := synthesize(t, dir)
	assert.Equal(t, first.Fonts[FormatTTF], second.Fonts[FormatTTF])
}

func TestNativeDropsIconsWithoutOutline(t *testing.T) {
	dir := writeIcons(t, map[string]string{
		"empty.svg":   `<svg viewBox="0 0 24 24"><path d="M0 0h4v4z" fill="none"/></svg>`,
		"broken.svg":  `<svg viewBox="0 0 24 24"><path></svg>`,
		"home.svg":    testIcons["home.svg"],
		".hidden.svg": testIcons["square.svg"],
		"notes.txt":   "not an icon",
	})
	res := synthesize(t, dir)
	assert.Equal(t, []string{"home"}, glyphNames(res))
	assert.Equal(t, []rune{core.BasePoint}, res.Glyphs[0].Unicode)
}

func TestNativeErrors(t *testing.T) {
	ctx := context.Background()
	n := NewNative(nil)

	_, err := n.Synthesize(ctx, Request{Glob: filepath.Join(t.TempDir(), "*.svg"), Options: DefaultOptions("x")})
	assert.True(t, core.IsKind(err, core.KindSynthesis), "no survivors")

	dir := writeIcons(t, testIcons)
	opts := DefaultOptions("x")
	opts.Formats = []string{"woff2"}
	_, err = n.Synthesize(ctx, Request{Glob: filepath.Join(dir, "*.svg"), Options: opts})
	assert.True(t, core.IsKind(err, core.KindSynthesis))

	opts = DefaultOptions("x")
	opts.StartUnicode = core.LastPrivateUse
	_, err = n.Synthesize(ctx, Request{Glob: filepath.Join(dir, "*.svg"), Options: opts})
	assert.True(t, core.IsKind(err, core.KindSynthesis), "past the private use area")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = n.Synthesize(cancelled, Request{Glob: filepath.Join(dir, "*.svg"), Options: DefaultOptions("x")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostGlyphNames(t *testing.T) {
	taken := map[string]bool{}
	assert.Equal(t, "arrow-left", uniqueGlyphName(postGlyphName("arrow-left"), taken))
	assert.Equal(t, "caf_", uniqueGlyphName(postGlyphName("café"), taken))
	assert.Equal(t, "caf_.1", uniqueGlyphName(postGlyphName("cafè"), taken))
	assert.Equal(t, "g2fa", postGlyphName("2fa"))
	assert.Equal(t, "g", postGlyphName(""))
	assert.Len(t, postGlyphName(string(bytes.Repeat([]byte("a"), 100))), 63)
}
