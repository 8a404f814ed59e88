package normalize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/iconfontify/core"
	"github.com/gaurav-prasanna/iconfontify/core/svgdoc"
)

const homeIcon = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24">
  <title>home</title>
  <defs><clipPath id="clip"><rect width="24" height="24"/></clipPath></defs>
  <rect width="24" height="24" fill="#ffffff"/>
  <g clip-path="url(#clip)">
    <path d="M12 3L2 12h3v8h6v-6h2v6h6v-8h3z" fill="#333333" fill-opacity="0.9"/>
    <path d="M0 0h24v24H0z" fill="#fff" fill-opacity="0"/>
  </g>
</svg>
`

const brokenIcon = `<svg viewBox="0 0 24 24"><path d="M0 0L1 1"></svg>`

func normalizeString(t *testing.T, src string) string {
	t.Helper()
	out, err := New(Options{}).Normalize([]byte(src))
	require.NoError(t, err)
	return string(out)
}

func TestRuleOrder(t *testing.T) {
	var names []string
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"optimize", "remove-backgrounds", "unwrap-clip-groups", "strip-paint",
		"prune-empty-groups", "inject-current-color", "format-viewbox", "collapse-whitespace",
	}, names)
}

func TestBackgroundStripping(t *testing.T) {
	got := normalizeString(t, homeIcon)
	assert.Equal(t,
		`<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24">`+
			`<path d="M12 3L2 12h3v8h6v-6h2v6h6v-8h3z" fill="currentColor"></path></svg>`,
		got)
	assert.NotContains(t, got, "<rect")
	assert.NotContains(t, got, "fill-opacity")
}

func TestBackgroundRectDetection(t *testing.T) {
	src := `<svg viewBox="0 0 16 16">` +
		`<rect width="100%" height="100%"/>` +
		`<rect x="-1" y="-1" width="18" height="18" fill="black"/>` +
		`<rect x="4" y="4" width="8" height="8" fill="none"/>` +
		`<rect x="2" y="2" width="4" height="4"/>` +
		`</svg>`
	got := normalizeString(t, src)
	assert.Equal(t,
		`<svg viewBox="0 0 16 16"><rect x="2" y="2" width="4" height="4"></rect></svg>`,
		got, "only the real shape survives; no path means no fill marker")
}

func TestDecoyNeedsBackgroundFill(t *testing.T) {
	src := `<svg viewBox="0 0 24 24">` +
		`<path d="M1 1L2 2" fill="white" fill-opacity="0"/>` +
		`<path d="M3 3L4 4" fill="#FFF" opacity="0"/>` +
		`<path d="M5 5L6 6" fill="red" fill-opacity="0"/>` +
		`</svg>`
	got := normalizeString(t, src)
	assert.Equal(t,
		`<svg viewBox="0 0 24 24"><path d="M5 5L6 6" fill="currentColor"></path></svg>`,
		got)
}

func TestMasksAndStylePaint(t *testing.T) {
	src := `<svg viewBox="0 0 24 24"><mask id="m"><path d="M0 0"/></mask>` +
		`<g mask="url(#m)" id="wrap"><path d="M1 1L2 2" style="fill:#000;fill-rule:evenodd;clip-path:url(#c)"/></g>` +
		`<g clip-path="url(#c)"></g></svg>`
	got := normalizeString(t, src)
	assert.Equal(t,
		`<svg viewBox="0 0 24 24"><g id="wrap"><path d="M1 1L2 2" style="fill-rule:evenodd" fill="currentColor"></path></g></svg>`,
		got)
}

func TestViewBoxFormatting(t *testing.T) {
	got := normalizeString(t, `<svg viewBox="0 0 24.5 24.12345"><path d="M0 0L1 1"/></svg>`)
	assert.Contains(t, got, `viewBox="0 0 24.500 24.123"`)

	got = normalizeString(t, `<svg><path d="M0 0L1 1" fill="red"/></svg>`)
	assert.Equal(t, `<svg><path d="M0 0L1 1" fill="currentColor"></path></svg>`, got)

	_, err := New(Options{}).Normalize([]byte(`<svg viewBox="0 0 a b"><path d="M0 0"/></svg>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format-viewbox")
}

func TestWhitespaceCollapse(t *testing.T) {
	got := normalizeString(t, "<svg>\n  <text>Hello \n\t world</text>\n</svg>")
	assert.Equal(t, `<svg><text>Hello world</text></svg>`, got)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	srcs := []string{
		homeIcon,
		`<svg viewBox="0 0 20.25 20"><g><path d="M1.11111 2.22222C3 4 5 6 7.77777 8.88888z"/></g></svg>`,
	}
	for _, src := range srcs {
		once := normalizeString(t, src)
		twice := normalizeString(t, once)
		assert.Equal(t, once, twice)

		d1, err := svgdoc.Parse([]byte(once))
		require.NoError(t, err)
		d2, err := svgdoc.Parse([]byte(twice))
		require.NoError(t, err)
		vb1, _ := svgdoc.Attr(d1.Root(), "viewBox")
		vb2, _ := svgdoc.Attr(d2.Root(), "viewBox")
		assert.Equal(t, vb1, vb2)
		assert.Equal(t, countSegments(t, d1), countSegments(t, d2))
	}
}

func countSegments(t *testing.T, doc *svgdoc.Document) int {
	t.Helper()
	total := 0
	for _, n := range doc.Selection().FindMatcher(svgdoc.Tag("path")).Nodes {
		d, _ := svgdoc.Attr(n, "d")
		segs, err := svgdoc.ParsePath(d)
		require.NoError(t, err)
		total += len(segs)
	}
	return total
}

func writeIcons(t *testing.T, dir string, icons map[string]string) {
	t.Helper()
	for name, body := range icons {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func TestNormalizeDirPartialFailure(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "work")
	writeIcons(t, src, map[string]string{
		"home.svg":   homeIcon,
		"broken.svg": brokenIcon,
		"user.svg":   `<svg viewBox="0 0 24 24"><circle cx="12" cy="8" r="4"/><path d="M4 20c0-4 4-6 8-6s8 2 8 6z"/></svg>`,
	})

	report, err := New(Options{Workers: 3}).NormalizeDir(context.Background(), src, dst)
	require.NoError(t, err)

	assert.False(t, report.OK())
	assert.Equal(t, []string{filepath.Join(src, "home.svg"), filepath.Join(src, "user.svg")}, report.Processed)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, filepath.Join(src, "broken.svg"), report.Failed[0].Path)
	assert.True(t, core.IsKind(report.Failed[0], core.KindFile))

	// The broken icon is carried over unchanged; originals are untouched.
	copied, err := os.ReadFile(filepath.Join(dst, "broken.svg"))
	require.NoError(t, err)
	assert.Equal(t, brokenIcon, string(copied))

	orig, err := os.ReadFile(filepath.Join(src, "home.svg"))
	require.NoError(t, err)
	assert.Equal(t, homeIcon, string(orig))

	normalized, err := os.ReadFile(filepath.Join(dst, "home.svg"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(normalized), `fill="currentColor"`))
}

func TestNormalizeDirInPlace(t *testing.T) {
	dir := t.TempDir()
	writeIcons(t, dir, map[string]string{"home.svg": homeIcon, "broken.svg": brokenIcon})

	report, err := New(Options{}).NormalizeDir(context.Background(), dir, dir)
	require.NoError(t, err)
	assert.Len(t, report.Processed, 1)
	assert.Len(t, report.Failed, 1)

	home, err := os.ReadFile(filepath.Join(dir, "home.svg"))
	require.NoError(t, err)
	assert.NotEqual(t, homeIcon, string(home))

	broken, err := os.ReadFile(filepath.Join(dir, "broken.svg"))
	require.NoError(t, err)
	assert.Equal(t, brokenIcon, string(broken), "failed file keeps its prior state")
}

func TestNormalizeDirInputErrors(t *testing.T) {
	_, err := New(Options{}).NormalizeDir(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir())
	assert.True(t, core.IsKind(err, core.KindInput))

	_, err = New(Options{}).NormalizeDir(context.Background(), t.TempDir(), t.TempDir())
	assert.True(t, core.IsKind(err, core.KindInput))
}

func TestNormalizeDirCancelled(t *testing.T) {
	src := t.TempDir()
	writeIcons(t, src, map[string]string{"home.svg": homeIcon})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{}).NormalizeDir(ctx, src, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
