package fontgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/iconfontify/core/svgdoc"
)

func TestExtractOutlineShapes(t *testing.T) {
	o, err := ExtractOutline([]byte(`<svg viewBox="0 0 24 24">` +
		`<rect x="2" y="2" width="4" height="4"/>` +
		`<rect x="8" y="2" width="4" height="4" rx="1"/>` +
		`<circle cx="12" cy="12" r="3"/>` +
		`<ellipse cx="12" cy="20" rx="3" ry="1"/>` +
		`<polygon points="0,0 4,0 4,4"/>` +
		`<path d="M1 1h2v2h-2zM5 5l1 1l-1 1z"/>` +
		`</svg>`))
	require.NoError(t, err)

	assert.Equal(t, svgdoc.ViewBox{Width: 24, Height: 24}, o.ViewBox)
	require.Len(t, o.Contours, 7)
	assert.Len(t, o.Contours[0].Segs, 3, "square rect is three lines back to the start")
	assert.Len(t, o.Contours[1].Segs, 8, "rounded rect has four corners")
	assert.Len(t, o.Contours[2].Segs, 4)
	assert.Equal(t, Point{1, 1}, o.Contours[5].Start)
	assert.Equal(t, Point{5, 5}, o.Contours[6].Start)
}

func TestExtractOutlineTransforms(t *testing.T) {
	o, err := ExtractOutline([]byte(`<svg viewBox="0 0 24 24">` +
		`<g transform="translate(10 0)"><rect width="2" height="2" transform="scale(2)"/></g>` +
		`</svg>`))
	require.NoError(t, err)
	require.Len(t, o.Contours, 1)
	assert.Equal(t, Point{10, 0}, o.Contours[0].Start)
	assert.Equal(t, Point{14, 0}, o.Contours[0].Segs[0].end())
	assert.Equal(t, Point{14, 4}, o.Contours[0].Segs[1].end())
}

func TestExtractOutlineRelativeAndSmooth(t *testing.T) {
	o, err := ExtractOutline([]byte(`<svg viewBox="0 0 24 24">` +
		`<path d="M2 2c1 0 2 1 2 2s1 2 2 2q1 0 1 1t1 1a1 1 0 0 1 1 1z"/></svg>`))
	require.NoError(t, err)
	require.Len(t, o.Contours, 1)

	segs := o.Contours[0].Segs
	require.GreaterOrEqual(t, len(segs), 5)
	assert.Equal(t, Point{4, 4}, segs[0].end())
	assert.Equal(t, Point{4, 5}, segs[1].P[0], "smooth cubic reflects the previous control point")
	assert.Equal(t, Point{6, 6}, segs[1].end())
	assert.Equal(t, Point{7, 7}, segs[2].end())
	assert.Equal(t, Point{7, 8}, segs[3].P[0], "smooth quadratic reflects its control")
	assert.Equal(t, Point{8, 8}, segs[3].end())
	assert.Equal(t, Point{9, 9}, segs[len(segs)-1].end())
}

func TestExtractOutlineSkipsUnpainted(t *testing.T) {
	o, err := ExtractOutline([]byte(`<svg viewBox="0 0 24 24">` +
		`<defs><rect width="24" height="24"/></defs>` +
		`<clipPath><rect width="24" height="24"/></clipPath>` +
		`<rect width="24" height="24" fill="none"/>` +
		`<g style="display:none"><rect width="24" height="24"/></g>` +
		`<g fill="none"><rect width="24" height="24"/><rect width="1" height="1" fill="currentColor"/></g>` +
		`</svg>`))
	require.NoError(t, err)
	require.Len(t, o.Contours, 1)
	assert.Equal(t, Point{1, 0}, o.Contours[0].Segs[0].end())
}

func TestExtractOutlineErrors(t *testing.T) {
	_, err := ExtractOutline([]byte(`<svg viewBox="0 0 24 24"><path d="M0 0" fill="none"/></svg>`))
	assert.ErrorIs(t, err, ErrEmptyOutline)

	_, err = ExtractOutline([]byte(`<svg><path d="M0 0h1v1z"/></svg>`))
	assert.ErrorContains(t, err, "neither a viewBox")

	_, err = ExtractOutline([]byte(`<svg viewBox="0 0 0 24"><path d="M0 0h1v1z"/></svg>`))
	assert.ErrorContains(t, err, "no area")

	_, err = ExtractOutline([]byte(`<svg viewBox="0 0 24 24"><path d="L0 0"/></svg>`))
	assert.ErrorContains(t, err, "<path>")

	o, err := ExtractOutline([]byte(`<svg width="32px" height="16"><path d="M0 0h1v1z"/></svg>`))
	require.NoError(t, err)
	assert.Equal(t, svgdoc.ViewBox{Width: 32, Height: 16}, o.ViewBox)
}
