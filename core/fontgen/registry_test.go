package fontgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/iconfontify/core"
)

type stubSynth struct{}

func (stubSynth) Synthesize(context.Context, Request) (*Result, error) { return &Result{}, nil }

func TestRegistry(t *testing.T) {
	assert.Subset(t, Synthesizers(), []string{ExecName, NativeName})

	s, err := Open(NativeName, Config{})
	require.NoError(t, err)
	assert.IsType(t, &Native{}, s)

	Register("stub", func(Config) (Synthesizer, error) { return stubSynth{}, nil })
	t.Cleanup(func() { Unregister("stub") })
	assert.Contains(t, Synthesizers(), "stub")

	assert.Panics(t, func() {
		Register("stub", func(Config) (Synthesizer, error) { return stubSynth{}, nil })
	})
	assert.Panics(t, func() { Register("nil", nil) })
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open("fontforge", Config{})
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindEnvironment))
	assert.Contains(t, core.Remediation(err), NativeName)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("icons")
	assert.Equal(t, []string{FormatTTF}, opts.Formats)
	assert.Equal(t, "icons", opts.FontName)
	assert.Equal(t, 1024, opts.FontHeight)
	assert.Equal(t, 200, opts.Descent)
	assert.True(t, opts.Normalize)
	assert.True(t, opts.CenterHorizontally)
	assert.False(t, opts.FixedWidth)
	assert.Equal(t, 400, opts.FontWeight)
	assert.Equal(t, "normal", opts.FontStyle)
	assert.Equal(t, "Generated icon font", opts.Metadata)
	assert.Equal(t, rune(core.BasePoint), opts.StartUnicode)
}
