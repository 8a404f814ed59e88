package fontgen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/iconfontify/core"
)

// TestHelperSynthesizer is not a real test. It is the external program the
// exec synthesizer runs, re-entering this test binary.
func TestHelperSynthesizer(t *testing.T) {
	switch os.Getenv("ICONFONTIFY_HELPER_SYNTH") {
	case "":
		return
	case "fail":
		fmt.Fprintln(os.Stderr, "helper: font engine crashed")
		os.Exit(3)
	case "garbage":
		fmt.Fprint(os.Stdout, "not json")
		os.Exit(0)
	}

	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	res, err := NewNative(nil).Synthesize(context.Background(), req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	_ = json.NewEncoder(os.Stdout).Encode(res)
	os.Exit(0)
}

func helperCommand() []string {
	return []string{os.Args[0], "-test.run=^TestHelperSynthesizer$"}
}

func TestExecRoundTrip(t *testing.T) {
	t.Setenv("ICONFONTIFY_HELPER_SYNTH", "native")
	dir := writeIcons(t, testIcons)

	s, err := Open(ExecName, Config{Command: helperCommand()})
	require.NoError(t, err)
	res, err := s.Synthesize(context.Background(), Request{
		Glob:    filepath.Join(dir, "*.svg"),
		Options: DefaultOptions("testicons"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"home", "search", "square"}, glyphNames(res))
	assert.Equal(t, synthesize(t, dir).Fonts[FormatTTF], res.Fonts[FormatTTF])
}

func TestExecFailures(t *testing.T) {
	ctx := context.Background()
	req := Request{Glob: "*.svg", Options: DefaultOptions("x")}

	_, err := Open(ExecName, Config{})
	assert.True(t, core.IsKind(err, core.KindEnvironment), "no command")

	_, err = NewExec(Config{Command: []string{"iconfontify-no-such-synthesizer"}})
	assert.True(t, core.IsKind(err, core.KindEnvironment), "missing program fails on open")
	assert.Contains(t, core.Remediation(err), "ICONFONTIFY_SYNTH_COMMAND")

	t.Setenv("ICONFONTIFY_HELPER_SYNTH", "fail")
	s, err := NewExec(Config{Command: helperCommand()})
	require.NoError(t, err)
	_, err = s.Synthesize(ctx, req)
	assert.True(t, core.IsKind(err, core.KindSynthesis))
	assert.ErrorContains(t, err, "font engine crashed")

	t.Setenv("ICONFONTIFY_HELPER_SYNTH", "garbage")
	_, err = s.Synthesize(ctx, req)
	assert.True(t, core.IsKind(err, core.KindSynthesis))
	assert.ErrorContains(t, err, "decoding synthesizer output")
	assert.Contains(t, core.Remediation(err), "stdout")
}
