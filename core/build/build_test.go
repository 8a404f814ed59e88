package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/iconfontify/core"
	"github.com/gaurav-prasanna/iconfontify/core/config"
)

const homeIcon = `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24">
  <title>home</title>
  <rect width="24" height="24" fill="#ffffff"/>
  <path d="M12 3L2 12h3v8h6v-6h2v6h6v-8h3z" fill="#333"/>
</svg>`

const userIcon = `<svg viewBox="0 0 24 24"><circle cx="12" cy="8" r="4"/><path d="M4 20c0-4 4-6 8-6s8 2 8 6z"/></svg>`

func project(t *testing.T, icons map[string]string) config.Build {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "icon"), 0o755))
	for name, body := range icons {
		require.NoError(t, os.WriteFile(filepath.Join(root, "icon", name), []byte(body), 0o644))
	}
	cfg := config.Defaults()
	cfg.Cwd = root
	return cfg
}

func TestRunRoundTrip(t *testing.T) {
	cfg := project(t, map[string]string{"home.svg": homeIcon, "user.svg": userIcon})
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	res, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)

	assert.True(t, res.Report.OK())
	assert.Equal(t, filepath.Join(cfg.Cwd, "build", "iconfont", "iconfont.ttf"), res.Assembly.Artifacts.FontPath)
	assert.FileExists(t, res.Assembly.Artifacts.MappingPath)
	require.Len(t, res.Assembly.Records, 2)
	assert.Equal(t, "home", res.Assembly.Records[0].IconName)
	assert.Equal(t, "U+E002", res.Assembly.Records[1].DisplayCodePoint)

	orig, err := os.ReadFile(filepath.Join(cfg.Cwd, "icon", "home.svg"))
	require.NoError(t, err)
	assert.Equal(t, homeIcon, string(orig), "input untouched without in-place mode")

	left, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, left, "working copy removed")
}

func TestRunInPlace(t *testing.T) {
	cfg := project(t, map[string]string{"home.svg": homeIcon})
	cfg.InPlace = true

	_, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(cfg.Cwd, "icon", "home.svg"))
	require.NoError(t, err)
	assert.NotContains(t, string(got), "<rect")
	assert.Contains(t, string(got), `fill="currentColor"`)
}

func TestRunPartialFailure(t *testing.T) {
	cfg := project(t, map[string]string{
		"home.svg":   homeIcon,
		"broken.svg": `<svg viewBox="0 0 24 24"><path></svg>`,
		"user.svg":   userIcon,
	})
	cfg.Workers = 2

	res, err := Run(context.Background(), cfg, Options{})
	require.NoError(t, err)
	require.Len(t, res.Report.Failed, 1)
	assert.True(t, core.IsKind(res.Report.Failed[0], core.KindFile))

	var names []string
	for _, r := range res.Assembly.Records {
		names = append(names, r.IconName)
	}
	assert.Equal(t, []string{"home", "user"}, names)
}

func TestRunRejectsEmptyInput(t *testing.T) {
	cfg := project(t, nil)

	_, err := Run(context.Background(), cfg, Options{})
	assert.True(t, core.IsKind(err, core.KindInput))
	assert.NoDirExists(t, cfg.OutputPath())
}

func TestRunConfigErrors(t *testing.T) {
	cfg := project(t, map[string]string{"home.svg": homeIcon})
	cfg.Synthesizer = "fontforge"
	_, err := Run(context.Background(), cfg, Options{})
	assert.True(t, core.IsKind(err, core.KindEnvironment))

	cfg = project(t, map[string]string{"home.svg": homeIcon})
	cfg.FontName = "../escape"
	_, err = Run(context.Background(), cfg, Options{})
	assert.ErrorContains(t, err, "invalid configuration")
	assert.NoDirExists(t, cfg.OutputPath())
}

func TestRunMissingSynthesizerLeavesInput(t *testing.T) {
	cfg := project(t, map[string]string{"home.svg": homeIcon})
	cfg.InPlace = true
	cfg.Synthesizer = "exec"
	cfg.SynthCommand = []string{"iconfontify-no-such-synthesizer"}

	_, err := Run(context.Background(), cfg, Options{})
	assert.True(t, core.IsKind(err, core.KindEnvironment))

	got, err := os.ReadFile(filepath.Join(cfg.Cwd, "icon", "home.svg"))
	require.NoError(t, err)
	assert.Equal(t, homeIcon, string(got))
	assert.NoDirExists(t, cfg.OutputPath())
}
