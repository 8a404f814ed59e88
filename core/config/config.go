// Package config resolves the build parameters for one invocation.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// ICONFONTIFY_* environment variables. The CLI applies its flags last.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory when no
// explicit path is given.
const DefaultFile = "iconfontify.yaml"

// IconExt is the only recognized icon file extension.
const IconExt = ".svg"

// Build holds the parameters of a single build.
type Build struct {
	InputDir     string   `yaml:"inputDir"     env:"ICONFONTIFY_INPUT_DIR"`
	OutputDir    string   `yaml:"outputDir"    env:"ICONFONTIFY_OUTPUT_DIR"`
	FontName     string   `yaml:"fontName"     env:"ICONFONTIFY_FONT_NAME"`
	Cwd          string   `yaml:"-"            env:"ICONFONTIFY_CWD"`
	Synthesizer  string   `yaml:"synthesizer"  env:"ICONFONTIFY_SYNTHESIZER"`
	SynthCommand []string `yaml:"synthCommand" env:"ICONFONTIFY_SYNTH_COMMAND" envSeparator:" "`
	Workers      int      `yaml:"workers"      env:"ICONFONTIFY_WORKERS"`
	InPlace      bool     `yaml:"inPlace"      env:"ICONFONTIFY_IN_PLACE"`
}

// Defaults returns the built-in configuration.
func Defaults() Build {
	return Build{
		InputDir:    "icon",
		OutputDir:   filepath.Join("build", "iconfont"),
		FontName:    "iconfont",
		Synthesizer: "native",
		Workers:     1,
	}
}

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// File is an explicit YAML path. When empty, DefaultFile is used if it
	// exists.
	File string

	// Environment replaces the process environment; nil means os.Environ.
	Environment map[string]string
}

// Load resolves the layered configuration.
func Load(opts LoadOptions) (Build, error) {
	cfg := Defaults()

	if err := loadFile(&cfg, opts.File); err != nil {
		return Build{}, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: opts.Environment}); err != nil {
		return Build{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func loadFile(cfg *Build, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration can drive a build.
func (b Build) Validate() error {
	if b.InputDir == "" {
		return errors.New("input directory must not be empty")
	}
	if b.OutputDir == "" {
		return errors.New("output directory must not be empty")
	}
	if b.FontName == "" {
		return errors.New("font name must not be empty")
	}
	if strings.ContainsAny(b.FontName, `/\`) || b.FontName == "." || b.FontName == ".." {
		return fmt.Errorf("font name %q must be a plain file name", b.FontName)
	}
	if b.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", b.Workers)
	}
	return nil
}

// Resolve makes a relative path relative to Cwd.
func (b Build) Resolve(p string) string {
	if filepath.IsAbs(p) || b.Cwd == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(b.Cwd, p)
}

// InputPath is the resolved input directory.
func (b Build) InputPath() string {
	return b.Resolve(b.InputDir)
}

// OutputPath is the resolved output directory.
func (b Build) OutputPath() string {
	return b.Resolve(b.OutputDir)
}

// Glob returns the icon pattern for dir, with forward slashes.
func Glob(dir string) string {
	return filepath.ToSlash(filepath.Join(dir, "*"+IconExt))
}
