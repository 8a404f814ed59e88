// Package build runs one full icon build: normalize into a working copy (or
// in place), then assemble the font and glyph map from the result.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gaurav-prasanna/iconfontify/core"
	"github.com/gaurav-prasanna/iconfontify/core/assemble"
	"github.com/gaurav-prasanna/iconfontify/core/config"
	"github.com/gaurav-prasanna/iconfontify/core/discover"
	"github.com/gaurav-prasanna/iconfontify/core/fontgen"
	"github.com/gaurav-prasanna/iconfontify/core/normalize"
)

// Options carries the collaborators of a build.
type Options struct {
	// Synthesizer overrides the one named in the configuration.
	Synthesizer fontgen.Synthesizer

	Logger *slog.Logger
}

// Result is the outcome of a build.
type Result struct {
	Report   *core.NormalizeReport
	Assembly *assemble.Result
}

// Synthesizer opens the synthesizer cfg names.
func Synthesizer(cfg config.Build, log *slog.Logger) (fontgen.Synthesizer, error) {
	return fontgen.Open(cfg.Synthesizer, fontgen.Config{Command: cfg.SynthCommand, Logger: log})
}

// Run normalizes and assembles the icons cfg points at. The input is left
// untouched unless cfg.InPlace is set; otherwise a temporary working copy is
// normalized and removed afterwards.
func Run(ctx context.Context, cfg config.Build, opts Options) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log := core.LoggerOr(opts.Logger)

	synth := opts.Synthesizer
	if synth == nil {
		var err error
		if synth, err = Synthesizer(cfg, log); err != nil {
			return nil, err
		}
	}

	inputDir := cfg.InputPath()
	if _, err := discover.Icons(inputDir); err != nil {
		return nil, err
	}

	workDir := inputDir
	if !cfg.InPlace {
		tmp, err := os.MkdirTemp("", "iconfontify-*")
		if err != nil {
			return nil, fmt.Errorf("creating working copy: %w", err)
		}
		defer func() {
			if err := os.RemoveAll(tmp); err != nil {
				log.Warn("working copy left behind", "dir", tmp, "err", err)
			}
		}()
		workDir = tmp
	}

	log.Info("normalizing icons", "input", inputDir, "inPlace", cfg.InPlace)
	report, err := normalize.New(normalize.Options{Workers: cfg.Workers, Logger: log}).
		NormalizeDir(ctx, inputDir, workDir)
	if err != nil {
		return nil, err
	}

	assembly, err := assemble.New(assemble.Options{Synthesizer: synth, Logger: log}).
		Assemble(ctx, assemble.Job{
			InputDir:  workDir,
			OutputDir: cfg.OutputPath(),
			FontName:  cfg.FontName,
		})
	if err != nil {
		return &Result{Report: report}, err
	}
	return &Result{Report: report, Assembly: assembly}, nil
}
