// Package assemble turns a directory of normalized icons into a TrueType
// font plus icon-mapping.json.
//
// Code points are always recomputed as core.BasePoint + index in the order
// the synthesizer returned its glyphs, and the font is checked against that
// assignment before anything is written.
package assemble

import (
	"context"
	"log/slog"

	"github.com/gaurav-prasanna/iconfontify/core"
	"github.com/gaurav-prasanna/iconfontify/core/config"
	"github.com/gaurav-prasanna/iconfontify/core/discover"
	"github.com/gaurav-prasanna/iconfontify/core/fontgen"
	"github.com/gaurav-prasanna/iconfontify/core/output"
)

const op = "assemble"

// Job names the directories and font of one assembly.
type Job struct {
	InputDir  string
	OutputDir string
	FontName  string
}

// Result is the outcome of a successful assembly.
type Result struct {
	Artifacts  core.BuildArtifacts
	Records    GlyphMap
	StyleRules []string
}

// Options configures an Assembler.
type Options struct {
	Synthesizer fontgen.Synthesizer
	Logger      *slog.Logger
}

// Assembler drives a synthesizer and writes its output.
type Assembler struct {
	synth fontgen.Synthesizer
	log   *slog.Logger
}

// New creates an Assembler. A nil Synthesizer selects the native one.
func New(opts Options) *Assembler {
	log := core.LoggerOr(opts.Logger)
	synth := opts.Synthesizer
	if synth == nil {
		synth = fontgen.NewNative(log)
	}
	return &Assembler{synth: synth, log: log}
}

// Assemble synthesizes the font for job and writes <FontName>.ttf and
// icon-mapping.json into job.OutputDir.
//
// A missing or empty input directory is rejected before the synthesizer runs
// and before the output directory is created. Nothing is written when
// synthesis or verification fails.
func (a *Assembler) Assemble(ctx context.Context, job Job) (*Result, error) {
	icons, err := discover.Icons(job.InputDir)
	if err != nil {
		return nil, err
	}
	a.log.Info("synthesizing font", "icons", len(icons), "font", job.FontName)

	res, err := a.synth.Synthesize(ctx, fontgen.Request{
		Glob:    config.Glob(job.InputDir),
		Options: fontgen.DefaultOptions(job.FontName),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if core.IsKind(err, core.KindEnvironment) || core.IsKind(err, core.KindSynthesis) {
			return nil, err
		}
		return nil, core.Wrap(core.KindSynthesis, op, "font synthesis failed",
			"re-run with --verbose and inspect the icon named in the log", err)
	}

	records, err := Records(res.Glyphs)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		a.log.Debug("code point assigned", "icon", r.IconName, "codepoint", r.DisplayCodePoint)
	}
	if len(records) < len(icons) {
		a.log.Warn("some icons did not make it into the font", "icons", len(icons), "glyphs", len(records))
	}

	font := res.Fonts[fontgen.FormatTTF]
	if len(font) == 0 {
		return nil, core.Errorf(core.KindSynthesis, op,
			"check that the synthesizer emits a ttf font", "synthesizer returned no ttf font")
	}
	if err := Verify(font, records); err != nil {
		return nil, err
	}
	mapping, err := records.Render()
	if err != nil {
		return nil, err
	}

	w, err := output.New(job.OutputDir)
	if err != nil {
		return nil, err
	}
	fontPath, err := w.Write(job.FontName+"."+fontgen.FormatTTF, font)
	if err != nil {
		return nil, err
	}
	mappingPath, err := w.Write(MappingFile, mapping)
	if err != nil {
		return nil, err
	}

	return &Result{
		Artifacts:  core.BuildArtifacts{FontPath: fontPath, MappingPath: mappingPath},
		Records:    records,
		StyleRules: records.StyleRules(),
	}, nil
}

// Clean deletes the files a previous build left in outputDir. Builds never
// call it on their own.
func (a *Assembler) Clean(outputDir string) ([]string, error) {
	removed, err := output.Clean(outputDir)
	for _, path := range removed {
		a.log.Debug("removed", "file", path)
	}
	return removed, err
}
