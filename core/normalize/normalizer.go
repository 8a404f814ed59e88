// Package normalize implements the DocumentNormalizer and DirNormalizer
// interfaces. It turns each icon into a single-color, outline-only document
// whose geometry survives font conversion.
package normalize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/iconfontify/core"
	"github.com/gaurav-prasanna/iconfontify/core/discover"
	"github.com/gaurav-prasanna/iconfontify/core/output"
	"github.com/gaurav-prasanna/iconfontify/core/svgdoc"
)

// Options configures a Normalizer.
type Options struct {
	// Workers bounds how many files are processed at once. Values below 1
	// mean sequential processing.
	Workers int

	// Logger receives per-file progress. Nil discards it.
	Logger *slog.Logger
}

// Normalizer applies the rule set to icon documents.
type Normalizer struct {
	rules   []Rule
	workers int
	log     *slog.Logger
}

var (
	_ core.DocumentNormalizer = (*Normalizer)(nil)
	_ core.DirNormalizer      = (*Normalizer)(nil)
)

// New creates a Normalizer with the standard rule set.
func New(opts Options) *Normalizer {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Normalizer{rules: Rules(), workers: workers, log: core.LoggerOr(opts.Logger)}
}

// Normalize parses src, runs every rule in order and renders the result.
func (n *Normalizer) Normalize(src []byte) ([]byte, error) {
	doc, err := svgdoc.Parse(src)
	if err != nil {
		return nil, err
	}
	for _, r := range n.rules {
		if err := r.Apply(doc); err != nil {
			return nil, fmt.Errorf("%s: %w", r.Name, err)
		}
	}
	return doc.Render()
}

// NormalizeFile normalizes the icon at path and writes it to dst, which may
// be path itself. Nothing is written when normalization fails.
func (n *Normalizer) NormalizeFile(path, dst string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading icon: %w", err)
	}
	out, err := n.Normalize(src)
	if err != nil {
		return err
	}
	return output.WriteFileAtomic(dst, out, 0644)
}

// NormalizeDir normalizes every icon in srcDir into dstDir. Passing the same
// directory twice rewrites the icons in place.
//
// A file that fails is logged and recorded in the report while the batch
// continues. In working-copy mode the failed file is copied unchanged, so
// the assembler still sees the complete icon set. A missing srcDir or one
// without icons is an input error.
func (n *Normalizer) NormalizeDir(ctx context.Context, srcDir, dstDir string) (*core.NormalizeReport, error) {
	icons, err := discover.Icons(srcDir)
	if err != nil {
		return nil, err
	}

	inPlace, err := sameDir(srcDir, dstDir)
	if err != nil {
		return nil, err
	}
	if !inPlace {
		if err := os.MkdirAll(dstDir, 0755); err != nil {
			return nil, fmt.Errorf("creating working directory: %w", err)
		}
	}

	failures := make([]error, len(icons))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n.workers)

	for i, icon := range icons {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dst := filepath.Join(dstDir, filepath.Base(icon.Path))
			err := n.NormalizeFile(icon.Path, dst)
			if err == nil {
				return nil
			}
			failures[i] = err
			if inPlace {
				return nil
			}
			if err := copyFile(icon.Path, dst); err != nil {
				return fmt.Errorf("copying %s to working directory: %w", icon.Path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &core.NormalizeReport{}
	for i, icon := range icons {
		if err := failures[i]; err != nil {
			n.log.Warn("icon left unnormalized", "file", icon.Path, "err", err)
			report.Failed = append(report.Failed, core.FileError{
				Path: icon.Path,
				Err:  core.Wrap(core.KindFile, "normalize", icon.Name, "fix the markup or remove the file", err),
			})
			continue
		}
		n.log.Debug("icon normalized", "file", icon.Path)
		report.Processed = append(report.Processed, icon.Path)
	}
	return report, nil
}

func sameDir(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", b, err)
	}
	return absA == absB, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return output.WriteFileAtomic(dst, data, 0644)
}
