// Package cmd — build command.
// Runs the whole pipeline: normalize → synthesize → write.
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/iconfontify/core"
	"github.com/gaurav-prasanna/iconfontify/core/build"
)

var flagInPlace bool

func newBuildCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "build",
		Short: "Normalize the icons and build the font and glyph map",
		Long: `Build normalizes every icon into a temporary working copy, synthesizes the
font from it and writes <name>.ttf and icon-mapping.json to the output
directory. The input icons are only rewritten with --in-place.

Examples:
  iconfontify build
  iconfontify build --in-place -n appicons`,
		Args: usageArgs(cobra.NoArgs),
		RunE: runBuild,
	}
	c.Flags().BoolVar(&flagInPlace, "in-place", false, "Normalize the input icons in place instead of a working copy")
	return c
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	res, err := build.Run(cmd.Context(), cfg, build.Options{Logger: newLogger(stderr)})
	if res != nil && res.Report != nil {
		printReport(stdout, stderr, res.Report, false)
	}
	if err != nil {
		return err
	}

	printAssembly(stdout, res.Assembly.Artifacts, res.Assembly.Records)
	return nil
}

// printReport lists normalization failures, and successes when verbose is
// set.
func printReport(stdout, stderr io.Writer, report *core.NormalizeReport, verbose bool) {
	if verbose {
		for _, path := range report.Processed {
			fmt.Fprintf(stdout, "  ✓ Normalized: %s\n", path)
		}
	}
	for _, f := range report.Failed {
		fmt.Fprintf(stderr, "  ✗ Error: %v\n", f)
	}
	if n := len(report.Failed); n > 0 {
		fmt.Fprintf(stderr, "\n%d/%d icons failed to normalize\n", n, n+len(report.Processed))
	}
}

func printAssembly(w io.Writer, artifacts core.BuildArtifacts, records []core.GlyphRecord) {
	fmt.Fprintf(w, "✓ Written: %s\n", artifacts.FontPath)
	fmt.Fprintf(w, "✓ Written: %s\n", artifacts.MappingPath)
	fmt.Fprintf(w, "%d icons mapped\n", len(records))
	for _, r := range records {
		fmt.Fprintf(w, "  %s → %s\n", r.IconName, r.DisplayCodePoint)
	}
}
