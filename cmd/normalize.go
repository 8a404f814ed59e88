// Package cmd — normalize command.
// Runs the normalizer alone, either in place or into another directory.
package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/iconfontify/core/normalize"
)

var flagOut string

func newNormalizeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize the icons without building a font",
		Long: `Normalize strips backgrounds, masks and paint from every icon so its
outline survives font conversion. Choose where results go: --in-place
rewrites the input icons, --out writes normalized copies elsewhere.

Examples:
  iconfontify normalize --in-place
  iconfontify normalize -i assets/icons --out /tmp/clean`,
		Args: usageArgs(cobra.NoArgs),
		RunE: runNormalize,
	}
	c.Flags().BoolVar(&flagInPlace, "in-place", false, "Rewrite the input icons")
	c.Flags().StringVar(&flagOut, "out", "", "Write normalized icons to this directory")
	return c
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	switch {
	case cfg.InPlace && flagOut != "":
		return usageError{errors.New("--in-place and --out are mutually exclusive")}
	case !cfg.InPlace && flagOut == "":
		return usageError{errors.New("one of --in-place or --out is required")}
	}

	dst := cfg.InputPath()
	if !cfg.InPlace {
		dst = cfg.Resolve(flagOut)
	}

	n := normalize.New(normalize.Options{Workers: cfg.Workers, Logger: newLogger(cmd.ErrOrStderr())})
	report, err := n.NormalizeDir(cmd.Context(), cfg.InputPath(), dst)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report, true)
	return nil
}
