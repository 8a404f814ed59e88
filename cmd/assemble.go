// Package cmd — assemble command.
// Builds the font and glyph map from icons that are already normalized.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/iconfontify/core/assemble"
	"github.com/gaurav-prasanna/iconfontify/core/build"
)

func newAssembleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assemble",
		Short: "Build the font and glyph map from already normalized icons",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runAssemble,
	}
}

func runAssemble(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr())

	synth, err := build.Synthesizer(cfg, log)
	if err != nil {
		return err
	}
	res, err := assemble.New(assemble.Options{Synthesizer: synth, Logger: log}).
		Assemble(cmd.Context(), assemble.Job{
			InputDir:  cfg.InputPath(),
			OutputDir: cfg.OutputPath(),
			FontName:  cfg.FontName,
		})
	if err != nil {
		return err
	}
	printAssembly(cmd.OutOrStdout(), res.Artifacts, res.Records)
	return nil
}
