// Package cmd implements the CLI commands for iconfontify using Cobra.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/iconfontify/core"
	"github.com/gaurav-prasanna/iconfontify/core/config"
)

// Persistent flag variables.
var (
	flagInput   string
	flagOutput  string
	flagName    string
	flagConfig  string
	flagSynth   string
	flagWorkers int
	flagVerbose bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "iconfontify",
		Short: "iconfontify — turn a directory of SVG icons into an icon font",
		Long: `iconfontify normalizes a directory of SVG icons and packs them into one
TrueType font plus icon-mapping.json, assigning private-use code points from
U+E001 in file name order.

Running iconfontify without a command performs a full build.

Examples:
  iconfontify
  iconfontify build -i assets/icons -o dist/font -n appicons
  iconfontify normalize --out /tmp/clean
  iconfontify clean`,
		Args:          usageArgs(cobra.NoArgs),
		RunE:          runBuild,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flagInput, "input", "i", "", `Icon directory (default "icon")`)
	pf.StringVarP(&flagOutput, "output", "o", "", `Output directory (default "build/iconfont")`)
	pf.StringVarP(&flagName, "name", "n", "", `Font name (default "iconfont")`)
	pf.StringVar(&flagConfig, "config", "", "Config file (default ./"+config.DefaultFile+" if present)")
	pf.StringVar(&flagSynth, "synthesizer", "", `Font synthesizer: native or exec (default "native")`)
	pf.IntVar(&flagWorkers, "workers", 0, "Icons normalized concurrently (default 1)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log every file and code point")

	root.Flags().BoolVar(&flagInPlace, "in-place", false, "Normalize the input icons in place instead of a working copy")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	root.AddCommand(newBuildCmd(), newNormalizeCmd(), newAssembleCmd(), newCleanCmd())
	return root
}

// usageError marks mistakes in the command line itself.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// loadConfig layers the command line flags over the file and environment
// configuration.
func loadConfig(cmd *cobra.Command) (config.Build, error) {
	cfg, err := config.Load(config.LoadOptions{File: flagConfig})
	if err != nil {
		return config.Build{}, usageError{err}
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.InputDir = flagInput
	}
	if flags.Changed("output") {
		cfg.OutputDir = flagOutput
	}
	if flags.Changed("name") {
		cfg.FontName = flagName
	}
	if flags.Changed("synthesizer") {
		cfg.Synthesizer = flagSynth
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("in-place") {
		cfg.InPlace = flagInPlace
	}

	if err := cfg.Validate(); err != nil {
		return config.Build{}, usageError{err}
	}
	return cfg, nil
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command and exits with its status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit status:
// 0 on success, 2 for usage errors and 1 for everything else.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ue usageError
	usage := errors.As(err, &ue)

	r := core.Remediation(err)
	if r == "" {
		r = "re-run with --verbose for details"
		if usage {
			r = "run with --help for usage"
		}
	}
	fmt.Fprintf(stderr, "✗ %v\n", err)
	fmt.Fprintf(stderr, "  → %s\n", r)

	if usage {
		return 2
	}
	return 1
}
