package fontgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/gaurav-prasanna/iconfontify/core"
)

// ExecName is the registry name of the external-program synthesizer.
const ExecName = "exec"

const (
	commandRemediation = "set ICONFONTIFY_SYNTH_COMMAND to an installed font synthesizer, or use --synthesizer native"
	outputRemediation  = "check that ICONFONTIFY_SYNTH_COMMAND writes the JSON result, with a ttf font, to stdout"
)

func init() {
	Register(ExecName, func(cfg Config) (Synthesizer, error) {
		return NewExec(cfg)
	})
}

// Exec bridges to an external program. The request goes to its stdin as
// JSON; the program answers on stdout with a Result, font bytes in base64.
type Exec struct {
	command []string
	path    string
	log     *slog.Logger
}

// NewExec creates the external synthesizer for cfg.Command. The program must
// already be installed.
func NewExec(cfg Config) (*Exec, error) {
	if len(cfg.Command) == 0 {
		return nil, core.Errorf(core.KindEnvironment, "fontgen", commandRemediation,
			"the exec synthesizer needs a command")
	}
	path, err := exec.LookPath(cfg.Command[0])
	if err != nil {
		return nil, core.Wrap(core.KindEnvironment, "fontgen",
			fmt.Sprintf("synthesizer %q is not available", cfg.Command[0]), commandRemediation, err)
	}
	return &Exec{command: cfg.Command, path: path, log: core.LoggerOr(cfg.Logger)}, nil
}

// Synthesize runs the program once and decodes its answer. Cancelling ctx
// kills the program.
func (e *Exec) Synthesize(ctx context.Context, req Request) (*Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.path, e.command[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.log.Debug("running synthesizer", "command", strings.Join(e.command, " "))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, core.Wrap(core.KindSynthesis, "fontgen",
			fmt.Sprintf("running %s", e.command[0]), "check the synthesizer's own diagnostics", err)
	}

	var res Result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		return nil, core.Wrap(core.KindSynthesis, "fontgen", "decoding synthesizer output", outputRemediation, err)
	}
	if len(res.Fonts[FormatTTF]) == 0 {
		return nil, core.Errorf(core.KindSynthesis, "fontgen", outputRemediation,
			"%s returned no ttf font", e.command[0])
	}
	return &res, nil
}
