package netops

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner executes host commands. Remediation actions and the probe go
// through it so tests can substitute a fake.
type Runner interface {
	// Run executes a command and returns an error when it exits non-zero.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes a command and returns its combined output.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner shells out via os/exec, logging every command at debug level.
type ExecRunner struct {
	log *slog.Logger
}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner(log *slog.Logger) *ExecRunner {
	return &ExecRunner{log: log}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	out, err := r.Output(ctx, name, args...)
	if err != nil {
		if out != "" {
			return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, out)
		}
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	r.log.Debug("Executing command", "cmd", name, "args", args)

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
