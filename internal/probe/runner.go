package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Run waits for the output pipes to close once the
// context is done. Descendants that inherited stdout would otherwise hold
// Run open until they exit.
const waitDelay = time.Second

// Runner executes a command and returns its standard output
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands as local subprocesses
type ExecRunner struct{}

// Run starts name with args and waits for it. A non-zero exit returns an
// *exec.ExitError wrapped with the command's stderr. When ctx is done the
// command's whole process group is killed.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
				return output, fmt.Errorf("%w (stderr: %s)", err, msg)
			}
		}
		return output, err
	}

	return output, nil
}
