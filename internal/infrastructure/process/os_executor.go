package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/hashicorp/go-hclog"

	"github.com/greenbone/greenbone-feed-sync/internal/core/domain"
	"github.com/greenbone/greenbone-feed-sync/internal/core/domain/process"
	procp "github.com/greenbone/greenbone-feed-sync/internal/core/ports/process"
)

// Executor implements the process Executor port with os/exec
type Executor struct {
	env    []string
	stdout io.Writer
	logger hclog.Logger
}

// NewExecutorWithOptions creates an executor. If stdout is set the child's
// standard output is streamed to it instead of being captured. stderr is
// always captured completely.
func NewExecutorWithOptions(env []string, stdout io.Writer, logger hclog.Logger) *Executor {
	if env == nil {
		env = os.Environ()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Executor{env: env, stdout: stdout, logger: logger}
}

// Run executes cmd and waits until it exited and its output is drained
func (e *Executor) Run(ctx context.Context, cmd process.Command) (process.Result, error) {
	execCmd := exec.CommandContext(ctx, cmd.Executable(), cmd.Args()...)
	execCmd.Env = e.env

	var stdout, stderr bytes.Buffer
	execCmd.Stderr = &stderr
	if e.stdout != nil {
		execCmd.Stdout = e.stdout
	} else {
		execCmd.Stdout = &stdout
	}

	e.logger.Debug("running command", "cmd", cmd.String())
	err := execCmd.Run()

	result := process.Result{
		ExitCode: execCmd.ProcessState.ExitCode(),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}

	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%s interrupted: %w", cmd.Executable(), ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		e.logger.Debug("command failed", "cmd", cmd.String(), "exit_code", result.ExitCode)
		return result, &domain.ExecProcessError{
			Cmd:      cmd.FullCommandLine(),
			ExitCode: result.ExitCode,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
		}
	}

	return result, fmt.Errorf("failed to start process: %w", err)
}

// LookPath searches for an executable in the directories of PATH
func (e *Executor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}


var (
	_ procp.Executor = (*Executor)(nil)
	_ procp.Lookup   = (*Executor)(nil)
)
