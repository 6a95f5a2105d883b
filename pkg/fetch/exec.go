package fetch

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/logging"
)

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	logger := logging.GetLogger("fetch.exec")
	logging.LogCommand(logger, name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return res, nil
	}

	res.ExitCode = -1
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	}
	return res, errors.Wrapf(err, errors.ErrCommand, "%s %s failed", name, strings.Join(args, " ")).
		WithDetail("exit_code", res.ExitCode).
		WithDetail("stderr", strings.TrimSpace(res.Stderr))
}
