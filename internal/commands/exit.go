package commands

import (
	stderrors "errors"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/orchestrator"
	"github.com/arthur-debert/webup/pkg/types"
)

// Process exit codes
const (
	ExitOK       = 0
	ExitFailed   = 1
	ExitConfig   = 2
	ExitCanceled = 130
)

// ExitError carries the exit code a command ended with.
type ExitError struct {
	Code int
	Err  error
	// Reported is set when the error was already rendered
	Reported bool
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	switch errors.GetCategory(err) {
	case errors.CategoryConfiguration:
		return ExitConfig
	case errors.CategoryCanceled:
		return ExitCanceled
	}
	return ExitFailed
}

// exitFor converts a terminal orchestrator result. The notifier has
// already shown the error.
func exitFor(res orchestrator.Result) error {
	switch res.Stage {
	case types.StageDone:
		return nil
	case types.StageAborted:
		code := ExitConfig
		if errors.GetCategory(res.Err) == errors.CategoryCanceled {
			code = ExitCanceled
		}
		return &ExitError{Code: code, Err: res.Err, Reported: true}
	default:
		return &ExitError{Code: ExitFailed, Err: res.Err, Reported: true}
	}
}
