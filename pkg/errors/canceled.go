package errors

import (
	"context"
	"errors"
)

// Canceled wraps a context error so the orchestrator can report a user
// interrupt distinctly from a failure.
func Canceled(err error, stage string) *WebupError {
	if err == nil {
		err = context.Canceled
	}
	return Wrapf(err, ErrCanceled, "canceled during %s", stage)
}

// IsCanceled reports whether err stems from context cancellation or carries
// the CANCELED code.
func IsCanceled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return IsErrorCode(err, ErrCanceled)
}
