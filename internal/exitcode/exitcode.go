// Package exitcode maps command errors to process exit codes.
package exitcode

import (
	"errors"

	"github.com/dbsmedya/i18nkit/internal/config"
)

// Exit codes shared by chncheck and i18nreplace.
const (
	Success = 0 // Nothing found / run completed
	Failure = 1 // Target characters found, or a fatal runtime error
	Usage   = 2 // Invalid arguments, flags or configuration
	Panic   = 3 // Internal panic
)

// ErrUsage marks errors caused by invalid invocation.
var ErrUsage = errors.New("usage error")

type usageError struct {
	err error
}

func (e *usageError) Error() string        { return e.err.Error() }
func (e *usageError) Unwrap() error        { return e.err }
func (e *usageError) Is(target error) bool { return target == ErrUsage }

// NewUsage wraps err so that ForError maps it to Usage.
func NewUsage(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

// IsUsage reports whether err was caused by invalid invocation.
func IsUsage(err error) bool {
	if errors.Is(err, ErrUsage) {
		return true
	}
	var verrs config.ValidationErrors
	return errors.As(err, &verrs)
}

// ForError returns the exit code for err.
func ForError(err error) int {
	switch {
	case err == nil:
		return Success
	case IsUsage(err):
		return Usage
	default:
		return Failure
	}
}
