package cli

import (
	"errors"
	"fmt"
)

// Process exit codes
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitUsage            = 2
	ExitInvalidContainer = 3
)

// exitError carries the exit code chosen by the failing step
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(format string, args ...interface{}) error {
	return &exitError{code: ExitUsage, err: fmt.Errorf(format, args...)}
}

func invalidContainerError(format string, args ...interface{}) error {
	return &exitError{code: ExitInvalidContainer, err: fmt.Errorf(format, args...)}
}

func failure(err error) error {
	return &exitError{code: ExitFailure, err: fmt.Errorf("failed: %w", err)}
}

// exitCode maps an error returned by the command to a process exit code.
// Errors raised by cobra itself are argument errors.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsage
}
