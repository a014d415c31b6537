package xml

import (
	"errors"
	"fmt"
)

// ErrNotWellFormed is matched by every *ParseError.
var ErrNotWellFormed = errors.New("xml is not well-formed")

// ParseError describes why a part could not be canonicalized
type ParseError struct {
	// Line is the 1-based input line where the problem was detected, or 0.
	Line    int
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		if msg == "" {
			msg = e.Cause.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Cause)
		}
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, msg)
	}
	return fmt.Sprintf("parse error: %s", msg)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports ErrNotWellFormed so callers need not know the concrete type.
func (e *ParseError) Is(target error) bool {
	return target == ErrNotWellFormed
}

func newParseError(line int, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
