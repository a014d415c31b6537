package nsfix

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the source container does not exist.
	ErrNotFound = errors.New("container not found")
	// ErrInvalidContainer is returned when the source exists but is not a ZIP archive.
	ErrInvalidContainer = errors.New("not a valid container")
	// ErrXMLUnavailable is returned by NewTranscoder when the XML serializer
	// fails its self-check.
	ErrXMLUnavailable = errors.New("xml serializer unavailable")
)

// ContainerError represents a fatal error during container operations
type ContainerError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *ContainerError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("container error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("container error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("container error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("container error during %s", e.Operation)
}

func (e *ContainerError) Unwrap() error {
	return e.Cause
}

// NewContainerError creates a new container error
func NewContainerError(operation, path string, cause error) error {
	return &ContainerError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// PartFailure records an XML entry that was copied through unchanged
// because it could not be parsed.
type PartFailure struct {
	Name string
	Err  error
}

func (f PartFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Name, f.Err)
}

func (f PartFailure) Unwrap() error {
	return f.Err
}

// IsContainerError checks if an error is a container error
func IsContainerError(err error) bool {
	var ce *ContainerError
	return errors.As(err, &ce)
}

// IsNotFound checks if the source container was missing
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidContainer checks if the source was not a ZIP archive
func IsInvalidContainer(err error) bool {
	return errors.Is(err, ErrInvalidContainer)
}
