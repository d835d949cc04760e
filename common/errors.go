package common

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// NotFoundError is returned when the shader root or the compiler executable
// does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: not found", e.Path)
	}
	return fmt.Sprintf("%s: not found: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func (e *NotFoundError) Is(err error) bool {
	_, ok := err.(*NotFoundError)

	return ok
}

// PermissionError is returned when a path can't be read or written.
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s: permission denied: %v", e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

func (e *PermissionError) Is(err error) bool {
	_, ok := err.(*PermissionError)

	return ok
}

// CompileError is returned when the compiler ran and exited with a non-zero
// status.
type CompileError struct {
	Source   string
	ExitCode int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling %s: compiler exited with status %d", e.Source, e.ExitCode)
}

func (e *CompileError) Is(err error) bool {
	_, ok := err.(*CompileError)

	return ok
}

// SpawnError is returned when the compiler process could not be started.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("starting compiler %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

func (e *SpawnError) Is(err error) bool {
	_, ok := err.(*SpawnError)

	return ok
}

// NewPathError classifies a filesystem error for path into NotFoundError or
// PermissionError. Other errors are returned wrapped with the path.
func NewPathError(path string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return &NotFoundError{Path: path, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &PermissionError{Path: path, Err: err}
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
}

// FailureReasonOf maps a job error to the reason reported in results and
// metrics.
func FailureReasonOf(err error) JobFailureReason {
	switch {
	case err == nil:
		return NoneFailure
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CanceledFailure
	case errors.Is(err, &CompileError{}):
		return CompileFailure
	case errors.Is(err, &SpawnError{}):
		return SpawnFailure
	case errors.Is(err, &PermissionError{}), errors.Is(err, os.ErrPermission):
		return PermissionFailure
	default:
		return OutputFailure
	}
}

// ExitCodeOf returns the compiler exit code carried by err, or -1.
func ExitCodeOf(err error) int {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return compileErr.ExitCode
	}

	return -1
}
