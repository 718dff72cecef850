package file

import (
	"errors"
	"fmt"
)

var (
	ErrOutsideWorkspace = errors.New("path is outside the workspace")
	ErrProtectedPath    = errors.New("path is protected")
	ErrBinaryFile       = errors.New("file is binary")
	ErrFileTooLarge     = errors.New("file too large")
	ErrIsDirectory      = errors.New("path is a directory")
	ErrNotADirectory    = errors.New("not a directory")
	ErrPathRequired     = errors.New("path is required")
)

// WorkspaceRootError is returned when the workspace root is invalid.
type WorkspaceRootError struct {
	Root  string
	Cause error
}

func (e *WorkspaceRootError) Error() string {
	return fmt.Sprintf("invalid workspace root %s: %v", e.Root, e.Cause)
}
func (e *WorkspaceRootError) Unwrap() error { return e.Cause }

// WriteError is returned when a file cannot be written.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}
func (e *WriteError) Unwrap() error { return e.Cause }

// GitignoreReadError is returned when .gitignore cannot be read.
type GitignoreReadError struct {
	Path  string
	Cause error
}

func (e *GitignoreReadError) Error() string {
	return fmt.Sprintf("failed to read .gitignore at %s: %v", e.Path, e.Cause)
}
func (e *GitignoreReadError) Unwrap() error { return e.Cause }
