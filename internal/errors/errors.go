// Package errors provides sentinel errors and custom error types for the patches application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for each failure kind
var (
	// ErrValidation indicates a patch record was rejected before it was written
	ErrValidation = errors.New("validation failed")

	// ErrFormat indicates an unparseable patch header, date or commit message
	ErrFormat = errors.New("malformed input")

	// ErrPrecondition indicates the working tree is not in the state an operation requires
	ErrPrecondition = errors.New("precondition failed")

	// ErrNotFound indicates a ref could not be resolved to a commit
	ErrNotFound = errors.New("not found")

	// ErrBackend indicates a failure reported by the version control backend
	ErrBackend = errors.New("backend failure")

	// ErrIO indicates a file read or write failure
	ErrIO = errors.New("i/o failure")

	// ErrUsage indicates the tool was invoked in a way it cannot serve
	ErrUsage = errors.New("usage error")
)

// Exit codes reported by the patches binary
const (
	ExitSuccess  = 0
	ExitOSError  = 1
	ExitUsage    = 8
	ExitInternal = 42
)

// ValidationError represents a patch record that is not well-formed
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid patch: %s", e.Message)
}

// Is returns true if the target error is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// FormatError represents a patch file or commit message that cannot be parsed
type FormatError struct {
	File    string
	Line    int
	Message string
	Err     error
}

func (e *FormatError) Error() string {
	msg := e.Message
	switch {
	case e.File != "" && e.Line > 0:
		msg = fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	case e.File != "":
		msg = fmt.Sprintf("%s: %s", e.File, e.Message)
	case e.Line > 0:
		msg = fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Is returns true if the target error is ErrFormat
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError creates a new FormatError
func NewFormatError(line int, message string, err error) *FormatError {
	return &FormatError{Line: line, Message: message, Err: err}
}

// PreconditionError represents an operation refused because of repository state
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// Is returns true if the target error is ErrPrecondition
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// NewPreconditionError creates a new PreconditionError
func NewPreconditionError(format string, args ...any) *PreconditionError {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// RefNotFoundError represents a ref that could not be resolved to a commit
type RefNotFoundError struct {
	Ref string
}

func (e *RefNotFoundError) Error() string {
	return fmt.Sprintf("could not resolve %q to a commit", e.Ref)
}

// Is returns true if the target error is ErrNotFound
func (e *RefNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewRefNotFoundError creates a new RefNotFoundError
func NewRefNotFoundError(ref string) *RefNotFoundError {
	return &RefNotFoundError{Ref: ref}
}

// BackendError represents a failure surfaced by the version control backend
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

// Is returns true if the target error is ErrBackend
func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// NewBackendError creates a new BackendError
func NewBackendError(op string, err error) *BackendError {
	return &BackendError{Op: op, Err: err}
}

// IOError represents a file system failure
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

// Is returns true if the target error is ErrIO
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

// UsageError represents a missing or unusable configuration or argument
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// Is returns true if the target error is ErrUsage
func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// NewUsageError creates a new UsageError
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// PatchError attaches the offending patch file and pipeline stage to an error
type PatchError struct {
	File  string
	Stage string
	Err   error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.File, e.Err)
}

func (e *PatchError) Unwrap() error {
	return e.Err
}

// NewPatchError creates a new PatchError
func NewPatchError(file, stage string, err error) *PatchError {
	return &PatchError{File: file, Stage: stage, Err: err}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

// ExitCode maps an error to the process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrIO):
		return ExitOSError
	case errors.Is(err, ErrUsage), errors.Is(err, ErrPrecondition):
		return ExitUsage
	default:
		return ExitInternal
	}
}
