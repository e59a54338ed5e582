package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // a rule is violated or a scenario failed
	ExitCommandError = 2 // the command itself could not run
)

// Error codes reported in JSON responses. E0xx codes exit with
// ExitCommandError, E1xx codes with ExitFailure.
const (
	ErrCodeGeneric     = "E001"
	ErrCodeInvalidArgs = "E002"
	ErrCodeNoFiles     = "E003" // no graph file matched
	ErrCodeConfig      = "E004"
	ErrCodeNotFound    = "E005" // input file, directory or stored graph
	ErrCodeBuildFailed = "E006" // cube or metadata document
	ErrCodeWriteFailed = "E007"
	ErrCodeParseFailed = "E008" // unreadable graph file
	ErrCodeStore       = "E009"

	ErrCodeViolation  = "E101"
	ErrCodeTestFailed = "E102"
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError caused by err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// ExitCodeOf returns the exit code carried by err, or ExitFailure for
// errors that carry none.
func ExitCodeOf(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// commandError reports a failure that kept the command from running and
// returns it as an ExitCommandError.
func commandError(f *OutputFormatter, code, message string, err error) error {
	text := message
	if err != nil {
		text = fmt.Sprintf("%s: %v", message, err)
	}
	_ = f.Error(code, text, nil)
	return WrapExitError(ExitCommandError, code+": "+message, err)
}
