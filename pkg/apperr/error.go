package apperr

import "fmt"

// Error is a structured engine error with a machine-readable code, a
// human-readable message, a process exit code, and an optional wrapped
// cause for errors.Is/errors.As chaining.
type Error struct {
	code     Code
	message  string
	exitCode int
	cause    error
}

// New creates an Error without a cause.
func New(code Code, exitCode int, message string) *Error {
	return &Error{code: code, message: message, exitCode: exitCode}
}

// Wrap creates an Error that wraps a cause for logging/unwrapping.
func Wrap(code Code, exitCode int, message string, cause error) *Error {
	return &Error{code: code, message: message, exitCode: exitCode, cause: cause}
}

// Error implements the error interface. Includes the cause for log output.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

// Unwrap returns the wrapped cause for errors.Is/errors.As chaining.
func (e *Error) Unwrap() error { return e.cause }

// Code returns the machine-readable error code.
func (e *Error) Code() Code { return e.code }

// Message returns the human-readable message.
func (e *Error) Message() string { return e.message }

// ExitCode returns the process exit code this error maps to.
func (e *Error) ExitCode() int { return e.exitCode }
