package apperr

import "errors"

// ExitCodeFor returns the process exit code an error maps to. Any error
// that is not an *Error (or does not wrap one) is treated as a fatal
// abort, since it was not anticipated by the error catalog.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.ExitCode()
	}
	return ExitFatal
}

// IsTransientWrite returns true if err is, or wraps, a transient write
// failure the caller may retry.
func IsTransientWrite(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code() == CodeWriteErrorTransient
}
