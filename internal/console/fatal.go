package console

import "errors"

const (
	fatalExitCodeConstant = 1
)

// FatalError marks a failure that should end the CLI run with a non-zero status.
type FatalError struct {
	Message string
	Cause   error
}

// NewFatalError constructs a FatalError carrying the user-facing message.
func NewFatalError(message string) *FatalError {
	return &FatalError{Message: message}
}

// WrapFatalError constructs a FatalError that keeps the underlying cause available to errors.Is.
func WrapFatalError(message string, cause error) *FatalError {
	return &FatalError{Message: message, Cause: cause}
}

// Error returns the user-facing message.
func (fatalError *FatalError) Error() string {
	return fatalError.Message
}

// Unwrap exposes the underlying cause.
func (fatalError *FatalError) Unwrap() error {
	return fatalError.Cause
}

// ExitCode reports the process exit status associated with fatal failures.
func (fatalError *FatalError) ExitCode() int {
	return fatalExitCodeConstant
}

// IsFatal reports whether err carries a FatalError anywhere in its chain.
func IsFatal(err error) bool {
	var fatalError *FatalError
	return errors.As(err, &fatalError)
}
