package errors

import (
	"errors"
	"fmt"
)

// CommandError represents a failure of a CLI command, carrying the exit code
// the process should terminate with.
type CommandError struct {
	ExitCode    int
	CommonError string
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// NewCommandError creates a new CommandError instance wrapping the given error.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
	}
}

// NewCommandErrorf creates a new CommandError with a formatted message.
func NewCommandErrorf(code int, format string, args ...interface{}) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: fmt.Sprintf(format, args...),
	}
}

// ExitCode extracts the exit code from an error chain. Errors that are not
// CommandError map to exit code 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return 1
}
