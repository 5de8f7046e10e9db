package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess    = 0
	ExitRolledBack = 1
	ExitFailure    = 2
	ExitUsage      = 3
)

// ExitError carries the process exit code out of a command. Usage is set
// when the help text should follow the message.
type ExitError struct {
	Code    int
	Message string
	Err     error
	Usage   bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...), Usage: true}
}

// GetExitCode maps an error returned by Execute to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
