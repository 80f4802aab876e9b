package util

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes returned by chatnow commands
const (
	// ExitOK indicates successful execution
	ExitOK = 0

	// ExitInvalidInput indicates validation errors, missing configuration or an empty message
	ExitInvalidInput = 2

	// ExitRuntimeError indicates I/O errors, API failures, or runtime issues
	ExitRuntimeError = 3
)

// ExitError carries an exit code up to main without calling os.Exit deep in the stack.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// InvalidInput wraps err so that main exits with ExitInvalidInput.
func InvalidInput(err error) error {
	return &ExitError{Code: ExitInvalidInput, Err: err}
}

// CodeFor returns the exit code for an error returned by a command.
func CodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitRuntimeError
}

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}
