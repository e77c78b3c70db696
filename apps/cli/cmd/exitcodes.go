package cmd

import "errors"

// Exit codes for the mvctest CLI
const (
	// ExitSuccess indicates the command succeeded
	ExitSuccess = 0

	// ExitAssertionFailure indicates a dispatch expectation did not hold
	ExitAssertionFailure = 1

	// ExitApplicationError indicates the application could not be built
	ExitApplicationError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates the server could not listen
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsageError
}
