// Package errors provides structured error types and exit codes for asmcheck.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes returned by the harness.
const (
	ExitSuccess        = 0 // Every fixture passed
	ExitFailure        = 1 // A fixture failed, errored, or the run could not complete
	ExitConfigError    = 2 // Usage or configuration error
	ExitDiscoveryError = 3 // Test-case directory missing or unreadable
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindValidation
	KindDiscovery
	KindExecution
	KindIncomplete
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindValidation:
		return "validation"
	case KindDiscovery:
		return "discovery"
	case KindExecution:
		return "execution"
	case KindIncomplete:
		return "incomplete"
	default:
		return "runtime"
	}
}

// AsmcheckError is the base error type for asmcheck.
type AsmcheckError struct {
	Kind    ErrorKind
	Message string
	Fixture string // Fixture ID if applicable
	Cause   error  // Underlying error
}

func (e *AsmcheckError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Fixture != "" {
		return fmt.Sprintf("[%s] %s", e.Fixture, msg)
	}
	return msg
}

func (e *AsmcheckError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *AsmcheckError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindDiscovery:
		return ExitDiscoveryError
	default:
		return ExitFailure
	}
}

// New creates a new runtime error.
func New(message string) *AsmcheckError {
	return &AsmcheckError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *AsmcheckError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *AsmcheckError {
	return &AsmcheckError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *AsmcheckError {
	return Config(fmt.Sprintf(format, args...))
}

// Discovery creates an error for a test-case directory that cannot be scanned.
func Discovery(path string, cause error) *AsmcheckError {
	return &AsmcheckError{
		Kind:    KindDiscovery,
		Message: fmt.Sprintf("cannot read test cases from %s", path),
		Cause:   cause,
	}
}

// Execution creates an error for an interpreter that could not be run for a fixture.
func Execution(fixture string, cause error) *AsmcheckError {
	return &AsmcheckError{
		Kind:    KindExecution,
		Message: "interpreter could not be run",
		Fixture: fixture,
		Cause:   cause,
	}
}

// Incomplete creates an error for a fixture that lacks required files.
func Incomplete(fixture, message string) *AsmcheckError {
	return &AsmcheckError{
		Kind:    KindIncomplete,
		Message: message,
		Fixture: fixture,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *AsmcheckError {
	return &AsmcheckError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// Is reports whether err is an AsmcheckError of the given kind.
func Is(err error, kind ErrorKind) bool {
	var ae *AsmcheckError
	return errors.As(err, &ae) && ae.Kind == kind
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ae *AsmcheckError
	if errors.As(err, &ae) {
		return ae.ExitCode()
	}
	return ExitFailure
}
