// internal/core/errors.go
package core

import (
	"errors"
	"fmt"
	"strings"
)

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Wrapf is WrapError with a formatted cause.
func Wrapf(base *Error, format string, args ...any) *Error {
	return WrapError(base, fmt.Errorf(format, args...))
}

// IsInput reports whether err belongs to the fatal input-validation family
// (INPUT_* codes). These indicate a malformed request or dataset, not an
// internal failure.
func IsInput(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return strings.HasPrefix(e.Code, "INPUT_")
	}
	return false
}

// Predefined errors
var (
	// Input validation errors (fatal, raised before or during a run)
	ErrInvalidInput    = &Error{Code: "INPUT_INVALID", Message: "invalid input"}
	ErrUnalignedPanels = &Error{Code: "INPUT_UNALIGNED", Message: "panels cannot be aligned"}
	ErrMissingClose    = &Error{Code: "INPUT_NO_CLOSE", Message: "close price field missing"}
	ErrExecutionGap    = &Error{Code: "INPUT_EXEC_GAP", Message: "no close price on execution date"}

	// Data errors
	ErrNoData = &Error{Code: "NO_DATA", Message: "no data available"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Job errors
	ErrJobNotFound = &Error{Code: "JOB_NOT_FOUND", Message: "job not found"}
	ErrRunFailed   = &Error{Code: "RUN_FAILED", Message: "backtest run failed"}

	// Archive errors
	ErrArchiveFailed = &Error{Code: "ARCHIVE_FAILED", Message: "archive operation failed"}

	// LLM errors
	ErrLLMFailed  = &Error{Code: "LLM_FAILED", Message: "LLM request failed"}
	ErrLLMTimeout = &Error{Code: "LLM_TIMEOUT", Message: "LLM request timeout"}
)
