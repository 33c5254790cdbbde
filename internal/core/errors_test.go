// internal/core/errors_test.go
package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{Code: "TEST_ERROR", Message: "test message"}
	if err.Error() != "[TEST_ERROR] test message" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}

func TestError_ErrorWithCause(t *testing.T) {
	err := &Error{Code: "TEST_ERROR", Message: "test message", Cause: errors.New("boom")}
	if err.Error() != "[TEST_ERROR] test message: boom" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Code: "WRAP", Message: "wrapped", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should return cause")
	}
}

func TestError_Is(t *testing.T) {
	if !errors.Is(ErrInvalidInput, ErrInvalidInput) {
		t.Error("same error should match")
	}
	wrapped := WrapError(ErrInvalidInput, errors.New("capital must be positive"))
	if !errors.Is(wrapped, ErrInvalidInput) {
		t.Error("wrapped error should match its base by code")
	}
	if errors.Is(wrapped, ErrNoData) {
		t.Error("different codes must not match")
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("original")
	wrapped := WrapError(ErrArchiveFailed, cause)
	if wrapped.Cause != cause {
		t.Error("cause not set")
	}
	if wrapped.Code != ErrArchiveFailed.Code {
		t.Error("code not preserved")
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrExecutionGap, "symbol %s on %s", "AAPL", "2024-01-03")
	if !errors.Is(wrapped, ErrExecutionGap) {
		t.Error("code not preserved")
	}
	want := "[INPUT_EXEC_GAP] no close price on execution date: symbol AAPL on 2024-01-03"
	if wrapped.Error() != want {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), want)
	}
}

func TestIsInput(t *testing.T) {
	for _, err := range []*Error{ErrInvalidInput, ErrUnalignedPanels, ErrMissingClose, ErrExecutionGap} {
		if !IsInput(err) {
			t.Errorf("IsInput(%s) = false", err.Code)
		}
		if !IsInput(fmt.Errorf("context: %w", err)) {
			t.Errorf("IsInput should see through fmt wrapping for %s", err.Code)
		}
	}
	if IsInput(ErrConfigInvalid) {
		t.Error("CONFIG_INVALID is not an input error")
	}
	if IsInput(errors.New("plain")) {
		t.Error("plain errors are not input errors")
	}
	if IsInput(nil) {
		t.Error("nil is not an input error")
	}
}
