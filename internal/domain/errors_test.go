package domain

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
)

func TestFormatError(t *testing.T) {
	line := "fc754b5f-1af9-4559-b90e-62a0cc2b0f96,AUD/USD,0.77,0.78"

	t.Run("field count", func(t *testing.T) {
		err := &FormatError{Line: line}

		want := "invalid message format: " + line
		if err.Error() != want {
			t.Errorf("Error message = %q, want %q", err.Error(), want)
		}
		if !errors.Is(err, ErrInvalidFormat) {
			t.Error("Expected errors.Is(err, ErrInvalidFormat)")
		}
	})

	t.Run("field error", func(t *testing.T) {
		_, cause := strconv.ParseInt("abc", 10, 64)
		err := &FormatError{Line: "x", Field: "timestamp", Err: cause}

		if !errors.Is(err, ErrInvalidFormat) {
			t.Error("Expected errors.Is(err, ErrInvalidFormat)")
		}
		if !errors.Is(err, strconv.ErrSyntax) {
			t.Error("Expected error to wrap strconv.ErrSyntax")
		}
		want := "invalid message format: x (field timestamp: " + cause.Error() + ")"
		if err.Error() != want {
			t.Errorf("Error message = %q, want %q", err.Error(), want)
		}
	})

	t.Run("IsFormatError helper", func(t *testing.T) {
		wrapped := fmt.Errorf("line 3: %w", &FormatError{Line: "bad"})
		plain := errors.New("plain error")

		if !IsFormatError(wrapped) {
			t.Error("IsFormatError should return true for wrapped FormatError")
		}
		if IsFormatError(plain) {
			t.Error("IsFormatError should return false for plain error")
		}
		if errors.Is(plain, ErrInvalidFormat) {
			t.Error("plain error should not match ErrInvalidFormat")
		}
	})
}

func TestConfigError(t *testing.T) {
	baseErr := errors.New("must be positive")
	err := &ConfigError{Field: "startup.ready_timeout_ms", Err: baseErr}

	expected := "config error [startup.ready_timeout_ms]: must be positive"
	if err.Error() != expected {
		t.Errorf("Error message = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, baseErr) {
		t.Error("Expected error to wrap baseErr")
	}
}
