package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestGuardErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *GuardError
		expected string
	}{
		{
			name:     "without cause",
			err:      New(NotInitialized, "analyzer not initialized", nil),
			expected: "[NOT_INITIALIZED] analyzer not initialized",
		},
		{
			name:     "with cause",
			err:      New(StorageFailure, "cannot open store", errors.New("disk full")),
			expected: "[STORAGE_FAILURE] cannot open store: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	base := Newf(InvalidChange, "modify change %s missing old content", "c1")
	wrapped := fmt.Errorf("validating batch: %w", base)

	if code := CodeOf(wrapped); code != InvalidChange {
		t.Errorf("CodeOf(wrapped) = %s, want %s", code, InvalidChange)
	}
	if code := CodeOf(errors.New("plain")); code != InternalError {
		t.Errorf("CodeOf(plain) = %s, want %s", code, InternalError)
	}
	if !IsCode(wrapped, InvalidChange) {
		t.Error("IsCode(wrapped, InvalidChange) = false, want true")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(AnalysisTimeout, "file scan timed out", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}
