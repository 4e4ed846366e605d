package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes the engine
// is permitted to surface to callers. Everything else degrades in place.
type ErrorCode string

const (
	// NotInitialized indicates an analyzer method was called before Initialize
	NotInitialized ErrorCode = "NOT_INITIALIZED"
	// InvalidChange indicates a CodeChange violates its content invariants
	InvalidChange ErrorCode = "INVALID_CHANGE"
	// StorageFailure indicates the audit/report store could not be used
	StorageFailure ErrorCode = "STORAGE_FAILURE"
	// AnalysisTimeout indicates a source analyzer call exceeded its deadline
	AnalysisTimeout ErrorCode = "ANALYSIS_TIMEOUT"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// GuardError represents an engine error with a stable code and message
type GuardError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new GuardError
func New(code ErrorCode, message string, cause error) *GuardError {
	return &GuardError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new GuardError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *GuardError {
	return &GuardError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *GuardError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GuardError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *GuardError) WithDetails(details interface{}) *GuardError {
	e.Details = details
	return e
}

// CodeOf extracts the error code from an error chain.
// Returns InternalError for errors that did not originate here.
func CodeOf(err error) ErrorCode {
	var ge *GuardError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return InternalError
}

// IsCode reports whether the error chain carries the given code
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
