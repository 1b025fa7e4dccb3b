package errors

import (
	"fmt"
)

// ServiceError is the structured error type for helpsek.
// It carries enough context for logging and for the HTTP boundary to
// choose a status code without string matching.
type ServiceError struct {
	// Code is the unique error code (e.g., "ERR_401_INVALID_INPUT").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Data, Index, ...).
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with ServiceError.
func (e *ServiceError) Is(target error) bool {
	if t, ok := target.(*ServiceError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *ServiceError) WithDetail(key, value string) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new ServiceError with the given code and message.
// Category and retryable flag are derived from the code.
func New(code string, message string, cause error) *ServiceError {
	return &ServiceError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a ServiceError from an existing error.
// The error's message becomes the ServiceError message.
func Wrap(code string, err error) *ServiceError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// InvalidInput creates a request validation error. The boundary layer
// maps this category to a client error status.
func InvalidInput(message string) *ServiceError {
	return New(ErrCodeInvalidInput, message, nil)
}

// MalformedRecord creates an error for a source record that is not a
// JSON object.
func MalformedRecord(message string, cause error) *ServiceError {
	return New(ErrCodeRecordMalformed, message, cause)
}

// IndexUnavailable creates an error for a collection whose index could
// not be built or loaded.
func IndexUnavailable(collection string, cause error) *ServiceError {
	e := New(ErrCodeIndexUnavailable, fmt.Sprintf("index for collection %q is unavailable", collection), cause)
	return e.WithDetail("collection", collection)
}

// GenerationFailure creates an error for a failed or timed-out call to
// the text-generation service.
func GenerationFailure(message string, cause error) *ServiceError {
	return New(ErrCodeGenerationFailed, message, cause)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *ServiceError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *ServiceError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable checks if an error is retryable.
// Returns true if the error is a ServiceError with Retryable flag set.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if se, ok := err.(*ServiceError); ok {
		return se.Retryable
	}
	return false
}

// GetCode extracts the error code from a ServiceError.
// Returns empty string if not a ServiceError.
func GetCode(err error) string {
	if se, ok := err.(*ServiceError); ok {
		return se.Code
	}
	return ""
}

// GetCategory extracts the category from a ServiceError.
// Returns empty string if not a ServiceError.
func GetCategory(err error) Category {
	if se, ok := err.(*ServiceError); ok {
		return se.Category
	}
	return ""
}
