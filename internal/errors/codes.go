package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for request handling.
type ErrorCode string

const (
	// ErrCodeUpstreamUnavailable indicates an upstream API could not be reached
	// and no usable stale fallback existed.
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	// ErrCodeUpstreamRejected indicates the upstream refused to produce a result,
	// e.g. the generation response was safety-filtered or empty.
	ErrCodeUpstreamRejected ErrorCode = "UPSTREAM_REJECTED"
	// ErrCodeConfigurationMissing indicates a required credential is absent.
	ErrCodeConfigurationMissing ErrorCode = "CONFIGURATION_MISSING"
	// ErrCodeNotFound indicates the requested entity does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeRateLimitExceeded indicates the caller is sending too fast.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// APIError represents a structured error surfaced at the HTTP boundary.
type APIError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// GetCode returns the error code.
func (e *APIError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// UpstreamUnavailable creates an upstream unavailable error.
func UpstreamUnavailable(msg string, cause error) *APIError {
	return &APIError{Code: ErrCodeUpstreamUnavailable, Message: msg, Cause: cause}
}

// UpstreamRejected creates an upstream rejected error.
func UpstreamRejected(msg string) *APIError {
	return &APIError{Code: ErrCodeUpstreamRejected, Message: msg}
}

// ConfigurationMissing creates a configuration missing error.
func ConfigurationMissing(msg string) *APIError {
	return &APIError{Code: ErrCodeConfigurationMissing, Message: msg}
}

// NotFound creates a not found error.
func NotFound(entity string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", entity),
	}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *APIError {
	return &APIError{Code: ErrCodeInvalidArgument, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *APIError {
	return &APIError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// Timeout creates a timeout error.
func Timeout(msg string) *APIError {
	return &APIError{Code: ErrCodeTimeout, Message: msg}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *APIError {
	return &APIError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an APIError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Code
	}
	return defaultCode
}
