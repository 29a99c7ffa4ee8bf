// Package errors provides the standardized error taxonomy for the pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Gateway errors.
	ErrCodeNotConfigured  ErrorCode = "NOT_CONFIGURED"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeTransportError ErrorCode = "TRANSPORT_ERROR"
	ErrCodeMalformedInput ErrorCode = "MALFORMED_INPUT"

	// Semantic store errors.
	ErrCodeStoreQueryFailed ErrorCode = "STORE_QUERY_FAILED"

	// Language model errors.
	ErrCodeLLMTimeout          ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMGenerationFailed ErrorCode = "LLM_GENERATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// AsStandard returns the wrapped StandardError, if any.
func AsStandard(err error) (*StandardError, bool) {
	var se *StandardError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// CodeOf returns the error code of err, or an empty code for foreign errors.
func CodeOf(err error) ErrorCode {
	if se, ok := AsStandard(err); ok {
		return se.Code
	}
	return ""
}

// NewNotConfiguredError marks a permanently disabled gateway. The message is
// stable across calls so repeated fetches render identically.
func NewNotConfiguredError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotConfigured,
		Message:   fmt.Sprintf("%s provider not configured", source),
		Details:   "missing credentials",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a non-retryable zero-match error.
func NewNotFoundError(source, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("no %s results", source),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError creates a retryable network/provider failure.
func NewTransportError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportError,
		Message:   fmt.Sprintf("%s provider unreachable", source),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedInputError creates a non-retryable bad-parameter error.
func NewMalformedInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedInput,
		Message:   "invalid request parameters",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreQueryFailedError creates a retryable semantic store error.
func NewStoreQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreQueryFailed,
		Message:   "semantic store query error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable model timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "language model call timed out",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMGenerationFailedError creates a retryable model call error.
func NewLLMGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMGenerationFailed,
		Message:   "language model call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns the bounded retry budget for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeTransportError, ErrCodeStoreQueryFailed, ErrCodeLLMGenerationFailed:
		return 1
	case ErrCodeLLMTimeout:
		return 1
	default:
		return 0
	}
}

// IsRetryable reports whether err carries a retryable StandardError.
func IsRetryable(err error) bool {
	se, ok := AsStandard(err)
	return ok && se.Retryable
}
