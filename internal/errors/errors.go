// Package errors provides typed error definitions for krang.
// This package consolidates error handling and provides structured error types
// that can be used for better error classification and handling.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a unique identifier for different error types
type ErrorCode string

const (
	// Configuration errors
	ErrConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigParse      ErrorCode = "CONFIG_PARSE"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Registry errors
	ErrRegistryNotFound  ErrorCode = "REGISTRY_NOT_FOUND"
	ErrRegistryParse     ErrorCode = "REGISTRY_PARSE"
	ErrRegistryDuplicate ErrorCode = "REGISTRY_DUPLICATE"

	// Container errors
	ErrContainerNotFound    ErrorCode = "CONTAINER_NOT_FOUND"
	ErrContainerStartFailed ErrorCode = "CONTAINER_START_FAILED"
	ErrContainerStopFailed  ErrorCode = "CONTAINER_STOP_FAILED"
	ErrContainerRestartFail ErrorCode = "CONTAINER_RESTART_FAILED"
	ErrContainerLogsFailed  ErrorCode = "CONTAINER_LOGS_FAILED"
	ErrRuntimeUnavailable   ErrorCode = "RUNTIME_UNAVAILABLE"

	// Command errors
	ErrNotAddressed    ErrorCode = "NOT_ADDRESSED"
	ErrUnknownVerb     ErrorCode = "UNKNOWN_VERB"
	ErrMissingArgument ErrorCode = "MISSING_ARGUMENT"
	ErrUnauthorized    ErrorCode = "UNAUTHORIZED"

	// Chat gateway errors
	ErrDiscordConnect ErrorCode = "DISCORD_CONNECT"
	ErrDiscordSend    ErrorCode = "DISCORD_SEND"
	ErrTokenMissing   ErrorCode = "TOKEN_MISSING"

	// Database errors
	ErrDatabaseConnection ErrorCode = "DATABASE_CONNECTION"
	ErrDatabaseQuery      ErrorCode = "DATABASE_QUERY"
	ErrDatabaseMigration  ErrorCode = "DATABASE_MIGRATION"

	// Validation errors
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrInvalidInput     ErrorCode = "INVALID_INPUT"

	// Internal errors
	ErrInternal ErrorCode = "INTERNAL_ERROR"
	ErrTimeout  ErrorCode = "TIMEOUT"
)

// KrangError represents a structured error with additional context
type KrangError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Context    map[string]interface{} `json:"context,omitempty"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *KrangError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *KrangError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *KrangError) WithContext(key string, value interface{}) *KrangError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause adds the underlying cause error
func (e *KrangError) WithCause(cause error) *KrangError {
	e.Cause = cause
	return e
}

// GetHTTPStatus returns the appropriate HTTP status code for this error
func (e *KrangError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}

	switch e.Code {
	case ErrConfigNotFound, ErrRegistryNotFound, ErrContainerNotFound:
		return http.StatusNotFound
	case ErrUnauthorized:
		return http.StatusForbidden
	case ErrValidationFailed, ErrInvalidInput, ErrUnknownVerb, ErrMissingArgument:
		return http.StatusBadRequest
	case ErrTimeout:
		return http.StatusRequestTimeout
	case ErrRuntimeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new KrangError
func New(code ErrorCode, message string) *KrangError {
	return &KrangError{
		Code:    code,
		Message: message,
	}
}

// NewWithDetails creates a new KrangError with details
func NewWithDetails(code ErrorCode, message, details string) *KrangError {
	return &KrangError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Wrap creates a new KrangError that wraps an existing error
func Wrap(code ErrorCode, message string, cause error) *KrangError {
	return &KrangError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsKrangError checks if an error is a KrangError
func IsKrangError(err error) bool {
	_, ok := err.(*KrangError)
	return ok
}

// GetCode extracts the error code from an error, if it's a KrangError
func GetCode(err error) ErrorCode {
	if ke, ok := err.(*KrangError); ok {
		return ke.Code
	}
	return ""
}

// HasCode checks if an error has a specific error code
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// Common pre-defined errors for consistency
var (
	// Parse errors
	ErrNotAddressedError = New(ErrNotAddressed, "message does not address the bot")

	// Container errors
	ErrContainerNotFoundError = New(ErrContainerNotFound, "container not found")

	// Gateway errors
	ErrTokenMissingError = New(ErrTokenMissing, "discord bot token not set")

	// Validation errors
	ErrEmptyInput = New(ErrInvalidInput, "input cannot be empty")
)
