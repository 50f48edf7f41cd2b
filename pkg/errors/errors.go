// Package errors defines the structured application error used across the certverify service.
// Each error carries a stable code, the HTTP status it maps to and a client-facing message.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	CodeInvalidRequest     Code = "invalid_request"
	CodeDuplicateUsername  Code = "duplicate_username"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeMissingToken       Code = "missing_token"
	CodeInvalidToken       Code = "invalid_token"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeRateLimitExceeded  Code = "rate_limit_exceeded"
	CodeInvalidConfig      Code = "invalid_config"
	CodeInternal           Code = "internal_error"
)

// ================================================================================
// AppError
// ================================================================================

// AppError represents a structured application error
type AppError struct {
	code       Code
	httpStatus int
	message    string
	details    map[string]string
	cause      error
}

// New creates an AppError.
func New(code Code, httpStatus int, message string) *AppError {
	return &AppError{code: code, httpStatus: httpStatus, message: message}
}

// Error implements the error interface. The cause, when present, is appended.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the machine-readable error code
func (e *AppError) Code() Code { return e.code }

// HTTPStatus returns the HTTP status code
func (e *AppError) HTTPStatus() int { return e.httpStatus }

// Message returns the client-facing message without the wrapped cause
func (e *AppError) Message() string { return e.message }

// Details returns per-field details, if any
func (e *AppError) Details() map[string]string { return e.details }

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error { return e.cause }

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.code == e.code
}

// WithCause returns a copy of the error wrapping cause.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.cause = cause
	return &cp
}

// WithDetails returns a copy of the error carrying details.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	cp := *e
	cp.details = details
	return &cp
}

// ================================================================================
// Sentinels
// ================================================================================

var (
	// ErrNotFound matches every not_found error via errors.Is.
	ErrNotFound = New(CodeNotFound, http.StatusNotFound, "resource not found")

	// ErrDuplicateKey is returned by repositories on unique constraint violations.
	ErrDuplicateKey = New(CodeConflict, http.StatusConflict, "duplicate key")

	// ErrDatabaseOperation wraps unexpected store failures.
	ErrDatabaseOperation = New(CodeInternal, http.StatusInternalServerError, "database operation failed")

	// ErrInvalidConfig reports an unusable configuration.
	ErrInvalidConfig = New(CodeInvalidConfig, http.StatusInternalServerError, "invalid configuration")
)

// ================================================================================
// Predefined Error Constructors
// ================================================================================

// ErrValidation creates an invalid_request error with optional per-field details.
func ErrValidation(message string, details map[string]string) *AppError {
	return New(CodeInvalidRequest, http.StatusBadRequest, message).WithDetails(details)
}

// ErrInvalidRequest creates an invalid_request error
func ErrInvalidRequest(message string) *AppError {
	return New(CodeInvalidRequest, http.StatusBadRequest, message)
}

// ErrDuplicateUsername is returned when registering a taken username.
func ErrDuplicateUsername(username string) *AppError {
	return New(CodeDuplicateUsername, http.StatusBadRequest, "Username already exists").
		WithDetails(map[string]string{"username": username})
}

// ErrInvalidCredentials hides whether the username or the password was wrong.
func ErrInvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, http.StatusUnauthorized, "Invalid credentials")
}

// ErrMissingToken is returned when a protected route has no bearer token.
func ErrMissingToken() *AppError {
	return New(CodeMissingToken, http.StatusUnauthorized, "Access token required")
}

// ErrInvalidToken covers bad signatures, unexpected algorithms and expiry.
func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, http.StatusForbidden, "Invalid or expired token")
}

// ErrCertificateNotFound creates a not_found error for a certificate identifier
func ErrCertificateNotFound(certificateID string) *AppError {
	return New(CodeNotFound, http.StatusNotFound, "Certificate not found").
		WithDetails(map[string]string{"certificateId": certificateID})
}

// ErrUserNotFound creates a not_found error for a username
func ErrUserNotFound(username string) *AppError {
	return New(CodeNotFound, http.StatusNotFound, "User not found").
		WithDetails(map[string]string{"username": username})
}

// ErrRateLimitExceeded creates a rate_limit_exceeded error
func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, http.StatusTooManyRequests, "Too many requests, please try again later")
}

// ErrInternal creates an internal_error
func ErrInternal(message string) *AppError {
	return New(CodeInternal, http.StatusInternalServerError, message)
}

// ================================================================================
// Helpers
// ================================================================================

// Is is errors.Is from the standard library.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As extracts the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a not_found error.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	return stderrors.Is(err, ErrDuplicateKey)
}

// HTTPStatus returns the status carried by err, or 500 for foreign errors.
func HTTPStatus(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
