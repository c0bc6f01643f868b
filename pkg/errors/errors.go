// Package errors provides structured error handling for the application.
// Every error that crosses a service boundary is an AppError so the HTTP
// layer can map it to a status code and response envelope in one place.
package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents an error code.
type ErrorCode string

// Common error codes following RESTful API conventions.
const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable   ErrorCode = "SERVICE_UNAVAILABLE"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Business logic errors
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeEmailExists        ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeUsernameExists     ErrorCode = "USERNAME_ALREADY_EXISTS"
	CodeNotHouseholdMember ErrorCode = "NOT_HOUSEHOLD_MEMBER"
	CodeInvalidInviteCode  ErrorCode = "INVALID_INVITE_CODE"
	CodeInvalidTransition  ErrorCode = "INVALID_STATUS_TRANSITION"
)

// Category labels used in the response envelope.
const (
	CategoryValidation     = "Validation"
	CategoryNotFound       = "Not Found"
	CategoryAuthentication = "Authentication"
	CategoryAuthorization  = "Authorization"
	CategoryBadRequest     = "Bad Request"
	CategoryConflict       = "Resource Conflict"
	CategoryInternal       = "Internal Server Error"
)

// AppError represents an application error with structured information.
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeValidationFailed:
		return http.StatusUnprocessableEntity
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden, CodeNotHouseholdMember:
		return http.StatusForbidden
	case CodeNotFound, CodeInvalidInviteCode:
		return http.StatusNotFound
	case CodeConflict, CodeEmailExists, CodeUsernameExists, CodeInvalidTransition:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Category returns the envelope category label for the error.
func (e *AppError) Category() string {
	switch e.Code {
	case CodeValidationFailed:
		return CategoryValidation
	case CodeNotFound, CodeInvalidInviteCode:
		return CategoryNotFound
	case CodeUnauthorized, CodeInvalidCredentials:
		return CategoryAuthentication
	case CodeForbidden, CodeNotHouseholdMember:
		return CategoryAuthorization
	case CodeBadRequest, CodeTooManyRequests:
		return CategoryBadRequest
	case CodeConflict, CodeEmailExists, CodeUsernameExists, CodeInvalidTransition:
		return CategoryConflict
	default:
		return CategoryInternal
	}
}

// WithMetadata adds metadata to the error.
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new application error.
func New(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewBadRequest creates a bad request error.
func NewBadRequest(message string) *AppError {
	return New(CodeBadRequest, message, "")
}

// NewValidation creates a validation error.
func NewValidation(details string) *AppError {
	return New(CodeValidationFailed, "Validation failed", details)
}

// NewUnauthorized creates an unauthorized error.
func NewUnauthorized(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return New(CodeUnauthorized, message, "")
}

// NewForbidden creates a forbidden error.
func NewForbidden(message string) *AppError {
	if message == "" {
		message = "Access forbidden"
	}
	return New(CodeForbidden, message, "")
}

// NewNotFound creates a not found error for a named resource.
func NewNotFound(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return New(CodeNotFound, message, "")
}

// NewConflict creates a conflict error.
func NewConflict(message string) *AppError {
	return New(CodeConflict, message, "")
}

// NewInternal creates an internal server error.
func NewInternal(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return New(CodeInternal, message, "")
}

// NewDatabase creates a database error.
func NewDatabase(operation string, cause error) *AppError {
	return New(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("failed to %s", operation),
	).WithCause(cause)
}

// NewExternalService creates an external service error.
func NewExternalService(service string, cause error) *AppError {
	return New(
		CodeExternalServiceError,
		"External service error",
		fmt.Sprintf("failed to communicate with %s", service),
	).WithCause(cause)
}

// NewInvalidCredentials creates an invalid credentials error.
func NewInvalidCredentials() *AppError {
	return New(
		CodeInvalidCredentials,
		"Invalid credentials",
		"The provided email or password is incorrect",
	)
}

// NewEmailExists creates an email conflict error.
func NewEmailExists(email string) *AppError {
	return New(
		CodeEmailExists,
		"Email already exists",
		"An account with this email address already exists",
	).WithMetadata("email", email)
}

// NewUsernameExists creates a username conflict error.
func NewUsernameExists(username string) *AppError {
	return New(
		CodeUsernameExists,
		"Username already exists",
		"This username is already taken",
	).WithMetadata("username", username)
}

// NewNotHouseholdMember creates a household membership error.
func NewNotHouseholdMember() *AppError {
	return New(
		CodeNotHouseholdMember,
		"Not a household member",
		"You must be a member of the household to perform this action",
	)
}

// NewInvalidInviteCode creates an invite code error.
func NewInvalidInviteCode() *AppError {
	return New(
		CodeInvalidInviteCode,
		"Invalid invite code",
		"No household matches the provided invite code",
	)
}

// NewInvalidTransition creates a status transition error.
func NewInvalidTransition(from, to string) *AppError {
	return New(
		CodeInvalidTransition,
		"Invalid status transition",
		fmt.Sprintf("cannot move from %s to %s", from, to),
	)
}

// Wrap wraps an error as an internal error if it's not already an AppError.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternal(message).WithCause(err)
}

// Is checks if an error is of a specific error code.
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error.
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(v))
	for i, err := range v {
		messages[i] = err.Message
	}
	return strings.Join(messages, "; ")
}

// NewValidationErrors creates an AppError from field validation errors.
func NewValidationErrors(errors []ValidationError) *AppError {
	validationErrs := ValidationErrors(errors)
	return New(
		CodeValidationFailed,
		"Validation failed",
		validationErrs.Error(),
	).WithMetadata("validation_errors", validationErrs)
}
