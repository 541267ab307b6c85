package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies a failure so the API layer can pick a status code
type ErrorType string

const (
	// ErrorTypeNotFound indicates a record with the given id does not exist
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates rejected input; nothing was mutated
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates the request conflicts with current state,
	// e.g. a status transition the active policy forbids
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeUnauthorized indicates missing or bad credentials
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeForbidden indicates the session role may not perform the action
	ErrorTypeForbidden ErrorType = "FORBIDDEN"

	// ErrorTypeInternal indicates a store or encoding failure
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from the remote API
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

var statusByType = map[ErrorType]int{
	ErrorTypeNotFound:     http.StatusNotFound,
	ErrorTypeValidation:   http.StatusBadRequest,
	ErrorTypeConflict:     http.StatusConflict,
	ErrorTypeUnauthorized: http.StatusUnauthorized,
	ErrorTypeForbidden:    http.StatusForbidden,
	ErrorTypeExternal:     http.StatusBadGateway,
	ErrorTypeInternal:     http.StatusInternalServerError,
}

// HTTPStatus returns the response status for t; unknown types are 500
func (t ErrorType) HTTPStatus() int {
	if status, ok := statusByType[t]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// AppError is an error with a type and a client-safe message
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// As returns the first AppError in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "" when none.
func TypeOf(err error) ErrorType {
	if appErr, ok := As(err); ok {
		return appErr.Type
	}
	return ""
}

// Is reports whether err carries an AppError of the given type.
func Is(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

func newError(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

func NewNotFoundError(message string) *AppError {
	return newError(ErrorTypeNotFound, message, nil)
}

func NewValidationError(message string) *AppError {
	return newError(ErrorTypeValidation, message, nil)
}

func NewConflictError(message string) *AppError {
	return newError(ErrorTypeConflict, message, nil)
}

func NewUnauthorizedError(message string) *AppError {
	return newError(ErrorTypeUnauthorized, message, nil)
}

func NewForbiddenError(message string) *AppError {
	return newError(ErrorTypeForbidden, message, nil)
}

// NewInternalError wraps a store or encoding failure; message is what clients may see
func NewInternalError(message string, err error) *AppError {
	return newError(ErrorTypeInternal, message, err)
}

// NewExternalError wraps a remote API failure
func NewExternalError(message string, err error) *AppError {
	return newError(ErrorTypeExternal, message, err)
}
