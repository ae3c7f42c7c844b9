package service

import (
	"errors"
	"fmt"
)

// ErrorType tags a service error with its place in the error taxonomy. The
// HTTP layer maps these onto status codes.
type ErrorType string

const (
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

// Error is the typed error returned by every service operation. Message is
// safe to surface to the client; Cause is for logs only.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ErrorType: %s, Details: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("ErrorType: %s, Details: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(errorType ErrorType, message string, cause error) *Error {
	return &Error{Type: errorType, Message: message, Cause: cause}
}

// TypeOf extracts the taxonomy tag from an error, defaulting to internal.
func TypeOf(err error) ErrorType {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Type
	}
	return ErrorTypeInternal
}

// Retryable reports whether the client can usefully retry the request after
// a refresh. Conflict and NotFound are retryable conditions, not defects.
func Retryable(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeConflict, ErrorTypeNotFound:
		return true
	}
	return false
}
