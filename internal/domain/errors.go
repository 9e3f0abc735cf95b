package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type (
	// NotFoundError indicates a resource does not exist within the claimed scope
	NotFoundError struct {
		Message      string
		ResourceType string
		ResourceID   string
	}

	// ValidationError indicates malformed input (bad ids, empty query text)
	ValidationError struct {
		Message string
		Field   string
	}

	// ConflictError covers both uniqueness violations and structural guards
	// (deleting a bank that still has folders, a folder that still has children).
	ConflictError struct {
		Message      string
		ResourceType string
		ResourceID   string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }
func (e *ConflictError) Error() string   { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *ConflictError) StatusCode() int   { return http.StatusConflict }

func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *ConflictError) Is(target error) bool   { return target == ErrConflict }

// NewNotFound builds a NotFoundError with a human-readable message.
func NewNotFound(resourceType, id, message string) *NotFoundError {
	if message == "" {
		message = fmt.Sprintf("%s %s not found", resourceType, id)
	}
	return &NotFoundError{Message: message, ResourceType: resourceType, ResourceID: id}
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Message: message, Field: field}
}

// NewConflict builds a ConflictError pointing at the resource that blocks the operation.
func NewConflict(resourceType, id, message string) *ConflictError {
	return &ConflictError{Message: message, ResourceType: resourceType, ResourceID: id}
}

// StatusOf returns the HTTP status an error maps to. Errors that carry no
// business meaning are infrastructure faults and map to 500.
func StatusOf(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode()
	}

	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// IsBusinessError reports whether err is a rule violation rather than an
// infrastructure fault.
func IsBusinessError(err error) bool {
	return err != nil && StatusOf(err) < http.StatusInternalServerError
}
