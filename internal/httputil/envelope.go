package httputil

import (
	"errors"
	"net/http"

	"resumebank/internal/domain"
)

// Envelope is the uniform result shape of every operation and JSON response.
// Failures are values: a 4xx envelope is cached and replayed like a 200.
type Envelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   any    `json:"error,omitempty"`
}

// OK wraps a successful payload
func OK(data any, message string) Envelope {
	return Envelope{Status: http.StatusOK, Success: true, Data: data, Message: message}
}

// Created wraps a successful create
func Created(data any, message string) Envelope {
	return Envelope{Status: http.StatusCreated, Success: true, Data: data, Message: message}
}

// Fail builds a failure envelope with a problem detail
func Fail(status int, message string, extras map[string]any) Envelope {
	return Envelope{
		Status:  status,
		Success: false,
		Message: message,
		Error:   NewProblem(status, message, extras),
	}
}

// FromError maps a domain error to its envelope. Errors without business
// meaning become a 500 carrying the raw fault for diagnostics.
func FromError(err error, fallbackMessage string) Envelope {
	status := domain.StatusOf(err)
	if status >= http.StatusInternalServerError {
		return Envelope{
			Status:  status,
			Success: false,
			Message: fallbackMessage,
			Error:   NewProblem(status, err.Error(), nil),
		}
	}

	var extras map[string]any
	var conflict *domain.ConflictError
	var notFound *domain.NotFoundError
	var invalid *domain.ValidationError
	switch {
	case errors.As(err, &conflict) && conflict.ResourceID != "":
		extras = map[string]any{"resource_type": conflict.ResourceType, "resource_id": conflict.ResourceID}
	case errors.As(err, &notFound) && notFound.ResourceType != "":
		extras = map[string]any{"resource_type": notFound.ResourceType}
	case errors.As(err, &invalid) && invalid.Field != "":
		extras = map[string]any{"field": invalid.Field}
	}
	return Fail(status, err.Error(), extras)
}
