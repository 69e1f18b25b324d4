package collection

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundError is returned when a document does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("collection %q document %q not found", e.Resource, e.ID)
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *NotFoundError) Hint() string {
	return fmt.Sprintf("Document %q may have been deleted by another client. Refresh the list.", e.ID)
}

// ConflictError is returned when a document with the same id already exists.
type ConflictError struct {
	Resource string
	ID       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("collection %q document %q already exists", e.Resource, e.ID)
}

// StatusCode returns the HTTP status code for this error.
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ConflictError) Hint() string {
	return fmt.Sprintf("Document %q already exists. Use update instead.", e.ID)
}

// ValidationError is returned when input validation fails.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return e.Message
}

// StatusCode returns the HTTP status code for this error.
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ValidationError) Hint() string {
	if e.Field != "" {
		return fmt.Sprintf("Provide a value for %q.", e.Field)
	}
	return "Check the request body format and required fields."
}

// StatusCodeError is implemented by errors that map to an HTTP status.
type StatusCodeError interface {
	error
	StatusCode() int
}

// HintError is implemented by errors that carry a resolution hint.
type HintError interface {
	error
	Hint() string
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ToErrorResponse converts an error to its wire representation.
func ToErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{}

	var (
		notFound   *NotFoundError
		conflict   *ConflictError
		validation *ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		resp.Error = "document not found"
		resp.Resource = notFound.Resource
		resp.ID = notFound.ID
		resp.StatusCode = notFound.StatusCode()
		resp.Hint = notFound.Hint()
	case errors.As(err, &conflict):
		resp.Error = "document already exists"
		resp.Resource = conflict.Resource
		resp.ID = conflict.ID
		resp.StatusCode = conflict.StatusCode()
		resp.Hint = conflict.Hint()
	case errors.As(err, &validation):
		resp.Error = "invalid request"
		resp.Detail = validation.Message
		resp.Field = validation.Field
		resp.StatusCode = validation.StatusCode()
		resp.Hint = validation.Hint()
	default:
		resp.Error = "internal error"
		resp.Detail = err.Error()
		resp.StatusCode = http.StatusInternalServerError
	}

	return resp
}
