package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/resume-optimizer/internal/schemas"
)

// ErrNotFound indicates a requested record does not exist
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ErrBadRequest indicates a malformed request body or path parameter
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// ErrValidation indicates a request field failed validation
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrNotFound:
		return http.StatusNotFound
	case *ErrBadRequest, *ErrValidation, *schemas.ValidationError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
