// Package apperr defines the sentinel errors shared across the engine and
// their mapping onto HTTP status codes for the API layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrDuplicateURL marks an ingest of a URL that already has a document
	// row. Callers treat it as a no-op, not a failure.
	ErrDuplicateURL = errors.New("url already indexed")
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

func HTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateURL):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
