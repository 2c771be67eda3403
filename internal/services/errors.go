package services

import (
	"errors"
	"fmt"
)

// Domain error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyOccupied = errors.New("already occupied")
	ErrAmbiguous       = errors.New("ambiguous reference")
	ErrMismatch        = errors.New("reference mismatch")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnavailable     = errors.New("feature not configured")
)

// FieldError attributes a domain error to the request field that caused it.
type FieldError struct {
	Err     error
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(kind error, field, format string, args ...any) error {
	return &FieldError{Err: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}
