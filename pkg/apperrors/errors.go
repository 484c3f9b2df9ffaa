// Package apperrors holds the error kinds shared by every layer. Use cases
// return errors wrapping one of the kinds below and handlers map the kind to a
// status code.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a reference to a resource that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a collision with existing data.
	ErrConflict = errors.New("conflict")
)

// ValidationError describes why a single field was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validation builds a *ValidationError for field.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// kindError carries a client-facing message and matches its kind with
// errors.Is without repeating the kind in Error().
type kindError struct {
	kind    error
	message string
}

func (e *kindError) Error() string { return e.message }

func (e *kindError) Is(target error) bool { return target == e.kind }

// New returns an error reading exactly message that matches kind.
func New(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

// Wrap adds context to err while keeping it matchable with errors.Is.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
