package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors for boundary mapping.
type ErrorKind string

const (
	// KindConflict marks a booking admission failure (date not available).
	KindConflict ErrorKind = "conflict"
	// KindNotFound marks an unknown artist/booking/block identifier.
	KindNotFound ErrorKind = "not_found"
	// KindValidation marks malformed input or an invalid state transition.
	KindValidation ErrorKind = "validation"
)

// DomainError is the error type surfaced by commands and queries.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewConflictError creates a conflict error.
func NewConflictError(format string, args ...any) *DomainError {
	return &DomainError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(format string, args ...any) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewValidationError creates a validation error.
func NewValidationError(format string, args ...any) *DomainError {
	return &DomainError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func kindOf(err error) (ErrorKind, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindConflict
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNotFound
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindValidation
}
