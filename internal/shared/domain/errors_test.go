package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Kinds(t *testing.T) {
	conflict := NewConflictError("date %s not available", "2026-03-03")
	notFound := NewNotFoundError("booking not found")
	validation := NewValidationError("end date before start date")

	assert.True(t, IsConflict(conflict))
	assert.False(t, IsConflict(notFound))

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(validation))

	assert.True(t, IsValidation(validation))
	assert.False(t, IsValidation(conflict))
}

func TestDomainError_Wrapped(t *testing.T) {
	inner := NewNotFoundError("block not found")
	wrapped := fmt.Errorf("deleting block: %w", inner)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
}

func TestDomainError_NonDomainError(t *testing.T) {
	err := errors.New("plain error")

	assert.False(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}

func TestDomainError_Message(t *testing.T) {
	err := NewConflictError("artist %d is blocked", 7)
	assert.Equal(t, "conflict: artist 7 is blocked", err.Error())
}
