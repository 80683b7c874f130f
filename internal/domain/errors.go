package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and repositories.
var (
	ErrNotFound     = errors.New("not found")
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail keeps the message clients have always received.
	ErrDuplicateEmail  = errors.New("Email already exists") //nolint:staticcheck
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("no caller identity for this operation")

	// ErrMutationNotAllowed rejects state changes requested over GET.
	ErrMutationNotAllowed = errors.New("Can only perform a mutation operation from a POST request.") //nolint:staticcheck
)

// ValidationError reports a field that failed a schema rule.
type ValidationError struct {
	Entity string
	Field  string
	Rule   string
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case "required":
		return fmt.Sprintf("%s validation failed: %s is required", e.Entity, e.Field)
	default:
		return fmt.Sprintf("%s validation failed: %s is invalid (%s)", e.Entity, e.Field, e.Rule)
	}
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError returns a ValidationError for entity.field.
func NewValidationError(entity, field, rule string) *ValidationError {
	return &ValidationError{Entity: entity, Field: field, Rule: rule}
}
