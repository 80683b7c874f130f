// Package repository holds the schema layer shared by every store backend:
// field normalization, required-field checks and the password hashing save hook.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"eventgraph/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks entity against its `validate` struct tags. The first failing
// field is returned as a *domain.ValidationError.
func Validate(entity string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.NewValidationError(entity, lowerFirst(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("validate %s: %w", entity, err)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

type eventSchema struct {
	domain.EventRepository
}

// WithEventSchema wraps an event store so Create trims and validates before inserting.
func WithEventSchema(inner domain.EventRepository) domain.EventRepository {
	return &eventSchema{EventRepository: inner}
}

func (s *eventSchema) Create(ctx context.Context, e *domain.Event) error {
	e.Title = strings.TrimSpace(e.Title)
	if err := Validate("Event", e); err != nil {
		return err
	}
	return s.EventRepository.Create(ctx, e)
}

type userSchema struct {
	domain.UserRepository
	hasher domain.PasswordHasher
}

// WithUserSchema wraps a user store so Create normalizes, validates and then
// replaces the plaintext password with a salted hash before inserting.
func WithUserSchema(inner domain.UserRepository, hasher domain.PasswordHasher) domain.UserRepository {
	return &userSchema{UserRepository: inner, hasher: hasher}
}

func (s *userSchema) Create(ctx context.Context, u *domain.User) error {
	u.Email = NormalizeEmail(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	if err := Validate("User", u); err != nil {
		return err
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	hash, err := s.hasher.Hash(salt, u.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = hash
	u.Salt = salt
	if u.CreatedEvents == nil {
		u.CreatedEvents = []string{}
	}
	return s.UserRepository.Create(ctx, u)
}

func (s *userSchema) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.UserRepository.GetByEmail(ctx, NormalizeEmail(email))
}

// NormalizeEmail trims and lower-cases an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
