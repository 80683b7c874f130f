package domain

import (
	"context"
	"time"
)

// PasswordMask replaces the stored hash whenever a user is listed.
const PasswordMask = "********"

// User represents a registered user
// swagger:model User
type User struct {
	ID    string `json:"id"`
	Email string `json:"email" validate:"required"`
	Name  string `json:"name" validate:"required"`
	// Password holds the plaintext until the user is saved and the salted hash afterwards.
	Password      string    `json:"-" validate:"required"`
	Salt          string    `json:"-"`
	CreatedEvents []string  `json:"created_events"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(email, name, password string, createdAt time.Time) *User {
	return &User{
		Email:         email,
		Name:          name,
		Password:      password,
		CreatedEvents: []string{},
		CreatedAt:     createdAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for a user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the user ID it was issued for.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	// Create inserts u and sets u.ID.
	Create(ctx context.Context, u *User) error
	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// AppendCreatedEvent pushes eventID onto the user's created events.
	// Returns ErrUserNotFound when no user has the given id.
	AppendCreatedEvent(ctx context.Context, userID, eventID string) error
}

// UserService defines the business logic for users.
type UserService interface {
	CreateUser(ctx context.Context, email, name, password string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
