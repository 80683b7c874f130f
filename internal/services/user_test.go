package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgraph/internal/domain"
	"eventgraph/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUserFixture(t *testing.T, mail domain.EmailService) (*fakeStore, domain.UserService) {
	t.Helper()
	store := newFakeStore()
	users := repository.WithUserSchema(fakeUserRepo{store}, fakePasswordHasher{})
	return store, NewUserService(users, mail, discardLogger(), 5*time.Second)
}

func TestUserService_CreateUser(t *testing.T) {
	mail := newFakeEmailService()
	store, svc := newUserFixture(t, mail)

	u, err := svc.CreateUser(context.Background(), " A@X.com ", " Ann ", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "Ann", u.Name)
	assert.Empty(t, u.Password, "the created user must not echo password material")
	assert.Empty(t, u.Salt)
	assert.Empty(t, u.CreatedEvents)

	stored := store.users[u.ID]
	assert.NotEqual(t, "s3cret", stored.Password)
	assert.NoError(t, fakePasswordHasher{}.Compare(stored.Password, stored.Salt, "s3cret"))

	select {
	case data := <-mail.sent:
		assert.Equal(t, "a@x.com", data.Email)
		assert.Equal(t, u.ID, data.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("welcome email was not sent")
	}
}

func TestUserService_CreateUser_duplicate_email(t *testing.T) {
	store, svc := newUserFixture(t, nil)

	_, err := svc.CreateUser(context.Background(), "a@x.com", "A", "pw")
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), "A@x.com", "Other", "pw2")
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.EqualError(t, err, "Email already exists")
	assert.Len(t, store.users, 1)
}

func TestUserService_CreateUser_validation(t *testing.T) {
	tests := []struct {
		name, email, userName, password string
		want                            string
	}{
		{"missing email", "", "A", "pw", "User validation failed: email is required"},
		{"blank name", "a@x.com", "   ", "pw", "User validation failed: name is required"},
		{"missing password", "a@x.com", "A", "", "User validation failed: password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc := newUserFixture(t, nil)
			_, err := svc.CreateUser(context.Background(), tt.email, tt.userName, tt.password)
			require.EqualError(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, store.users)
		})
	}
}

func TestUserService_CreateUser_mail_failure_is_not_fatal(t *testing.T) {
	mail := newFakeEmailService()
	mail.err = errors.New("ses down")
	_, svc := newUserFixture(t, mail)

	u, err := svc.CreateUser(context.Background(), "a@x.com", "A", "pw")
	require.NoError(t, err)
	require.NotNil(t, u)

	select {
	case <-mail.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("welcome email was not attempted")
	}
}

func TestUserService_ListUsers_masks_password(t *testing.T) {
	store, svc := newUserFixture(t, nil)
	_, err := svc.CreateUser(context.Background(), "a@x.com", "A", "pw")
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), "b@x.com", "B", "pw")
	require.NoError(t, err)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, domain.PasswordMask, u.Password)
		assert.Empty(t, u.Salt)
	}
	assert.Equal(t, "a@x.com", users[0].Email)

	for _, u := range store.users {
		assert.NotEqual(t, domain.PasswordMask, u.Password, "masking must not touch stored records")
	}
}

func TestUserService_GetByID(t *testing.T) {
	store, svc := newUserFixture(t, nil)
	owner := store.addUser(&domain.User{Email: "o@x.com", Name: "O", Password: "hash", CreatedEvents: []string{"ev-9"}})

	u, err := svc.GetByID(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PasswordMask, u.Password)
	assert.Equal(t, []string{"ev-9"}, u.CreatedEvents)

	_, err = svc.GetByID(context.Background(), "user-404")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
