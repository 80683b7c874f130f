package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"eventgraph/internal/domain"
	"eventgraph/internal/metrics"
	"eventgraph/internal/telemetry"
)

// welcomeTimeout bounds the detached welcome mail send.
const welcomeTimeout = 30 * time.Second

type userService struct {
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewUserService creates a UserService. emailService may be nil, in which
// case no welcome message is sent.
func NewUserService(userRepo domain.UserRepository, emailService domain.EmailService, logger *slog.Logger, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// CreateUser registers a user. The returned copy carries no password material.
func (s *userService) CreateUser(ctx context.Context, email, name, password string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ctx, span := telemetry.Tracer(tracerName).Start(ctx, "UserService.CreateUser")
	defer span.End()

	user, err := s.createUser(ctx, email, name, password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", user.ID))
	metrics.UsersCreated.Inc()
	s.sendWelcome(ctx, user)

	out := *user
	out.Password = ""
	out.Salt = ""
	return &out, nil
}

func (s *userService) createUser(ctx context.Context, email, name, password string) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrDuplicateEmail
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user := domain.NewUser(email, name, password, s.now().UTC())
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// sendWelcome mails the new user in the background. Failures are only logged.
func (s *userService) sendWelcome(ctx context.Context, user *domain.User) {
	if s.emailService == nil {
		return
	}
	data := &domain.WelcomeMessageEmailData{Email: user.Email, Name: user.Name, UserID: user.ID}
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, welcomeTimeout)
		defer cancel()
		if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
			metrics.WelcomeEmailFailures.Inc()
			s.logger.WarnContext(ctx, "welcome email failed", "user_id", data.UserID, "error", err)
		}
	}()
}

func (s *userService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, masked(u))
	}
	return out, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return masked(user), nil
}

// masked returns a copy of u with the stored hash replaced by the placeholder.
func masked(u *domain.User) *domain.User {
	out := *u
	out.Password = domain.PasswordMask
	out.Salt = ""
	if out.CreatedEvents == nil {
		out.CreatedEvents = []string{}
	}
	return &out
}
