package graphql

import (
	"context"
	"log/slog"

	"eventgraph/internal/delivery/http/middleware"
	"eventgraph/internal/domain"
)

// Resolver is the root resolver for Query and Mutation.
type Resolver struct {
	events           domain.EventService
	users            domain.UserService
	defaultCreatorID string
	logger           *slog.Logger
}

// NewResolver returns the root resolver. Events created by callers without a
// verified identity are owned by defaultCreatorID; when that is empty such
// calls fail with domain.ErrUnauthenticated.
func NewResolver(events domain.EventService, users domain.UserService, defaultCreatorID string, logger *slog.Logger) *Resolver {
	return &Resolver{
		events:           events,
		users:            users,
		defaultCreatorID: defaultCreatorID,
		logger:           logger,
	}
}

func (r *Resolver) Events(ctx context.Context) ([]*eventResolver, error) {
	events, err := r.events.ListEvents(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "list events failed", "error", err)
		return nil, err
	}
	return r.eventResolvers(events), nil
}

func (r *Resolver) Users(ctx context.Context) ([]*userResolver, error) {
	users, err := r.users.ListUsers(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "list users failed", "error", err)
		return nil, err
	}
	out := make([]*userResolver, 0, len(users))
	for _, u := range users {
		out = append(out, &userResolver{u: u, root: r})
	}
	return out, nil
}

type eventInput struct {
	Title       string
	Description string
	Price       Numeric
	Date        string
}

func (r *Resolver) CreateEvent(ctx context.Context, args struct{ EventInput eventInput }) (*eventResolver, error) {
	if err := middleware.RequireWritable(ctx); err != nil {
		return nil, err
	}
	in := domain.EventInput{
		Title:       args.EventInput.Title,
		Description: args.EventInput.Description,
		Price:       args.EventInput.Price.String(),
		Date:        args.EventInput.Date,
	}
	event, err := r.events.CreateEvent(ctx, r.creatorID(ctx), in)
	if err != nil {
		r.logger.ErrorContext(ctx, "create event failed", "title", in.Title, "error", err)
		return nil, err
	}
	return &eventResolver{e: event, root: r}, nil
}

type userInput struct {
	Email    string
	Name     string
	Password string
}

func (r *Resolver) CreateUser(ctx context.Context, args struct{ UserInput userInput }) (*userResolver, error) {
	if err := middleware.RequireWritable(ctx); err != nil {
		return nil, err
	}
	user, err := r.users.CreateUser(ctx, args.UserInput.Email, args.UserInput.Name, args.UserInput.Password)
	if err != nil {
		r.logger.ErrorContext(ctx, "create user failed", "error", err)
		return nil, err
	}
	return &userResolver{u: user, root: r, hidePassword: true}, nil
}

func (r *Resolver) creatorID(ctx context.Context) string {
	if id, ok := middleware.UserIDFromContext(ctx); ok {
		return id
	}
	return r.defaultCreatorID
}

func (r *Resolver) eventResolvers(events []*domain.Event) []*eventResolver {
	out := make([]*eventResolver, 0, len(events))
	for _, e := range events {
		out = append(out, &eventResolver{e: e, root: r})
	}
	return out
}
