package graphql

import (
	"context"
	"errors"
	"time"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"eventgraph/internal/domain"
)

type eventResolver struct {
	e    *domain.Event
	root *Resolver
}

func (r *eventResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.e.ID) }
func (r *eventResolver) Title() string { return r.e.Title }
func (r *eventResolver) Description() string { return r.e.Description }
func (r *eventResolver) Price() float64 { return r.e.Price }
func (r *eventResolver) Date() string { return r.e.Date.UTC().Format(time.RFC3339) }

// Creator resolves the owning user, or null when the reference is dangling.
func (r *eventResolver) Creator(ctx context.Context) (*userResolver, error) {
	if r.e.CreatorID == "" {
		return nil, nil
	}
	u, err := r.root.users.GetByID(ctx, r.e.CreatorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		r.root.logger.ErrorContext(ctx, "resolve event creator failed", "event_id", r.e.ID, "error", err)
		return nil, err
	}
	return &userResolver{u: u, root: r.root}, nil
}

type userResolver struct {
	u            *domain.User
	root         *Resolver
	hidePassword bool
}

func (r *userResolver) ID() graphqlgo.ID { return graphqlgo.ID(r.u.ID) }
func (r *userResolver) Email() string { return r.u.Email }
func (r *userResolver) Name() string { return r.u.Name }

func (r *userResolver) Password() *string {
	if r.hidePassword || r.u.Password == "" {
		return nil
	}
	masked := domain.PasswordMask
	return &masked
}

// CreatedEvents resolves the user's events in creation order.
func (r *userResolver) CreatedEvents(ctx context.Context) ([]*eventResolver, error) {
	events, err := r.root.events.ListByIDs(ctx, r.u.CreatedEvents)
	if err != nil {
		r.root.logger.ErrorContext(ctx, "resolve created events failed", "user_id", r.u.ID, "error", err)
		return nil, err
	}
	return r.root.eventResolvers(events), nil
}
