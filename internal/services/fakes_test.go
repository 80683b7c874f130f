package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"eventgraph/internal/domain"
)

// fakeStore is an in-memory event and user store whose WithinTx restores the
// previous state when the unit fails.
type fakeStore struct {
	mu        sync.Mutex
	events    []*domain.Event
	users     map[string]*domain.User
	order     []string
	nextID    int
	createErr error // if set, event Create returns this error
	listErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeStore) id(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, f.nextID)
	f.nextID++
	return id
}

func (f *fakeStore) addUser(u *domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		u.ID = f.id("user")
	}
	if u.CreatedEvents == nil {
		u.CreatedEvents = []string{}
	}
	f.users[u.ID] = u
	f.order = append(f.order, u.ID)
	return u
}

func (f *fakeStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	events := append([]*domain.Event(nil), f.events...)
	links := make(map[string][]string, len(f.users))
	for id, u := range f.users {
		links[id] = append([]string(nil), u.CreatedEvents...)
	}
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.events = events
		for id, u := range f.users {
			u.CreatedEvents = links[id]
		}
		f.mu.Unlock()
		return err
	}
	return nil
}

type fakeEventRepo struct{ *fakeStore }

func (f fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if e.Title == "" {
		return domain.NewValidationError("Event", "title", "required")
	}
	e.ID = f.id("ev")
	f.events = append(f.events, e)
	return nil
}

func (f fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*domain.Event(nil), f.events...), nil
}

func (f fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f fakeEventRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Event
	for _, id := range ids {
		for _, e := range f.events {
			if e.ID == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

type fakeUserRepo struct{ *fakeStore }

func (f fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			f.mu.Unlock()
			return domain.ErrDuplicateEmail
		}
	}
	f.mu.Unlock()
	f.addUser(u)
	return nil
}

func (f fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.User, 0, len(f.order))
	for _, id := range f.order {
		cp := *f.users[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (f fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f fakeUserRepo) AppendCreatedEvent(ctx context.Context, userID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.CreatedEvents = append(u.CreatedEvents, eventID)
	return nil
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}
func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+"-"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeEmailService records welcome messages on a channel.
type fakeEmailService struct {
	sent chan *domain.WelcomeMessageEmailData
	err  error
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{sent: make(chan *domain.WelcomeMessageEmailData, 4)}
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	f.sent <- data
	return f.err
}
