package graphql

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgraph/internal/delivery/http/middleware"
	"eventgraph/internal/domain"
	"eventgraph/internal/metrics"
)

const defaultOwner = "owner-1"

type fakeEventService struct {
	events      []*domain.Event
	createErr   error
	lastCreator string
	lastInput   domain.EventInput
	panicOnList bool
}

func (f *fakeEventService) CreateEvent(ctx context.Context, creatorID string, in domain.EventInput) (*domain.Event, error) {
	f.lastCreator, f.lastInput = creatorID, in
	if f.createErr != nil {
		return nil, f.createErr
	}
	if creatorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	price, err := strconv.ParseFloat(in.Price, 64)
	if err != nil {
		return nil, domain.NewValidationError("Event", "price", "number")
	}
	e := &domain.Event{
		ID:          "ev-" + strconv.Itoa(len(f.events)+1),
		Title:       in.Title,
		Description: in.Description,
		Price:       price,
		Date:        time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatorID:   creatorID,
	}
	f.events = append(f.events, e)
	return e, nil
}

func (f *fakeEventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	if f.panicOnList {
		panic("list exploded")
	}
	return f.events, nil
}

func (f *fakeEventService) ListByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	out := []*domain.Event{}
	for _, id := range ids {
		for _, e := range f.events {
			if e.ID == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

type fakeUserService struct {
	users     map[string]*domain.User
	createErr error
	created   int
}

func (f *fakeUserService) CreateUser(ctx context.Context, email, name, password string) (*domain.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	return &domain.User{ID: "user-new", Email: email, Name: name, CreatedEvents: []string{}}, nil
}

func (f *fakeUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, id := range []string{defaultOwner, "owner-2"} {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

type fixture struct {
	events *fakeEventService
	users  *fakeUserService
	schema *graphqlgo.Schema
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	events := &fakeEventService{}
	users := &fakeUserService{users: map[string]*domain.User{
		defaultOwner: {ID: defaultOwner, Email: "owner@x.com", Name: "Owner", Password: domain.PasswordMask},
		"owner-2":    {ID: "owner-2", Email: "two@x.com", Name: "Two", Password: domain.PasswordMask},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	schema, err := NewSchema(NewResolver(events, users, defaultOwner, logger), logger)
	require.NoError(t, err)
	return &fixture{events: events, users: users, schema: schema}
}

func (f *fixture) exec(ctx context.Context, t *testing.T, query string, vars map[string]interface{}) *graphqlgo.Response {
	t.Helper()
	return f.schema.Exec(ctx, query, "", vars)
}

const createSailing = `mutation {
  createEvent(eventInput: {title: "Sailing", description: "Boats", price: "19.99", date: "2020-01-01"}) {
    title description price date creator { id }
  }
}`

func TestCreateEvent_sailing(t *testing.T) {
	f := newFixture(t)

	resp := f.exec(context.Background(), t, createSailing, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"createEvent":{"title":"Sailing","description":"Boats","price":19.99,"date":"2020-01-01T00:00:00Z","creator":{"id":"owner-1"}}}`, string(resp.Data))
	assert.Equal(t, defaultOwner, f.events.lastCreator)
	assert.Equal(t, "19.99", f.events.lastInput.Price)
}

func TestCreateEvent_numeric_price_forms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		vars  map[string]interface{}
		want  string
	}{
		{"float literal", `mutation { createEvent(eventInput: {title: "A", description: "B", price: 19.99, date: "2020-01-01"}) { id } }`, nil, "19.99"},
		{"int literal", `mutation { createEvent(eventInput: {title: "A", description: "B", price: 20, date: "2020-01-01"}) { id } }`, nil, "20"},
		{
			"number variable",
			`mutation ($in: EventInput!) { createEvent(eventInput: $in) { id } }`,
			map[string]interface{}{"in": map[string]interface{}{"title": "A", "description": "B", "price": 7.5, "date": "2020-01-01"}},
			"7.5",
		},
		{
			"string variable",
			`mutation ($in: EventInput!) { createEvent(eventInput: $in) { id } }`,
			map[string]interface{}{"in": map[string]interface{}{"title": "A", "description": "B", "price": "3", "date": "2020-01-01"}},
			"3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			resp := f.exec(context.Background(), t, tt.query, tt.vars)
			require.Empty(t, resp.Errors)
			assert.Equal(t, tt.want, f.events.lastInput.Price)
		})
	}
}

func TestCreateEvent_uses_caller_identity(t *testing.T) {
	f := newFixture(t)
	ctx := middleware.SetUserID(context.Background(), "owner-2")

	resp := f.exec(ctx, t, createSailing, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, "owner-2", f.events.lastCreator)
	assert.Contains(t, string(resp.Data), `"creator":{"id":"owner-2"}`)
}

func TestCreateEvent_resolver_error(t *testing.T) {
	f := newFixture(t)
	f.events.createErr = domain.ErrUserNotFound

	resp := f.exec(context.Background(), t, createSailing, nil)
	require.Len(t, resp.Errors, 1)
	assert.ErrorIs(t, resp.Errors[0].ResolverError, domain.ErrUserNotFound)
	assert.Equal(t, "user not found", resp.Errors[0].Message)
}

func TestCreateEvent_rejects_bad_scalar(t *testing.T) {
	f := newFixture(t)
	resp := f.exec(context.Background(), t, `mutation { createEvent(eventInput: {title: "A", description: "B", price: true, date: "2020-01-01"}) { id } }`, nil)
	require.NotEmpty(t, resp.Errors)
	assert.Nil(t, resp.Errors[0].ResolverError)
}

func TestCreateUser_password_is_null(t *testing.T) {
	f := newFixture(t)
	resp := f.exec(context.Background(), t, `mutation {
  createUser(userInput: {email: "a@x.com", name: "A", password: "pw"}) { id email name password createdEvents { id } }
}`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"createUser":{"id":"user-new","email":"a@x.com","name":"A","password":null,"createdEvents":[]}}`, string(resp.Data))
}

func TestCreateUser_duplicate(t *testing.T) {
	f := newFixture(t)
	f.users.createErr = domain.ErrDuplicateEmail
	resp := f.exec(context.Background(), t, `mutation { createUser(userInput: {email: "a@x.com", name: "A", password: "pw"}) { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Email already exists", resp.Errors[0].Message)
}

func TestUsers_masks_password_and_resolves_events(t *testing.T) {
	f := newFixture(t)
	resp := f.exec(context.Background(), t, createSailing, nil)
	require.Empty(t, resp.Errors)
	f.users.users[defaultOwner].CreatedEvents = []string{"ev-1"}

	resp = f.exec(context.Background(), t, `{ users { email password createdEvents { title creator { email } } } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"users":[
		{"email":"owner@x.com","password":"********","createdEvents":[{"title":"Sailing","creator":{"email":"owner@x.com"}}]},
		{"email":"two@x.com","password":"********","createdEvents":[]}
	]}`, string(resp.Data))
}

func TestEvents_dangling_creator_is_null(t *testing.T) {
	f := newFixture(t)
	f.events.events = []*domain.Event{{ID: "ev-9", Title: "Orphan", Description: "d", Date: time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC), CreatorID: "gone"}}

	resp := f.exec(context.Background(), t, `{ events { id title price date creator { id } } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"events":[{"id":"ev-9","title":"Orphan","price":0,"date":"2021-03-04T05:06:07Z","creator":null}]}`, string(resp.Data))
}

func TestNumeric_UnmarshalGraphQL(t *testing.T) {
	tests := []struct {
		in      interface{}
		want    string
		wantErr bool
	}{
		{in: "19.99", want: "19.99"},
		{in: 19.99, want: "19.99"},
		{in: int32(20), want: "20"},
		{in: int64(21), want: "21"},
		{in: true, wantErr: true},
		{in: nil, wantErr: true},
	}
	for _, tt := range tests {
		var n Numeric
		err := n.UnmarshalGraphQL(tt.in)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, n.String())
	}
}

func TestMutations_refused_on_read_only_requests(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"createEvent", createSailing},
		{"createUser", `mutation { createUser(userInput: {email: "a@x.com", name: "A", password: "pw"}) { id } }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := middleware.WithReadOnly(middleware.SetUserID(context.Background(), "owner-2"))

			resp := f.exec(ctx, t, tt.query, nil)
			require.NotEmpty(t, resp.Errors)
			assert.ErrorIs(t, resp.Errors[0].ResolverError, domain.ErrMutationNotAllowed)
			assert.Empty(t, f.events.lastCreator)
			assert.Zero(t, f.users.created)
		})
	}
}

func TestQueries_allowed_on_read_only_requests(t *testing.T) {
	f := newFixture(t)
	resp := f.exec(middleware.WithReadOnly(context.Background()), t, `{ users { id } }`, nil)
	require.Empty(t, resp.Errors)
}

func TestSchema_records_root_fields(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"single query", `{ events { id creator { name } } }`, "events"},
		{"single mutation", `mutation { createUser(userInput: {email: "a@x.com", name: "A", password: "pw"}) { id } }`, "createUser"},
		{"two root fields", `{ events { id } users { id } }`, metrics.OperationOther},
		{"validation failure", `{ nope }`, metrics.OperationInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx, op := metrics.TrackOperation(context.Background())
			f.exec(ctx, t, tt.query, nil)
			assert.Equal(t, tt.want, op.Label())
		})
	}
}

func TestSchema_panic_is_reported_as_internal_error(t *testing.T) {
	f := newFixture(t)
	f.events.panicOnList = true

	resp := f.exec(context.Background(), t, `{ events { id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.ErrorIs(t, resp.Errors[0].ResolverError, ErrResolverPanic)
	assert.NotContains(t, resp.Errors[0].Message, "list exploded")
}
