package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventgraph/internal/domain"
)

const eventColumns = `id, title, description, price, date, creator_id`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if !isUUID(e.CreatorID) {
		return domain.ErrUserNotFound
	}
	query := `
		INSERT INTO events (title, description, price, date, creator_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, e.Title, e.Description, e.Price, e.Date, e.CreatorID).Scan(&e.ID)
	if isPQCode(err, pqForeignKeyViolation) {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at, id`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e := &domain.Event{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Title, &e.Description, &e.Price, &e.Date, &e.CreatorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return []*domain.Event{}, nil
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ANY($1)`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	found, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Event, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}
	events := make([]*domain.Event, 0, len(ids))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			events = append(events, e)
		}
	}
	return events, nil
}

func scanEvents(rows *sql.Rows) ([]*domain.Event, error) {
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Price, &e.Date, &e.CreatorID); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
