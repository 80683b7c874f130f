package domain

import (
	"context"
	"time"
)

// Event represents a scheduled event owned by the user who created it
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Price       float64   `json:"price"`
	Date        time.Time `json:"date" validate:"required"`
	CreatorID   string    `json:"creator" validate:"required"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(title, description string, price float64, date time.Time, creatorID string) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Price:       price,
		Date:        date,
		CreatorID:   creatorID,
	}
}

// EventInput is the uncoerced input of an event creation request.
type EventInput struct {
	Title       string
	Description string
	Price       string
	Date        string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	// Create inserts e and sets e.ID.
	Create(ctx context.Context, e *Event) error
	List(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	// ListByIDs returns the events with the given ids in the order of ids.
	// Unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]*Event, error)
}

// EventService defines the business logic for events.
type EventService interface {
	// CreateEvent stores an event owned by creatorID and links it to the owner.
	CreateEvent(ctx context.Context, creatorID string, in EventInput) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Event, error)
}
