package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"eventgraph/internal/domain"
	"eventgraph/internal/metrics"
	"eventgraph/internal/telemetry"
)

const tracerName = "eventgraph/internal/services"

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	tx             domain.TransactionManager
	contextTimeout time.Duration
	now            func() time.Time
}

// NewEventService returns an EventService that stores events and their owner
// links through tx.
func NewEventService(eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	tx domain.TransactionManager,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		tx:             tx,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, creatorID string, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ctx, span := telemetry.Tracer(tracerName).Start(ctx, "EventService.CreateEvent")
	defer span.End()

	event, err := s.createEvent(ctx, creatorID, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("event.id", event.ID), attribute.String("event.creator", creatorID))
	metrics.EventsCreated.Inc()
	return event, nil
}

func (s *eventService) createEvent(ctx context.Context, creatorID string, in domain.EventInput) (*domain.Event, error) {
	if creatorID == "" {
		return nil, domain.ErrUnauthenticated
	}
	price, err := ParsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	date, err := ParseDate(in.Date, s.now())
	if err != nil {
		return nil, err
	}

	event := domain.NewEvent(in.Title, in.Description, price, date, creatorID)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.eventRepo.Create(ctx, event); err != nil {
			return err
		}
		return s.userRepo.AppendCreatedEvent(ctx, creatorID, event.ID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) ListByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return []*domain.Event{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list events by id: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}
