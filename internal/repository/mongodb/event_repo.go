package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"eventgraph/internal/domain"
)

type eventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) domain.EventRepository {
	return &eventRepository{coll: db.Collection(eventsCollection)}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	creator, err := primitive.ObjectIDFromHex(e.CreatorID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	doc := eventDocument{
		Title:       e.Title,
		Description: e.Description,
		Price:       e.Price,
		Date:        e.Date,
		Creator:     creator,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert event: unexpected id type %T", res.InsertedID)
	}
	e.ID = id.Hex()
	addCompensation(ctx, func(ctx context.Context) error {
		_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
		return err
	})
	return nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	return r.find(ctx, bson.D{})
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var doc eventDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *eventRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Event{}, nil
	}
	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Event, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}
	events := make([]*domain.Event, 0, len(oids))
	for _, oid := range oids {
		if e, ok := byID[oid.Hex()]; ok {
			events = append(events, e)
		}
	}
	return events, nil
}

func (r *eventRepository) find(ctx context.Context, filter any) ([]*domain.Event, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	var docs []eventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	events := make([]*domain.Event, 0, len(docs))
	for i := range docs {
		events = append(events, docs[i].toDomain())
	}
	return events, nil
}
