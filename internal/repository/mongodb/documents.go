package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventgraph/internal/domain"
)

const (
	eventsCollection = "events"
	usersCollection  = "users"
)

type eventDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Date        time.Time          `bson:"date"`
	Creator     primitive.ObjectID `bson:"creator"`
}

func (d *eventDocument) toDomain() *domain.Event {
	return &domain.Event{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Date:        d.Date.UTC(),
		CreatorID:   d.Creator.Hex(),
	}
}

type userDocument struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Email         string               `bson:"email"`
	Name          string               `bson:"name"`
	Password      string               `bson:"password"`
	Salt          string               `bson:"salt"`
	CreatedEvents []primitive.ObjectID `bson:"createdEvents"`
	CreatedAt     time.Time            `bson:"createdAt"`
}

func (d *userDocument) toDomain() *domain.User {
	created := make([]string, 0, len(d.CreatedEvents))
	for _, id := range d.CreatedEvents {
		created = append(created, id.Hex())
	}
	return &domain.User{
		ID:            d.ID.Hex(),
		Email:         d.Email,
		Name:          d.Name,
		Password:      d.Password,
		Salt:          d.Salt,
		CreatedEvents: created,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

// objectIDs converts hex ids, skipping any that are malformed.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}
