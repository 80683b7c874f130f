// Package mongodb implements the entity stores on MongoDB collections.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"eventgraph/internal/domain"
)

// Store bundles the Mongo-backed repositories over one client.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
	Events domain.EventRepository
	Users  domain.UserRepository
	Tx     domain.TransactionManager
}

// Connect dials uri and waits for the primary to answer.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// NewStore wires the repositories on database dbName. With transactions set,
// WithinTx uses multi-document transactions, which need a replica set;
// otherwise failed units are undone with compensating deletes.
func NewStore(client *mongo.Client, dbName string, transactions bool) *Store {
	db := client.Database(dbName)
	return &Store{
		Client: client,
		DB:     db,
		Events: NewEventRepository(db),
		Users:  NewUserRepository(db),
		Tx:     NewTransactionManager(client, transactions),
	}
}

// EnsureIndexes creates the unique email index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.DB.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

// Ping implements domain.Pinger.
func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

type compensationsKey struct{}

// compensations collects undo actions registered by writes inside WithinTx.
type compensations struct {
	mu   sync.Mutex
	undo []func(context.Context) error
}

func (c *compensations) add(fn func(context.Context) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.undo = append(c.undo, fn)
}

// run applies the undo actions newest first.
func (c *compensations) run(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for i := len(c.undo) - 1; i >= 0; i-- {
		if err := c.undo[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.undo = nil
	return errors.Join(errs...)
}

func addCompensation(ctx context.Context, fn func(context.Context) error) {
	if c, ok := ctx.Value(compensationsKey{}).(*compensations); ok {
		c.add(fn)
	}
}

type transactionManager struct {
	client       *mongo.Client
	transactions bool
}

// NewTransactionManager returns a TransactionManager for client.
func NewTransactionManager(client *mongo.Client, transactions bool) domain.TransactionManager {
	return &transactionManager{client: client, transactions: transactions}
}

func (m *transactionManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.transactions {
		return m.withSession(ctx, fn)
	}
	if _, ok := ctx.Value(compensationsKey{}).(*compensations); ok {
		return fn(ctx)
	}
	c := &compensations{}
	err := fn(context.WithValue(ctx, compensationsKey{}, c))
	if err == nil {
		return nil
	}
	if undoErr := c.run(context.WithoutCancel(ctx)); undoErr != nil {
		return errors.Join(err, fmt.Errorf("compensate: %w", undoErr))
	}
	return err
}

func (m *transactionManager) withSession(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}
