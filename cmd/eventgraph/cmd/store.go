package cmd

import (
	"context"
	"fmt"

	"eventgraph/config"
	"eventgraph/internal/domain"
	"eventgraph/internal/repository/mongodb"
	"eventgraph/internal/repository/postgres"
)

// backend is the store selected by STORE_DRIVER.
type backend struct {
	Events domain.EventRepository
	Users  domain.UserRepository
	Tx     domain.TransactionManager
	Pinger domain.Pinger
	Close  func(context.Context) error
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		s := postgres.NewStore(db)
		return &backend{Events: s.Events, Users: s.Users, Tx: s.Tx, Pinger: s, Close: s.Close}, nil
	case config.StoreMongo:
		client, err := mongodb.Connect(ctx, cfg.Mongo.ConnectionURI())
		if err != nil {
			return nil, err
		}
		s := mongodb.NewStore(client, cfg.Mongo.Database, cfg.Mongo.Transactions)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return &backend{Events: s.Events, Users: s.Users, Tx: s.Tx, Pinger: s, Close: s.Close}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
