package domain

import "context"

// TransactionManager runs fn so that every repository write made with the
// context it receives is applied together or not at all.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
