package middleware

import (
	"context"

	"eventgraph/internal/domain"
)

const readOnlyKey contextKey = "readOnly"

// WithReadOnly marks ctx as serving a request that must not change state.
func WithReadOnly(ctx context.Context) context.Context {
	return context.WithValue(ctx, readOnlyKey, true)
}

// RequireWritable returns domain.ErrMutationNotAllowed when ctx was marked
// read-only. Mutation resolvers call it before doing any work.
func RequireWritable(ctx context.Context) error {
	if readOnly, _ := ctx.Value(readOnlyKey).(bool); readOnly {
		return domain.ErrMutationNotAllowed
	}
	return nil
}
