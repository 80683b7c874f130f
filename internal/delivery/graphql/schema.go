// Package graphql binds the eventgraph schema to the event and user services.
package graphql

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	graphqlgo "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/graph-gophers/graphql-go/introspection"
	"github.com/graph-gophers/graphql-go/trace/tracer"

	"eventgraph/internal/metrics"
)

//go:embed schema.graphql
var schemaSDL string

const maxDepth = 8

// ErrResolverPanic is the resolver error attached to fields whose resolver panicked.
var ErrResolverPanic = errors.New("resolver panic")

// NewSchema parses the embedded SDL against r.
func NewSchema(r *Resolver, logger *slog.Logger) (*graphqlgo.Schema, error) {
	schema, err := graphqlgo.ParseSchema(schemaSDL, r, Options(logger)...)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return schema, nil
}

// Options are the executor settings every eventgraph schema runs with: a depth
// limit, panic logging and classification, and root field tracking for metrics.
func Options(logger *slog.Logger) []graphqlgo.SchemaOpt {
	return []graphqlgo.SchemaOpt{
		graphqlgo.MaxDepth(maxDepth),
		graphqlgo.Logger(panicLogger{logger: logger}),
		graphqlgo.PanicHandler(panicHandler{}),
		graphqlgo.Tracer(rootFieldTracer{}),
	}
}

// panicLogger reports resolver panics recovered by the executor.
type panicLogger struct {
	logger *slog.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.logger.ErrorContext(ctx, "graphql resolver panic", "panic", fmt.Sprint(value))
}

// panicHandler turns a recovered panic into a field error carrying
// ErrResolverPanic, so it is reported as an internal failure.
type panicHandler struct{}

func (panicHandler) MakePanicError(_ context.Context, _ interface{}) *gqlerrors.QueryError {
	return &gqlerrors.QueryError{
		Message:       "internal error",
		Err:           ErrResolverPanic,
		ResolverError: ErrResolverPanic,
	}
}

// rootFieldTracer records the root fields an operation resolves.
type rootFieldTracer struct{}

func (rootFieldTracer) TraceQuery(ctx context.Context, _ string, _ string, _ map[string]interface{}, _ map[string]*introspection.Type) (context.Context, tracer.QueryFinishFunc) {
	return ctx, func([]*gqlerrors.QueryError) {}
}

func (rootFieldTracer) TraceField(ctx context.Context, _, typeName, fieldName string, _ bool, _ map[string]interface{}) (context.Context, tracer.FieldFinishFunc) {
	if typeName == "Query" || typeName == "Mutation" {
		metrics.RecordRootField(ctx, fieldName)
	}
	return ctx, func(*gqlerrors.QueryError) {}
}
