package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	h "eventgraph/internal/delivery/http/helpers"
	"eventgraph/internal/delivery/http/middleware"
	"eventgraph/internal/metrics"
)

// RouterConfig carries the handlers and settings the router is built from.
type RouterConfig struct {
	GraphQL        http.Handler
	Health         http.Handler
	Identify       func(http.Handler) http.Handler // nil disables bearer identity
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter initializes the HTTP router with all application routes and the
// middleware chain shared by every request.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	graphql := cfg.GraphQL
	if cfg.Identify != nil {
		graphql = cfg.Identify(graphql)
	}
	mux.Handle("/graphql", graphql)

	// Ops
	mux.Handle("GET /healthz", cfg.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	mux.HandleFunc("/", NotFound)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	handler = middleware.Tracing(handler)
	handler = middleware.RequestID(handler)
	return handler
}

// NotFound answers every unmatched route.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	h.WriteJSONError(w, http.StatusNotFound, h.MessageNotFound)
}
