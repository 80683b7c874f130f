package http

import (
	"log/slog"
	"net/http"
	"strings"

	graphqlgo "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"

	h "eventgraph/internal/delivery/http/helpers"
	"eventgraph/internal/delivery/http/middleware"
	"eventgraph/internal/metrics"
)

// GraphQLHandler executes GraphQL operations against the eventgraph schema.
type GraphQLHandler struct {
	schema   *graphqlgo.Schema
	graphiql bool
	logger   *slog.Logger
}

// NewGraphQLHandler returns the /graphql endpoint. With graphiql set, a browser
// GET without a query receives the GraphiQL IDE.
func NewGraphQLHandler(schema *graphqlgo.Schema, graphiql bool, logger *slog.Logger) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, graphiql: graphiql, logger: logger}
}

// ServeHTTP godoc
// @Summary Execute a GraphQL operation
// @Description Runs a query or mutation against the events/users schema. The body may be JSON, form-encoded or application/graphql; GET takes query, operationName and variables from the query string. An optional Bearer token sets the owner of created events.
// @Tags graphql
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GraphQLRequest true "GraphQL operation"
// @Success 200 {object} helpers.APIResponse "data holds the operation result"
// @Failure 400 {object} helpers.APIResponse "malformed request, syntax or validation error"
// @Failure 401 {object} helpers.APIResponse "no caller identity or invalid token"
// @Failure 404 {object} helpers.APIResponse "referenced user not found"
// @Failure 405 {object} helpers.APIResponse "mutation sent with GET"
// @Failure 409 {object} helpers.APIResponse "Email already exists"
// @Failure 500 {object} helpers.APIResponse "internal error"
// @Router /graphql [post]
func (g *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		h.WriteJSONError(w, http.StatusMethodNotAllowed, "GraphQL only supports GET and POST requests.")
		return
	}

	req, err := decodeGraphQLRequest(w, r)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		if r.Method == http.MethodGet && g.graphiql && acceptsHTML(r) {
			serveGraphiQL(w)
			return
		}
		h.WriteJSONError(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}

	ctx := r.Context()
	if r.Method == http.MethodGet {
		ctx = middleware.WithReadOnly(ctx)
	}
	ctx, op := metrics.TrackOperation(ctx)

	resp := g.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		qe := resp.Errors[0]
		op.Observe(qe)
		status, message := errorResponse(qe)
		if status >= http.StatusInternalServerError {
			g.logger.ErrorContext(ctx, "graphql operation failed", "operation", req.OperationName, "error", qe.Error())
		}
		if status == http.StatusMethodNotAllowed {
			w.Header().Set("Allow", http.MethodPost)
		}
		h.WriteJSONError(w, status, message)
		return
	}
	op.Observe(nil)
	h.WriteJSONSuccess(w, http.StatusOK, resp.Data)
}

// errorResponse maps the first operation error to a status and client message.
// Errors raised by resolvers, recovered panics included, keep their domain
// status; parse and validation errors are the client's fault. Internal
// failures are reported without detail.
func errorResponse(qe *gqlerrors.QueryError) (int, string) {
	if qe.ResolverError == nil {
		return http.StatusBadRequest, qe.Message
	}
	status := h.StatusFor(qe.ResolverError)
	if status == http.StatusInternalServerError {
		return status, http.StatusText(status)
	}
	return status, qe.ResolverError.Error()
}

func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
