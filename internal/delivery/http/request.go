package http

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// maxBodyBytes bounds a GraphQL request body.
const maxBodyBytes = 1 << 20

// GraphQLRequest is the body of a GraphQL operation.
// swagger:model GraphQLRequest
type GraphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Extensions    map[string]any `json:"extensions"`
}

// Validate returns a slice of error messages; nil or empty means valid.
func (req *GraphQLRequest) Validate() []string {
	if strings.TrimSpace(req.Query) == "" {
		return []string{"Must provide query string."}
	}
	return nil
}

// decodeGraphQLRequest reads an operation from the query string (GET) or from a
// JSON, form-encoded or application/graphql body (POST).
func decodeGraphQLRequest(w http.ResponseWriter, r *http.Request) (*GraphQLRequest, error) {
	if r.Method == http.MethodGet {
		return fromValues(r.URL.Query())
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("invalid content type: %w", err)
		}
		mediaType = mt
	}

	switch mediaType {
	case "application/json":
		var req GraphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("POST body sent invalid JSON: %w", err)
		}
		return &req, nil
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
		return fromValues(r.PostForm)
	case "application/graphql":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		req := &GraphQLRequest{Query: string(body)}
		if err := mergeValues(req, r.URL.Query()); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, fmt.Errorf("unsupported content type %q", mediaType)
	}
}

func fromValues(v url.Values) (*GraphQLRequest, error) {
	req := &GraphQLRequest{Query: v.Get("query")}
	if err := mergeValues(req, v); err != nil {
		return nil, err
	}
	return req, nil
}

func mergeValues(req *GraphQLRequest, v url.Values) error {
	if name := v.Get("operationName"); name != "" {
		req.OperationName = name
	}
	if raw := v.Get("variables"); raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			return fmt.Errorf("variables are invalid JSON: %w", err)
		}
	}
	return nil
}
