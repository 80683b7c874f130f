package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgraph/config"
	"eventgraph/internal/adapters/auth"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func testConfig() *config.Config {
	return &config.Config{
		StoreDriver:        config.StoreMongo,
		BcryptCost:         4,
		RequestTimeout:     time.Second,
		CORSAllowedOrigins: []string{"*"},
		JWTSecret:          "secret",
		Email:              config.EmailConfig{Provider: "noop"},
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = "1.2.3"

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    1.2.3")
	assert.Contains(t, out, "Go version:")
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "dev-secret")

	out, err := execute(t, "token", "--user", "user-1", "--ttl", "1h")
	require.NoError(t, err)

	userID, err := auth.NewJWTVerifier("dev-secret").Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenCommand_requiresSecret(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := execute(t, "token", "--user", "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestMigrateDown_rejectsMongo(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := execute(t, "migrate", "down")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only supported")
}

func TestBuildHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		pingErr    error
		path       string
		wantStatus int
	}{
		{name: "healthy", path: "/healthz", wantStatus: http.StatusOK},
		{name: "store down", pingErr: errors.New("down"), path: "/healthz", wantStatus: http.StatusServiceUnavailable},
		{name: "unknown route", path: "/nope", wantStatus: http.StatusNotFound},
		{name: "empty graphql query", path: "/graphql?query=", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := buildHandler(testConfig(), &backend{Pinger: stubPinger{err: tt.pingErr}}, logger)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Accept", "application/json")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestBuildHandler_rejectsBadBearer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler, err := buildHandler(testConfig(), &backend{Pinger: stubPinger{}}, logger)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ events { id } }"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestBuildHandler_refusesMutationOverGET(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler, err := buildHandler(testConfig(), &backend{Pinger: stubPinger{}}, logger)
	require.NoError(t, err)

	q := url.Values{"query": {`mutation { createUser(userInput: {email: "a@x.com", name: "A", password: "pw"}) { id } }`}}
	req := httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodPost, rr.Header().Get("Allow"))
	assert.JSONEq(t, `{"error":{"message":"Can only perform a mutation operation from a POST request.","id":405}}`, rr.Body.String())
}
