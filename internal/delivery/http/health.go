package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	h "eventgraph/internal/delivery/http/helpers"
	"eventgraph/internal/domain"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports whether the store answers a ping.
// @Summary Health check
// @Tags ops
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status is ok"
// @Failure 503 {object} helpers.APIResponse "store unavailable"
// @Router /healthz [get]
func HealthHandler(store domain.Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "health check failed", "error", err)
			h.WriteJSONError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
