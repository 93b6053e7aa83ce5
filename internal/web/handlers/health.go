package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const healthTimeout = 2 * time.Second

type healthData struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
}

// Health handles GET /healthz by pinging the storage provider
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("provider", h.pinger.Name()).Msg("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, envelope{
			Error: "Storage unavailable",
			Data:  healthData{Status: "unavailable", Provider: h.pinger.Name()},
		})
		return
	}

	jsonData(w, http.StatusOK, healthData{Status: "ok", Provider: h.pinger.Name()})
}
