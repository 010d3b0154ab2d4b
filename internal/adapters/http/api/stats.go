package api

import (
	"context"
	"net/http"
	"time"
)

// StatsProvider reports service counters for GET /stats.
type StatsProvider interface {
	GetStats(ctx context.Context) map[string]any
}

// StatsHandler serves the provider's counters plus server uptime.
type StatsHandler struct {
	provider StatsProvider
	started  time.Time
}

func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider, started: time.Now()}
}

type statsResponse struct {
	UptimeSeconds int64          `json:"uptimeSeconds"`
	GeneratedAt   time.Time      `json:"generatedAt"`
	Service       map[string]any `json:"service"`
}

// HandleStats handles GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	now := time.Now()
	writeJSON(w, http.StatusOK, statsResponse{
		UptimeSeconds: int64(now.Sub(h.started).Seconds()),
		GeneratedAt:   now.UTC(),
		Service:       h.provider.GetStats(r.Context()),
	})
}
