package api

import (
	"context"
	"net/http"

	"github.com/okian/rentscore/internal/domain/ranking"
)

// SummaryDependencies defines the interface for the aggregate view.
type SummaryDependencies interface {
	Summary(ctx context.Context) (*ranking.Summary, error)
}

// SummaryHandler handles summary requests.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleGetSummary handles GET /summary requests.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	sum, err := h.deps.Summary(r.Context())
	switch {
	case err == nil && sum == nil:
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
	case err == nil:
		writeJSON(w, http.StatusOK, sum)
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
