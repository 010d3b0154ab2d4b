package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// ResultsDependencies defines the interface for listing ranked regions.
type ResultsDependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
}

// ResultsHandler handles results requests.
type ResultsHandler struct {
	deps     ResultsDependencies
	maxLimit int
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultsDependencies, maxLimit int) *ResultsHandler {
	return &ResultsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetResults handles GET /results?limit=N. A missing limit returns the
// maximum.
func (h *ResultsHandler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_results"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = v
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded",
			Wrap(op, fmt.Errorf("%w: limit must be at most %d", ErrBadRequest, h.maxLimit)))
		return
	}

	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
