// Package api serves the latest analysis results over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/rentscore/internal/adapters/repository"
	"github.com/okian/rentscore/internal/domain/model"
	"github.com/okian/rentscore/internal/domain/ranking"
	"github.com/okian/rentscore/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, regionCode string) (Entry, error)
	Summary(ctx context.Context) (*ranking.Summary, error)
}

// Entry is one ranked region.
type Entry = model.InvestmentResult

// Server wires HTTP routes for the results API.
type Server struct {
	maxLimit int
	logger   logger.Logger

	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	resultsHandler *ResultsHandler
	rankHandler    *RankHandler
	summaryHandler *SummaryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxLimit: DefaultMaxResultsLimit, logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.resultsHandler = NewResultsHandler(deps, s.maxLimit)
	s.rankHandler = NewRankHandler(deps)
	s.summaryHandler = NewSummaryHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	log := s.logger.Named("http")
	mux.HandleFunc("/healthz", Instrument("healthz", log, s.healthHandler.HandleHealth))
	mux.HandleFunc("/stats", Instrument("stats", log, s.statsHandler.HandleStats))
	mux.HandleFunc("/results", Instrument("results", log, s.resultsHandler.HandleGetResults))
	mux.HandleFunc("/rank/", Instrument("rank", log, s.rankHandler.HandleGetRank))
	mux.HandleFunc("/summary", Instrument("summary", log, s.summaryHandler.HandleGetSummary))
}

// Handler returns a mux with every route registered.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	s.Register(ctx, mux)
	return mux
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates store lookups that found nothing.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrEmpty) ||
		errors.Is(err, ErrNotFound)
}
