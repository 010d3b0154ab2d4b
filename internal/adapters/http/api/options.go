package api

import "github.com/okian/rentscore/pkg/logger"

// DefaultMaxResultsLimit caps GET /results?limit unless overridden.
const DefaultMaxResultsLimit = 100

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxResultsLimit sets the largest limit GET /results accepts.
func WithMaxResultsLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithLogger sets the logger used for handler panics.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
