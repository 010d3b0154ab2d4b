package service

import (
	"github.com/okian/rentscore/internal/adapters/repository"
	"github.com/okian/rentscore/internal/adapters/source"
	"github.com/okian/rentscore/internal/domain/ranking"
	"github.com/okian/rentscore/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize caps the job queue. The queue is never larger than one run.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithTopN sets how many ranked regions are kept. Zero keeps all.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.topN = n
		}
	}
}

// WithCriteria sets the post-ranking filter.
func WithCriteria(c ranking.Criteria) Option {
	return func(s *Service) {
		s.criteria = c
	}
}

// WithScorer replaces the investment scorer.
func WithScorer(sc Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithDemographicSource sets where census data comes from.
func WithDemographicSource(src source.DemographicSource) Option {
	return func(s *Service) {
		if src != nil {
			s.demographics = src
		}
	}
}

// WithRentalSource sets where rental market data comes from.
func WithRentalSource(src source.RentalSource) Option {
	return func(s *Service) {
		if src != nil {
			s.rental = src
		}
	}
}

// WithStore sets the snapshot store results are published to.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
