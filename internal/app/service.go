// Package service runs investment analyses and serves their results to the
// HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rentscore/internal/adapters/mq/queue"
	"github.com/okian/rentscore/internal/adapters/mq/worker"
	"github.com/okian/rentscore/internal/adapters/repository"
	"github.com/okian/rentscore/internal/adapters/source"
	"github.com/okian/rentscore/internal/domain/dedupe"
	"github.com/okian/rentscore/internal/domain/model"
	"github.com/okian/rentscore/internal/domain/ranking"
	"github.com/okian/rentscore/internal/domain/scoring"
	"github.com/okian/rentscore/pkg/logger"
	"github.com/okian/rentscore/pkg/metrics"
)

const (
	defaultQueueSize  = 1024
	enqueueRetryDelay = 5 * time.Millisecond
)

// Scorer is the scoring dependency; *scoring.InvestmentScorer satisfies it.
type Scorer = worker.Scorer

// Report describes one completed analysis run.
type Report struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	Duration   time.Duration     `json:"duration"`
	Requested  int               `json:"requested"`
	Duplicates int               `json:"duplicates"`
	Scored     int               `json:"scored"`
	Skipped    map[string]int    `json:"skipped"`
	Results    ranking.ResultSet `json:"results"`
	Summary    *ranking.Summary  `json:"summary"`
}

// SkippedTotal returns the number of regions skipped for any reason.
func (r *Report) SkippedTotal() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

// Service wires sources, the worker pool, ranking and the snapshot store.
type Service struct {
	runMu sync.Mutex
	mu    sync.RWMutex

	demographics source.DemographicSource
	rental       source.RentalSource
	scorer       Scorer
	store        repository.Store

	workerCount int
	queueSize   int
	topN        int
	criteria    ranking.Criteria

	last *Report

	logger logger.Logger
}

// New constructs a Service. Without sources it analyzes synthetic data.
func New(opts ...Option) *Service {
	syn := source.NewSynthetic()
	s := &Service{
		demographics: syn,
		rental:       syn,
		scorer:       scoring.NewInvestmentScorer(),
		store:        repository.NewSnapshotStore(),
		workerCount:  runtime.NumCPU() * 2,
		queueSize:    defaultQueueSize,
		topN:         ranking.DefaultTopN,
		logger:       logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Analyze scores every distinct region in codes, ranks and filters the
// results and publishes them to the store. Regions without data are skipped
// and counted; an empty result set is not an error.
func (s *Service) Analyze(ctx context.Context, codes []string) (*Report, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	started := time.Now()
	seen := dedupe.NewInMemoryDeduper(dedupe.WithCapacity(len(codes)))
	unique, dups := dedupe.Unique(ctx, seen, codes)
	metrics.RecordRegionsRequested(len(codes))
	metrics.RecordRegionsDuplicate(dups)

	if len(unique) == 0 {
		return nil, ErrNoRegions
	}

	report := &Report{
		RunID:      uuid.NewString(),
		StartedAt:  started.UTC(),
		Requested:  len(codes),
		Duplicates: dups,
	}

	log := s.logger.Named("analysis")
	log.Info(ctx, "analysis started",
		logger.String("run_id", report.RunID),
		logger.Int64("regions", seen.Size()),
		logger.Int("duplicates", dups),
		logger.String("demographics", s.demographics.Name()),
		logger.String("rental", s.rental.Name()),
	)

	sink := newCollector(len(unique))
	if err := s.run(ctx, unique, sink); err != nil {
		return nil, fmt.Errorf("analysis %s: %w", report.RunID, err)
	}

	scored := sink.results()
	report.Scored = len(scored)
	report.Skipped = sink.skipped()

	ranked := ranking.Rank(scored, s.topN)
	if !s.criteria.IsZero() {
		ranked = ranked.Filter(s.criteria)
	}
	report.Results = ranked
	report.Summary = ranked.Summarize()

	if err := s.store.Replace(ctx, report.RunID, ranked); err != nil {
		return nil, fmt.Errorf("publish results: %w", err)
	}

	report.Duration = time.Since(started)
	metrics.RecordAnalysisRun(report.Duration, len(ranked))

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	log.Info(ctx, "analysis finished",
		logger.String("run_id", report.RunID),
		logger.Int("scored", report.Scored),
		logger.Int("skipped", report.SkippedTotal()),
		logger.Int("ranked", len(ranked)),
		logger.Duration("duration", report.Duration),
	)

	return report, nil
}

func (s *Service) run(ctx context.Context, codes []string, sink *collector) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	capacity := s.queueSize
	if capacity > len(codes) {
		capacity = len(codes)
	}
	q := queue.NewInMemoryQueue(queue.WithCapacity(capacity))

	workers := s.workerCount
	if workers > len(codes) {
		workers = len(codes)
	}
	pool := worker.NewPool(workers, q,
		worker.SourceFetcher{Demographics: s.demographics, Rental: s.rental},
		s.scorer, sink,
		worker.WithLogger(s.logger),
	)
	s.logger.Debug(ctx, "worker pool started",
		logger.Int("workers", pool.Size()),
		logger.Int("queue_capacity", capacity),
	)
	pool.Start(runCtx)

	if err := s.enqueueAll(runCtx, q, codes); err != nil {
		cancel()
		// ctx may already be done; Shutdown applies its own deadline.
		if serr := pool.Shutdown(context.WithoutCancel(ctx)); serr != nil {
			s.logger.Warn(ctx, "worker pool shutdown", logger.Error(serr))
		}
		return err
	}

	_ = q.Close()
	pool.Wait()
	return ctx.Err()
}

// enqueueAll waits for room when the queue is full.
func (s *Service) enqueueAll(ctx context.Context, q *queue.InMemoryQueue, codes []string) error {
	for i, code := range codes {
		job := model.RegionJob{Index: i, RegionCode: code}
		for !q.Enqueue(ctx, job) {
			if q.IsClosed() {
				return fmt.Errorf("enqueue %s: %w", code, queue.ErrRejected)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(enqueueRetryDelay):
			}
		}
	}
	return nil
}

// TopN returns the top n ranked regions of the latest run.
func (s *Service) TopN(ctx context.Context, n int) ([]model.InvestmentResult, error) {
	return s.store.TopN(ctx, n)
}

// Rank returns the ranked entry for a region of the latest run.
func (s *Service) Rank(ctx context.Context, regionCode string) (model.InvestmentResult, error) {
	return s.store.Rank(ctx, regionCode)
}

// Summary returns the aggregate of the latest run.
func (s *Service) Summary(ctx context.Context) (*ranking.Summary, error) {
	return s.store.Summary(ctx)
}

// LastReport returns the most recent run, or nil.
func (s *Service) LastReport() *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"topN":           s.topN,
		"rankedRegions":  s.store.Count(ctx),
		"demographics":   s.demographics.Name(),
		"rental":         s.rental.Name(),
		"filterCriteria": s.criteria,
	}

	if snap := s.store.Latest(ctx); snap != nil {
		stats["lastPublishedAt"] = snap.PublishedAt
	}

	if s.last != nil {
		stats["lastRunId"] = s.last.RunID
		stats["lastRunAt"] = s.last.StartedAt
		stats["lastRunDurationMs"] = s.last.Duration.Milliseconds()
		stats["requested"] = s.last.Requested
		stats["duplicates"] = s.last.Duplicates
		stats["scored"] = s.last.Scored
		stats["skipped"] = s.last.Skipped
	}

	return stats
}

// collector stores outcomes by job index so results keep input order.
type collector struct {
	mu    sync.Mutex
	slots []*model.InvestmentResult
	skips map[string]int
}

func newCollector(n int) *collector {
	return &collector{
		slots: make([]*model.InvestmentResult, n),
		skips: make(map[string]int),
	}
}

func (c *collector) Collect(job worker.Job, r model.InvestmentResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if job.Index >= 0 && job.Index < len(c.slots) {
		c.slots[job.Index] = &r
	}
}

func (c *collector) Skip(_ worker.Job, reason string, _ error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skips[reason]++
}

func (c *collector) results() []model.InvestmentResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.InvestmentResult, 0, len(c.slots))
	for _, r := range c.slots {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (c *collector) skipped() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.skips))
	for k, v := range c.skips {
		out[k] = v
	}
	return out
}
