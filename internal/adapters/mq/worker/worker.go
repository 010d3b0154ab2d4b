package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/rentscore/internal/adapters/mq/queue"
	"github.com/okian/rentscore/internal/adapters/source"
	"github.com/okian/rentscore/internal/domain/model"
	"github.com/okian/rentscore/pkg/logger"
	"github.com/okian/rentscore/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Reasons a region is skipped.
const (
	SkipUnavailable = "unavailable"
	SkipFetchError  = "fetch_error"
	SkipMissingData = "missing_data"
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Fetcher loads the inputs for one region.
type Fetcher interface {
	Fetch(ctx context.Context, regionCode string) (*model.DemographicRecord, *model.RentalMarketRecord, error)
}

// Scorer turns inputs into a result. false means the region lacks data.
type Scorer interface {
	Score(regionCode string, d *model.DemographicRecord, r *model.RentalMarketRecord) (model.InvestmentResult, bool)
}

// Sink receives the outcome of each job. Implementations must be safe for
// concurrent use.
type Sink interface {
	Collect(job Job, result model.InvestmentResult)
	Skip(job Job, reason string, err error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes region jobs.
type Worker interface {
	// Run starts the worker loop until the queue drains or ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue   Queue
	fetcher Fetcher
	scorer  Scorer
	sink    Sink
	name    string
	active  *atomic.Int64

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, fetcher Fetcher, scorer Scorer, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		fetcher:  fetcher,
		scorer:   scorer,
		sink:     sink,
		name:     "worker",
		active:   &atomic.Int64{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Shutdown stops the worker after its current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, job Job) {
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	start := time.Now()
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	d, r, err := w.fetcher.Fetch(ctx, job.RegionCode)
	if err != nil {
		reason := SkipFetchError
		if errors.Is(err, source.ErrUnavailable) {
			reason = SkipUnavailable
			w.logger.Debug(ctx, "no data for region", logger.String("zip", job.RegionCode), logger.Error(err))
		} else {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", SkipFetchError)
			w.logger.Warn(ctx, "fetch failed, skipping region", logger.String("zip", job.RegionCode), logger.Error(err))
		}
		metrics.RecordRegionSkipped(reason)
		w.sink.Skip(job, reason, err)
		return
	}

	scoreStart := time.Now()
	result, ok := w.scorer.Score(job.RegionCode, d, r)
	metrics.RecordScoringLatency(float64(time.Since(scoreStart).Microseconds()) / 1000)
	if !ok {
		metrics.RecordRegionSkipped(SkipMissingData)
		w.logger.Debug(ctx, "insufficient data, skipping region", logger.String("zip", job.RegionCode))
		w.sink.Skip(job, SkipMissingData, nil)
		return
	}

	metrics.RecordRegionScored(result.InvestmentScore)
	w.sink.Collect(job, result)
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	active  atomic.Int64
	logger  logger.Logger
}

// NewPool creates a worker pool. workerCount < 1 selects 2x NumCPU.
func NewPool(workerCount int, q Queue, fetcher Fetcher, scorer Scorer, sink Sink, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Nop(),
	}

	probe := &InMemoryWorker{logger: pool.logger}
	for _, opt := range opts {
		opt(probe)
	}
	pool.logger = probe.logger.Named("worker-pool")

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{}, opts...)
		workerOpts = append(workerOpts, WithName("worker-"+strconv.Itoa(i)))
		w := NewInMemoryWorker(q, fetcher, scorer, sink, workerOpts...)
		w.active = &pool.active
		pool.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has returned, which happens once the queue
// is closed and drained or the context passed to Start ends.
func (p *Pool) Wait() {
	for _, w := range p.workers {
		<-w.Done()
	}
}

// Shutdown closes the queue, if it can be closed, and stops all workers.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var errs []error
	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
