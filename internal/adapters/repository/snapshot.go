package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/okian/rentscore/internal/domain/model"
	"github.com/okian/rentscore/internal/domain/ranking"
	"github.com/okian/rentscore/pkg/metrics"
)

// SnapshotStore keeps an immutable snapshot behind an atomic pointer.
// Readers never block writers; Replace swaps the whole set at once.
type SnapshotStore struct {
	current atomic.Pointer[published]
}

type published struct {
	Snapshot
	byCode map[string]int
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Replace publishes results. The slice is copied.
func (s *SnapshotStore) Replace(ctx context.Context, runID string, results ranking.ResultSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rs := make(ranking.ResultSet, len(results))
	copy(rs, results)

	byCode := make(map[string]int, len(rs))
	for i := range rs {
		if _, dup := byCode[rs[i].RegionCode]; !dup {
			byCode[rs[i].RegionCode] = i
		}
	}

	s.current.Store(&published{
		Snapshot: Snapshot{
			RunID:       runID,
			PublishedAt: time.Now().UTC(),
			Results:     rs,
			Summary:     rs.Summarize(),
		},
		byCode: byCode,
	})
	return nil
}

// Rank returns the ranked entry for regionCode.
func (s *SnapshotStore) Rank(_ context.Context, regionCode string) (model.InvestmentResult, error) {
	p := s.current.Load()
	if p == nil {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.InvestmentResult{}, ErrNotFound
	}
	i, ok := p.byCode[regionCode]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.InvestmentResult{}, ErrNotFound
	}
	return p.Results[i], nil
}

// TopN returns at most n leading entries.
func (s *SnapshotStore) TopN(_ context.Context, n int) ([]model.InvestmentResult, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	p := s.current.Load()
	if p == nil {
		return []model.InvestmentResult{}, nil
	}
	top := p.Results.Top(n)
	out := make([]model.InvestmentResult, len(top))
	copy(out, top)
	return out, nil
}

// Summary returns the aggregate of the current set.
func (s *SnapshotStore) Summary(_ context.Context) (*ranking.Summary, error) {
	p := s.current.Load()
	if p == nil || p.Summary == nil {
		return nil, ErrEmpty
	}
	sum := *p.Summary
	return &sum, nil
}

// Count returns the number of ranked regions.
func (s *SnapshotStore) Count(_ context.Context) int {
	p := s.current.Load()
	if p == nil {
		return 0
	}
	return len(p.Results)
}

// Latest returns the current snapshot.
func (s *SnapshotStore) Latest(_ context.Context) *Snapshot {
	p := s.current.Load()
	if p == nil {
		return nil
	}
	snap := p.Snapshot
	return &snap
}
