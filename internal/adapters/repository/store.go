// Package repository holds the latest ranked analysis results for readers.
package repository

import (
	"context"
	"time"

	"github.com/okian/rentscore/internal/domain/model"
	"github.com/okian/rentscore/internal/domain/ranking"
)

// Snapshot is one published analysis run.
type Snapshot struct {
	RunID       string
	PublishedAt time.Time
	Results     ranking.ResultSet
	Summary     *ranking.Summary
}

// Store provides read/write access to the latest ranking.
type Store interface {
	// Replace publishes a new ranked set, discarding the previous one.
	Replace(ctx context.Context, runID string, results ranking.ResultSet) error

	// Rank returns the ranked entry for a region.
	// Returns ErrNotFound if the region is not in the current set.
	Rank(ctx context.Context, regionCode string) (model.InvestmentResult, error)

	// TopN returns at most n entries in rank order.
	TopN(ctx context.Context, n int) ([]model.InvestmentResult, error)

	// Summary returns the aggregate of the current set, or ErrEmpty.
	Summary(ctx context.Context) (*ranking.Summary, error)

	// Count returns the number of ranked regions.
	Count(ctx context.Context) int

	// Latest returns the current snapshot; nil before the first Replace.
	Latest(ctx context.Context) *Snapshot
}
