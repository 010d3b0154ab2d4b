// Package dedupe tracks region codes already accepted for a run.
package dedupe

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
)

// Deduper records seen region codes so each region is analyzed once per run.
// A code, once recorded, is never forgotten.
type Deduper interface {
	// SeenAndRecord atomically checks if code was seen and records it if not.
	// Returns true if code was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, code string) bool

	Size() int64
}

type inMemoryDeduper struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	capacity int
	size     atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{}, d.capacity)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, code string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[code]; exists {
		return true
	}

	d.seen[code] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

// Unique returns the distinct, non-blank codes in first-seen order along with
// the number of repeats dropped. Codes are trimmed before comparison.
func Unique(ctx context.Context, d Deduper, codes []string) ([]string, int) {
	out := make([]string, 0, len(codes))
	duplicates := 0
	for _, raw := range codes {
		code := strings.TrimSpace(raw)
		if code == "" {
			continue
		}
		if d.SeenAndRecord(ctx, code) {
			duplicates++
			continue
		}
		out = append(out, code)
	}
	return out, duplicates
}
