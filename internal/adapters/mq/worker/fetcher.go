package worker

import (
	"context"
	"fmt"

	"github.com/okian/rentscore/internal/adapters/source"
	"github.com/okian/rentscore/internal/domain/model"
	"golang.org/x/sync/errgroup"
)

// SourceFetcher loads both records for a region concurrently.
type SourceFetcher struct {
	Demographics source.DemographicSource
	Rental       source.RentalSource
}

// Fetch returns the first error from either source; the other lookup is
// cancelled.
func (f SourceFetcher) Fetch(ctx context.Context, regionCode string) (*model.DemographicRecord, *model.RentalMarketRecord, error) {
	var (
		d *model.DemographicRecord
		r *model.RentalMarketRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := f.Demographics.Demographics(gctx, regionCode)
		if err != nil {
			return fmt.Errorf("demographics: %w", err)
		}
		d = rec
		return nil
	})
	g.Go(func() error {
		rec, err := f.Rental.RentalMarket(gctx, regionCode)
		if err != nil {
			return fmt.Errorf("rental market: %w", err)
		}
		r = rec
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return d, r, nil
}
