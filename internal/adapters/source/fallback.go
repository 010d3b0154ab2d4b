package source

import (
	"context"
	"errors"

	"github.com/okian/rentscore/internal/domain/model"
	"github.com/okian/rentscore/pkg/logger"
	"github.com/okian/rentscore/pkg/metrics"
)

// FallbackRental tries a primary rental source and switches to a fallback on
// any error.
type FallbackRental struct {
	primary  RentalSource
	fallback RentalSource
	log      logger.Logger
}

// Fallback chains two rental sources. A nil primary always uses fallback.
func Fallback(primary, fallback RentalSource, log logger.Logger) *FallbackRental {
	if log == nil {
		log = logger.Nop()
	}
	return &FallbackRental{primary: primary, fallback: fallback, log: log}
}

func (f *FallbackRental) Name() string {
	if f.primary == nil {
		return f.fallback.Name()
	}
	return f.primary.Name() + "+" + f.fallback.Name()
}

func (f *FallbackRental) RentalMarket(ctx context.Context, regionCode string) (*model.RentalMarketRecord, error) {
	if f.primary != nil {
		rec, err := f.primary.RentalMarket(ctx, regionCode)
		if err == nil {
			return rec, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		metrics.RecordSourceFallback()
		if errors.Is(err, ErrNotConfigured) {
			f.log.Debug(ctx, "rental source not configured, using fallback",
				logger.String("primary", f.primary.Name()),
				logger.String("zip", regionCode),
			)
		} else {
			f.log.Warn(ctx, "rental source failed, using fallback",
				logger.String("primary", f.primary.Name()),
				logger.String("fallback", f.fallback.Name()),
				logger.String("zip", regionCode),
				logger.Error(err),
			)
		}
	}
	return f.fallback.RentalMarket(ctx, regionCode)
}
