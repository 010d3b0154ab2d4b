// Package source fetches demographic and rental market records for regions.
package source

import (
	"context"

	"github.com/okian/rentscore/internal/domain/model"
)

// Source names used for logging and metrics labels.
const (
	NameCensus    = "census"
	NameRentCast  = "rentcast"
	NameSynthetic = "synthetic"
)

// DemographicSource returns census-style household data for a region.
type DemographicSource interface {
	Name() string
	Demographics(ctx context.Context, regionCode string) (*model.DemographicRecord, error)
}

// RentalSource returns rental market statistics for a region.
type RentalSource interface {
	Name() string
	RentalMarket(ctx context.Context, regionCode string) (*model.RentalMarketRecord, error)
}
