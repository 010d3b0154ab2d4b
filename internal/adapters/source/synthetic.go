package source

import (
	"context"

	"github.com/okian/rentscore/internal/domain/model"
)

// Synthetic produces deterministic demo data derived from the region code.
// Rental records are labelled model.SourceDemo.
type Synthetic struct{}

// NewSynthetic returns the demo source.
func NewSynthetic() *Synthetic { return &Synthetic{} }

func (Synthetic) Name() string { return NameSynthetic }

func seedOf(regionCode string) int {
	seed := 0
	for i := 0; i < len(regionCode); i++ {
		seed += int(regionCode[i])
	}
	return seed
}

// Demographics never fails. Households are population / 2.5, split by a
// renter share between 30% and 69%.
func (Synthetic) Demographics(_ context.Context, regionCode string) (*model.DemographicRecord, error) {
	seed := seedOf(regionCode)
	population := 5000 + (seed*137)%60000
	households := population * 2 / 5
	renters := households * (30 + seed%40) / 100

	return &model.DemographicRecord{
		RegionCode:      regionCode,
		Name:            "ZCTA5 " + regionCode,
		TotalPopulation: population,
		RenterOccupied:  renters,
		OwnerOccupied:   households - renters,
		MedianIncome:    float64(40000 + (seed*53)%80000),
	}, nil
}

// RentalMarket never fails; the same code always yields the same record.
func (Synthetic) RentalMarket(_ context.Context, regionCode string) (*model.RentalMarketRecord, error) {
	seed := seedOf(regionCode)

	demand := float64(seed%100) / 100
	return &model.RentalMarketRecord{
		RegionCode:        regionCode,
		TotalListings:     seed%300 + 50,
		AverageRent:       float64(1000 + seed%2000),
		MedianRent:        float64(950 + seed%1800),
		VacancyRate:       float64(seed%10) / 100,
		SearchVolumeIndex: float64(seed % 100),
		AvgDaysOnMarket:   float64(15 + seed%45),
		RentalGrowthYoY:   float64(seed%20-5) / 100,
		DemandScore:       &demand,
		DataSource:        model.SourceDemo,
	}, nil
}
