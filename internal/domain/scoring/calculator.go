// Package scoring turns raw regional metrics into normalized sub-scores and
// combines them into a composite investment score.
package scoring

import (
	"math"

	"github.com/okian/rentscore/internal/domain/model"
)

// Population curve breakpoints.
const (
	smallPopulation  = 5_000
	largePopulation  = 50_000
	midPopulationLen = largePopulation - smallPopulation
	populationSpread = 100_000
	renterBonusMax   = 20
	maxScoreValue    = 100
)

// Components bundles the sub-scores and derived ratios of one region.
type Components struct {
	Population        float64
	Supply            float64
	Demand            float64
	RentalRatio       float64
	SupplyDemandRatio float64
}

// Calculate computes every component for a (demographic, rental) pair.
func Calculate(d *model.DemographicRecord, r *model.RentalMarketRecord) Components {
	return Components{
		Population:        PopulationScore(d),
		Supply:            SupplyScore(r, d),
		Demand:            DemandScore(r),
		RentalRatio:       RentalRatio(d),
		SupplyDemandRatio: SupplyDemandRatio(r, d),
	}
}

// PopulationScore rates the addressable renter market on a 0-100 scale.
// Larger populations score higher with diminishing returns, plus a bonus of
// up to 20 points for a high renter share.
func PopulationScore(d *model.DemographicRecord) float64 {
	p := float64(d.TotalPopulation)

	var score float64
	switch {
	case p < smallPopulation:
		score = p / smallPopulation * 30
	case p < largePopulation:
		score = 30 + (p-smallPopulation)/midPopulationLen*50
	default:
		score = 80 + math.Min((p-largePopulation)/populationSpread*20, 20)
	}

	if d.TotalPopulation > 0 {
		renters := float64(d.RenterOccupied)
		owners := math.Max(float64(d.OwnerOccupied), 1)
		ratio := renters / (renters + owners)
		score = math.Min(score+ratio*renterBonusMax, maxScoreValue)
	}
	return score
}

// SupplyScore rates supply shortage: fewer listings per 100 renter households
// means a tighter market and a higher score. The segments are intentionally
// discontinuous at 1 and 3 listings per 100 renters.
func SupplyScore(r *model.RentalMarketRecord, d *model.DemographicRecord) float64 {
	if d.RenterOccupied == 0 {
		return 0
	}
	x := float64(r.TotalListings) / float64(d.RenterOccupied) * 100

	switch {
	case x < 1:
		return 100
	case x < 3:
		return 90 - (x-1)*20
	case x < 5:
		return 70 - (x-3)*15
	case x < 10:
		return 40 - (x-5)*5
	default:
		return math.Max(10-(x-10), 0)
	}
}

// DemandScore is the unweighted mean of the available demand indicators:
// days on market, year-over-year growth, search volume and, when present, the
// source's own demand indicator.
func DemandScore(r *model.RentalMarketRecord) float64 {
	indicators := []float64{
		daysOnMarketScore(r.AvgDaysOnMarket),
		growthScore(r.RentalGrowthYoY),
		searchVolumeScore(r.SearchVolumeIndex),
	}
	if r.DemandScore != nil {
		indicators = append(indicators, *r.DemandScore*100)
	}

	var sum float64
	for _, v := range indicators {
		sum += v
	}
	return sum / float64(len(indicators))
}

func daysOnMarketScore(x float64) float64 {
	switch {
	case x < 10:
		return 100
	case x < 20:
		return 90 - (x-10)*3
	case x < 40:
		return 60 - (x-20)*2
	default:
		return math.Max(20-(x-40), 0)
	}
}

// growthScore rewards the -5%..15% band and caps the extremes.
func growthScore(g float64) float64 {
	switch {
	case g >= -0.05 && g <= 0.15:
		return 50 + g*333
	case g > 0.15:
		return 100
	default:
		return math.Max(50+g*500, 0)
	}
}

// searchVolumeScore clamps the index into [0, 100]; upstream data does not
// guarantee the range.
func searchVolumeScore(v float64) float64 {
	return math.Max(math.Min(v, maxScoreValue), 0)
}

// RentalRatio is the share of occupied households that rent.
func RentalRatio(d *model.DemographicRecord) float64 {
	total := d.RenterOccupied + d.OwnerOccupied
	if total == 0 {
		return 0
	}
	return float64(d.RenterOccupied) / float64(total)
}

// SupplyDemandRatio is listings per renter household.
func SupplyDemandRatio(r *model.RentalMarketRecord, d *model.DemographicRecord) float64 {
	renters := d.RenterOccupied
	if renters < 1 {
		renters = 1
	}
	return float64(r.TotalListings) / float64(renters)
}
