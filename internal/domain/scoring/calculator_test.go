package scoring_test

import (
	"testing"

	"github.com/okian/rentscore/internal/domain/model"
	"github.com/okian/rentscore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(v float64) *float64 { return &v }

func TestPopulationScore(t *testing.T) {
	Convey("Given the population curve", t, func() {
		Convey("When the region is empty", func() {
			d := &model.DemographicRecord{}

			Convey("Then the score should be 0 with no renter bonus", func() {
				So(scoring.PopulationScore(d), ShouldEqual, 0.0)
			})
		})

		Convey("When population is in the small tier", func() {
			d := &model.DemographicRecord{TotalPopulation: 2500}

			Convey("Then the base should scale linearly to 30", func() {
				// 2500/5000*30 = 15, renter ratio 0
				So(scoring.PopulationScore(d), ShouldAlmostEqual, 15.0, 1e-9)
			})
		})

		Convey("When population sits on the tier boundaries", func() {
			Convey("Then 5000 starts the middle tier at 30", func() {
				So(scoring.PopulationScore(&model.DemographicRecord{TotalPopulation: 5000}), ShouldAlmostEqual, 30.0, 1e-9)
			})

			Convey("Then 50000 starts the top tier at 80", func() {
				So(scoring.PopulationScore(&model.DemographicRecord{TotalPopulation: 50000}), ShouldAlmostEqual, 80.0, 1e-9)
			})

			Convey("Then the top tier saturates at 100", func() {
				So(scoring.PopulationScore(&model.DemographicRecord{TotalPopulation: 10_000_000}), ShouldAlmostEqual, 100.0, 1e-9)
			})
		})

		Convey("When the region has renters", func() {
			d := &model.DemographicRecord{TotalPopulation: 25000, RenterOccupied: 15000, OwnerOccupied: 10000}

			Convey("Then the renter share bonus should be added", func() {
				base := 30 + 20000.0/45000*50
				So(scoring.PopulationScore(d), ShouldAlmostEqual, base+0.6*20, 1e-9)
			})
		})

		Convey("When there are no owners", func() {
			d := &model.DemographicRecord{TotalPopulation: 1000, RenterOccupied: 1}

			Convey("Then the owner denominator should be floored at 1", func() {
				So(scoring.PopulationScore(d), ShouldAlmostEqual, 6+0.5*20, 1e-9)
			})
		})

		Convey("When the bonus would overflow the cap", func() {
			d := &model.DemographicRecord{TotalPopulation: 200_000, RenterOccupied: 90_000}

			Convey("Then the score should be capped at 100", func() {
				So(scoring.PopulationScore(d), ShouldEqual, 100.0)
			})
		})

		Convey("When population grows with everything else fixed", func() {
			Convey("Then the score should never decrease", func() {
				prev := -1.0
				for p := 0; p <= 300_000; p += 250 {
					s := scoring.PopulationScore(&model.DemographicRecord{TotalPopulation: p, RenterOccupied: 400, OwnerOccupied: 600})
					So(s, ShouldBeGreaterThanOrEqualTo, prev)
					So(s, ShouldBeBetweenOrEqual, 0.0, 100.0)
					prev = s
				}
			})
		})

		Convey("When the renter share grows with population fixed", func() {
			Convey("Then the score should never decrease", func() {
				prev := -1.0
				for renters := 0; renters <= 10_000; renters += 100 {
					s := scoring.PopulationScore(&model.DemographicRecord{TotalPopulation: 20000, RenterOccupied: renters, OwnerOccupied: 10_000 - renters})
					So(s, ShouldBeGreaterThanOrEqualTo, prev)
					prev = s
				}
			})
		})
	})
}

func TestSupplyScore(t *testing.T) {
	supplyAt := func(listingsPer100 float64) float64 {
		// 10000 renters, so listings = x * 100
		d := &model.DemographicRecord{RenterOccupied: 10000}
		r := &model.RentalMarketRecord{TotalListings: int(listingsPer100 * 100)}
		return scoring.SupplyScore(r, d)
	}

	Convey("Given the supply curve", t, func() {
		Convey("When there are no renter households", func() {
			d := &model.DemographicRecord{TotalPopulation: 5000, OwnerOccupied: 2000}

			Convey("Then the score should be 0 regardless of listings", func() {
				So(scoring.SupplyScore(&model.RentalMarketRecord{TotalListings: 0}, d), ShouldEqual, 0.0)
				So(scoring.SupplyScore(&model.RentalMarketRecord{TotalListings: 500}, d), ShouldEqual, 0.0)
			})
		})

		Convey("When the market is very tight", func() {
			Convey("Then fewer than 1 listing per 100 renters should score 100", func() {
				So(supplyAt(0), ShouldEqual, 100.0)
				So(supplyAt(0.99), ShouldEqual, 100.0)
			})
		})

		Convey("When evaluating the segment boundaries", func() {
			Convey("Then x=1 should jump from 100 down to 90", func() {
				So(supplyAt(1), ShouldAlmostEqual, 90, 1e-9)
			})

			Convey("Then x=3 should use the upper segment value of 70, not 50", func() {
				So(supplyAt(3), ShouldAlmostEqual, 70, 1e-9)
				So(supplyAt(2.99), ShouldAlmostEqual, 90-1.99*20, 1e-9)
			})

			Convey("Then x=5 should be 40", func() {
				So(supplyAt(5), ShouldAlmostEqual, 40, 1e-9)
			})

			Convey("Then x=10 should be 10", func() {
				So(supplyAt(10), ShouldAlmostEqual, 10, 1e-9)
			})

			Convey("Then very loose markets should floor at 0", func() {
				So(supplyAt(25), ShouldEqual, 0.0)
			})
		})

		Convey("When listings per 100 renters grow", func() {
			Convey("Then the score should never increase", func() {
				prev := 101.0
				for listings := 0; listings <= 3000; listings += 5 {
					s := scoring.SupplyScore(&model.RentalMarketRecord{TotalListings: listings}, &model.DemographicRecord{RenterOccupied: 10000})
					So(s, ShouldBeBetweenOrEqual, 0.0, 100.0)
					// the x=3 jump is the one documented exception
					if listings != 300 {
						So(s, ShouldBeLessThanOrEqualTo, prev)
					}
					prev = s
				}
			})
		})
	})
}

func TestDemandScore(t *testing.T) {
	Convey("Given the demand indicators", t, func() {
		Convey("When the source has no direct demand indicator", func() {
			r := &model.RentalMarketRecord{AvgDaysOnMarket: 15, RentalGrowthYoY: 0.05, SearchVolumeIndex: 60}

			Convey("Then exactly three values should be averaged", func() {
				expected := (75.0 + (50 + 0.05*333) + 60) / 3
				So(scoring.DemandScore(r), ShouldAlmostEqual, expected, 1e-9)
			})
		})

		Convey("When the source provides a demand indicator", func() {
			r := &model.RentalMarketRecord{AvgDaysOnMarket: 5, RentalGrowthYoY: 0.2, SearchVolumeIndex: 100, DemandScore: ptr(0.4)}

			Convey("Then four values should be averaged", func() {
				So(scoring.DemandScore(r), ShouldAlmostEqual, (100+100+100+40)/4.0, 1e-9)
			})
		})

		Convey("When days on market cross the breakpoints", func() {
			base := model.RentalMarketRecord{RentalGrowthYoY: 0, SearchVolumeIndex: 0}
			at := func(dom float64) float64 {
				r := base
				r.AvgDaysOnMarket = dom
				// growth 0 contributes 50, search 0 contributes 0
				return scoring.DemandScore(&r)*3 - 50
			}

			Convey("Then each segment should follow its own formula", func() {
				So(at(9), ShouldAlmostEqual, 100, 1e-9)
				So(at(10), ShouldAlmostEqual, 90, 1e-9)
				So(at(20), ShouldAlmostEqual, 60, 1e-9)
				So(at(30), ShouldAlmostEqual, 40, 1e-9)
				So(at(40), ShouldAlmostEqual, 20, 1e-9)
				So(at(90), ShouldAlmostEqual, 0, 1e-9)
			})
		})

		Convey("When growth is outside the healthy band", func() {
			at := func(g float64) float64 {
				r := model.RentalMarketRecord{AvgDaysOnMarket: 100, RentalGrowthYoY: g}
				return scoring.DemandScore(&r) * 3
			}

			Convey("Then strong growth should cap at 100", func() {
				So(at(0.5), ShouldAlmostEqual, 100, 1e-9)
			})

			Convey("Then steep declines should use the steeper slope and floor at 0", func() {
				So(at(-0.06), ShouldAlmostEqual, 50-0.06*500, 1e-9)
				So(at(-0.5), ShouldAlmostEqual, 0, 1e-9)
			})

			Convey("Then the band edges should be inclusive", func() {
				So(at(-0.05), ShouldAlmostEqual, 50-0.05*333, 1e-9)
				So(at(0.15), ShouldAlmostEqual, 50+0.15*333, 1e-9)
			})
		})

		Convey("When the search volume index is out of range", func() {
			high := &model.RentalMarketRecord{AvgDaysOnMarket: 100, SearchVolumeIndex: 250}
			low := &model.RentalMarketRecord{AvgDaysOnMarket: 100, SearchVolumeIndex: -20}

			Convey("Then it should be clamped into [0, 100]", func() {
				So(scoring.DemandScore(high)*3, ShouldAlmostEqual, 50+100, 1e-9)
				So(scoring.DemandScore(low)*3, ShouldAlmostEqual, 50, 1e-9)
			})
		})
	})
}

func TestDerivedRatios(t *testing.T) {
	Convey("Given derived ratios", t, func() {
		Convey("When there are no households", func() {
			d := &model.DemographicRecord{}
			r := &model.RentalMarketRecord{TotalListings: 40}

			Convey("Then the rental ratio should be 0", func() {
				So(scoring.RentalRatio(d), ShouldEqual, 0.0)
			})

			Convey("Then the supply/demand ratio should use a floor of 1 renter", func() {
				So(scoring.SupplyDemandRatio(r, d), ShouldEqual, 40.0)
			})
		})

		Convey("When households are present", func() {
			d := &model.DemographicRecord{RenterOccupied: 300, OwnerOccupied: 700}
			r := &model.RentalMarketRecord{TotalListings: 30}

			Convey("Then the ratios should be plain fractions", func() {
				So(scoring.RentalRatio(d), ShouldAlmostEqual, 0.3, 1e-12)
				So(scoring.SupplyDemandRatio(r, d), ShouldAlmostEqual, 0.1, 1e-12)
			})
		})
	})
}

func TestCalculate_Ranges(t *testing.T) {
	Convey("Given a sweep of inputs", t, func() {
		Convey("When every component is computed", func() {
			Convey("Then all sub-scores should stay in [0, 100] and ratios in range", func() {
				for _, pop := range []int{0, 1, 4999, 5000, 49_999, 50_000, 1_000_000} {
					for _, renters := range []int{0, 1, 500, 40_000} {
						for _, listings := range []int{0, 3, 250, 100_000} {
							d := &model.DemographicRecord{TotalPopulation: pop, RenterOccupied: renters, OwnerOccupied: pop / 3}
							r := &model.RentalMarketRecord{
								TotalListings:     listings,
								AvgDaysOnMarket:   float64(listings % 70),
								RentalGrowthYoY:   float64(listings%40)/100 - 0.2,
								SearchVolumeIndex: float64(listings % 130),
								DemandScore:       ptr(0.5),
							}
							c := scoring.Calculate(d, r)
							So(c.Population, ShouldBeBetweenOrEqual, 0.0, 100.0)
							So(c.Supply, ShouldBeBetweenOrEqual, 0.0, 100.0)
							So(c.Demand, ShouldBeBetweenOrEqual, 0.0, 100.0)
							So(c.RentalRatio, ShouldBeBetweenOrEqual, 0.0, 1.0)
							So(c.SupplyDemandRatio, ShouldBeGreaterThanOrEqualTo, 0.0)
						}
					}
				}
			})
		})
	})
}
