// Package ranking orders scored regions, filters them by investment criteria
// and aggregates summary statistics.
package ranking

import (
	"sort"

	"github.com/okian/rentscore/internal/domain/model"
)

// DefaultTopN is the default truncation applied by Rank.
const DefaultTopN = 50

// ResultSet is an ordered sequence of results with dense, 1-based ranks.
type ResultSet []model.InvestmentResult

// Criteria holds optional filter thresholds. A nil field is not applied.
type Criteria struct {
	MinPopulation *int     `json:"min_population,omitempty"`
	MaxListings   *int     `json:"max_listings,omitempty"`
	MinScore      *float64 `json:"min_score,omitempty"`
}

// IsZero reports whether no threshold is set.
func (c Criteria) IsZero() bool {
	return c.MinPopulation == nil && c.MaxListings == nil && c.MinScore == nil
}

// Match reports whether r satisfies every set threshold.
func (c Criteria) Match(r *model.InvestmentResult) bool {
	if c.MinPopulation != nil && r.TotalPopulation < *c.MinPopulation {
		return false
	}
	if c.MaxListings != nil && r.TotalListings > *c.MaxListings {
		return false
	}
	if c.MinScore != nil && r.InvestmentScore < *c.MinScore {
		return false
	}
	return true
}

// Summary aggregates a result set.
type Summary struct {
	Count              int     `json:"total_zipcodes_analyzed"`
	AvgInvestmentScore float64 `json:"avg_investment_score"`
	AvgPopulation      float64 `json:"avg_population"`
	AvgRentalRatio     float64 `json:"avg_rental_ratio"`
	AvgListings        float64 `json:"avg_listings"`
	AvgRent            float64 `json:"avg_rent"`
	TopRegion          string  `json:"top_zipcode"`
	TopScore           float64 `json:"top_score"`
}

// Rank sorts results by investment score descending, assigns ranks starting
// at 1 and keeps at most topN entries (topN <= 0 keeps all). Equal scores keep
// their input order. The input slice is not modified.
func Rank(results []model.InvestmentResult, topN int) ResultSet {
	ranked := make(ResultSet, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].InvestmentScore > ranked[j].InvestmentScore
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	ranked.renumber()
	return ranked
}

// Filter keeps results matching c, preserving order, and re-ranks them.
func (rs ResultSet) Filter(c Criteria) ResultSet {
	out := make(ResultSet, 0, len(rs))
	for i := range rs {
		if c.Match(&rs[i]) {
			out = append(out, rs[i])
		}
	}
	out.renumber()
	return out
}

// Summarize computes averages over the set and reports its first entry as the
// top region. It returns nil for an empty set.
func (rs ResultSet) Summarize() *Summary {
	if len(rs) == 0 {
		return nil
	}

	var score, population, ratio, listings, rent float64
	for i := range rs {
		score += rs[i].InvestmentScore
		population += float64(rs[i].TotalPopulation)
		ratio += rs[i].RentalRatio
		listings += float64(rs[i].TotalListings)
		rent += rs[i].AverageRent
	}
	n := float64(len(rs))

	return &Summary{
		Count:              len(rs),
		AvgInvestmentScore: score / n,
		AvgPopulation:      population / n,
		AvgRentalRatio:     ratio / n,
		AvgListings:        listings / n,
		AvgRent:            rent / n,
		TopRegion:          rs[0].RegionCode,
		TopScore:           rs[0].InvestmentScore,
	}
}

// Top returns at most n leading entries.
func (rs ResultSet) Top(n int) ResultSet {
	if n < 0 {
		n = 0
	}
	if n > len(rs) {
		n = len(rs)
	}
	return rs[:n]
}

// Find looks up a region by code.
func (rs ResultSet) Find(regionCode string) (model.InvestmentResult, bool) {
	for i := range rs {
		if rs[i].RegionCode == regionCode {
			return rs[i], true
		}
	}
	return model.InvestmentResult{}, false
}

func (rs ResultSet) renumber() {
	for i := range rs {
		rs[i].Rank = i + 1
	}
}
