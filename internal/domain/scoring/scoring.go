package scoring

import (
	"math"

	"github.com/okian/rentscore/internal/domain/model"
)

// Default composite weights.
const (
	DefaultPopulationWeight = 0.30
	DefaultSupplyWeight     = 0.35
	DefaultDemandWeight     = 0.35
)

// Rounding precision applied when a result is assembled.
const (
	scoreDecimals = 2
	ratioDecimals = 3
)

// Weights controls how sub-scores combine into the composite score.
// They should sum to 1.0; that is the caller's responsibility.
type Weights struct {
	Population float64 `json:"population"`
	Supply     float64 `json:"supply"`
	Demand     float64 `json:"demand"`
}

// DefaultWeights returns the stock 30/35/35 split.
func DefaultWeights() Weights {
	return Weights{
		Population: DefaultPopulationWeight,
		Supply:     DefaultSupplyWeight,
		Demand:     DefaultDemandWeight,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Population + w.Supply + w.Demand
}

// Option applies a configuration option to the InvestmentScorer.
type Option func(*InvestmentScorer)

// WithWeights sets the composite weights. Negative weights are ignored.
func WithWeights(w Weights) Option {
	return func(s *InvestmentScorer) {
		if w.Population < 0 || w.Supply < 0 || w.Demand < 0 {
			return
		}
		s.weights = w
	}
}

// WithPremiumSources replaces the set of rental sources rated "high" quality.
func WithPremiumSources(sources ...string) Option {
	return func(s *InvestmentScorer) {
		if len(sources) == 0 {
			return
		}
		s.premium = make(map[string]struct{}, len(sources))
		for _, src := range sources {
			s.premium[src] = struct{}{}
		}
	}
}

// Scorer produces an investment result for one region. The boolean is false
// when the region has to be skipped for lack of data.
type Scorer interface {
	Score(regionCode string, d *model.DemographicRecord, r *model.RentalMarketRecord) (model.InvestmentResult, bool)
}

// InvestmentScorer implements Scorer with a fixed weighted sum.
// It holds no mutable state and is safe for concurrent use.
type InvestmentScorer struct {
	weights Weights
	premium map[string]struct{}
}

// NewInvestmentScorer creates a scorer with default weights unless overridden.
func NewInvestmentScorer(opts ...Option) *InvestmentScorer {
	s := &InvestmentScorer{
		weights: DefaultWeights(),
		premium: map[string]struct{}{
			model.SourceRentCast: {},
			model.SourceZillow:   {},
			model.SourceRealtor:  {},
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Weights returns the weights in use.
func (s *InvestmentScorer) Weights() Weights {
	return s.weights
}

// Score assembles the full result for one region. Either record being nil or
// empty is a data-availability gate, not an error.
func (s *InvestmentScorer) Score(regionCode string, d *model.DemographicRecord, r *model.RentalMarketRecord) (model.InvestmentResult, bool) {
	if d == nil || r == nil || d.IsEmpty() || r.IsEmpty() {
		return model.InvestmentResult{}, false
	}

	c := Calculate(d, r)
	composite := s.Composite(c)

	return model.InvestmentResult{
		RegionCode:        regionCode,
		InvestmentScore:   round(composite, scoreDecimals),
		PopulationScore:   round(c.Population, scoreDecimals),
		SupplyScore:       round(c.Supply, scoreDecimals),
		DemandScore:       round(c.Demand, scoreDecimals),
		TotalPopulation:   d.TotalPopulation,
		RenterPopulation:  d.RenterOccupied,
		RentalRatio:       round(c.RentalRatio, ratioDecimals),
		TotalListings:     r.TotalListings,
		AverageRent:       r.AverageRent,
		MedianIncome:      d.MedianIncome,
		SupplyDemandRatio: round(c.SupplyDemandRatio, ratioDecimals),
		RentalGrowthYoY:   r.RentalGrowthYoY,
		DaysOnMarket:      r.AvgDaysOnMarket,
		DataQuality:       s.AssessDataQuality(r.DataSource),
	}, true
}

// Composite returns the weighted sum of the sub-scores. The result is not
// clamped; weights that do not sum to 1 can push it outside [0, 100].
func (s *InvestmentScorer) Composite(c Components) float64 {
	return c.Population*s.weights.Population +
		c.Supply*s.weights.Supply +
		c.Demand*s.weights.Demand
}

// AssessDataQuality labels a rental data source.
func (s *InvestmentScorer) AssessDataQuality(source string) model.DataQuality {
	if source == model.SourceDemo {
		return model.QualityDemo
	}
	if _, ok := s.premium[source]; ok {
		return model.QualityHigh
	}
	return model.QualityMedium
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
