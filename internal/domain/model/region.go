// Package model contains domain models passed between layers.
package model

// Known rental data sources.
const (
	SourceDemo     = "demo_data"
	SourceRentCast = "rentcast"
	SourceZillow   = "zillow"
	SourceRealtor  = "realtor"
)

// DataQuality classifies how trustworthy a region's rental metrics are.
type DataQuality string

// Data quality tiers.
const (
	QualityDemo   DataQuality = "demo"
	QualityHigh   DataQuality = "high"
	QualityMedium DataQuality = "medium"
)

// DemographicRecord holds census figures for one region.
// Fields are not required to be mutually consistent.
type DemographicRecord struct {
	RegionCode      string  `json:"zipcode"`
	Name            string  `json:"name,omitempty"`
	TotalPopulation int     `json:"total_population"`
	OwnerOccupied   int     `json:"owner_occupied"`
	RenterOccupied  int     `json:"renter_occupied"`
	MedianIncome    float64 `json:"median_income"`
}

// IsEmpty reports whether the record carries no data at all.
func (d *DemographicRecord) IsEmpty() bool {
	return d.Name == "" &&
		d.TotalPopulation == 0 &&
		d.OwnerOccupied == 0 &&
		d.RenterOccupied == 0 &&
		d.MedianIncome == 0
}

// RentalMarketRecord holds rental supply and demand indicators for one region.
type RentalMarketRecord struct {
	RegionCode        string   `json:"zipcode"`
	TotalListings     int      `json:"total_listings"`
	AverageRent       float64  `json:"average_rent"`
	MedianRent        float64  `json:"median_rent"`
	VacancyRate       float64  `json:"vacancy_rate"`
	AvgDaysOnMarket   float64  `json:"avg_days_on_market"`
	RentalGrowthYoY   float64  `json:"rental_growth_yoy"`
	SearchVolumeIndex float64  `json:"search_volume_index"`
	DemandScore       *float64 `json:"demand_score,omitempty"` // optional, 0..1
	DataSource        string   `json:"data_source"`
}

// IsEmpty reports whether the record carries no data at all.
func (r *RentalMarketRecord) IsEmpty() bool {
	return r.DataSource == "" &&
		r.TotalListings == 0 &&
		r.AverageRent == 0 &&
		r.AvgDaysOnMarket == 0 &&
		r.RentalGrowthYoY == 0 &&
		r.SearchVolumeIndex == 0 &&
		r.DemandScore == nil
}

// InvestmentResult is the scored view of one region.
// Rank is zero until a ranking pass assigns it.
type InvestmentResult struct {
	Rank              int         `json:"rank"`
	RegionCode        string      `json:"zipcode"`
	InvestmentScore   float64     `json:"investment_score"`
	PopulationScore   float64     `json:"population_score"`
	SupplyScore       float64     `json:"supply_score"`
	DemandScore       float64     `json:"demand_score"`
	TotalPopulation   int         `json:"total_population"`
	RenterPopulation  int         `json:"renter_population"`
	RentalRatio       float64     `json:"rental_ratio"`
	TotalListings     int         `json:"total_listings"`
	AverageRent       float64     `json:"average_rent"`
	MedianIncome      float64     `json:"median_income"`
	SupplyDemandRatio float64     `json:"supply_demand_ratio"`
	RentalGrowthYoY   float64     `json:"rental_growth_yoy"`
	DaysOnMarket      float64     `json:"days_on_market"`
	DataQuality       DataQuality `json:"data_quality"`
}

// RegionJob is the unit of work flowing through the analysis queue.
// Index is the position of the region in the requested list.
type RegionJob struct {
	Index      int
	RegionCode string
}
