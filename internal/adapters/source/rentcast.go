package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/rentscore/internal/domain/model"
)

// neutralSearchVolume stands in when a provider has no search interest data.
const neutralSearchVolume = 50

// rentcastStats holds the fields we read from a markets response. RentCast
// nests them under rentalData; older payloads carry them at the top level.
type rentcastStats struct {
	TotalListings       *float64 `json:"totalListings"`
	AverageRent         *float64 `json:"averageRent"`
	MedianRent          *float64 `json:"medianRent"`
	VacancyRate         *float64 `json:"vacancyRate"`
	AverageDaysOnMarket *float64 `json:"averageDaysOnMarket"`
	RentGrowthYoY       *float64 `json:"rentGrowthYoY"`
}

type rentcastMarket struct {
	rentcastStats
	RentalData *rentcastStats `json:"rentalData"`
}

// RentCastClient reads rental market statistics from the RentCast markets API.
type RentCastClient struct {
	api     *apiClient
	baseURL string
	apiKey  string
}

// NewRentCastClient creates a RentCast client. Calls fail with
// ErrNotConfigured until an API key is set.
func NewRentCastClient(opts ...Option) *RentCastClient {
	o := defaultOptions(DefaultRentCastBaseURL)
	for _, opt := range opts {
		opt(&o)
	}
	return &RentCastClient{
		api:     newAPIClient(NameRentCast, o),
		baseURL: strings.TrimRight(o.baseURL, "/"),
		apiKey:  o.apiKey,
	}
}

func (c *RentCastClient) Name() string { return NameRentCast }

// Configured reports whether an API key is present.
func (c *RentCastClient) Configured() bool { return c.apiKey != "" }

func (c *RentCastClient) RentalMarket(ctx context.Context, regionCode string) (*model.RentalMarketRecord, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("rentcast: %w", ErrNotConfigured)
	}

	endpoint := c.baseURL + "/v1/markets?" + url.Values{"zipCode": {regionCode}}.Encode()
	header := http.Header{}
	header.Set("X-Api-Key", c.apiKey)

	var m rentcastMarket
	if err := c.api.getJSON(ctx, endpoint, header, &m); err != nil {
		return nil, fmt.Errorf("rentcast %s: %w", regionCode, err)
	}

	s := m.rentcastStats
	if m.RentalData != nil {
		s = *m.RentalData
	}

	return &model.RentalMarketRecord{
		RegionCode:        regionCode,
		TotalListings:     int(val(s.TotalListings)),
		AverageRent:       val(s.AverageRent),
		MedianRent:        val(s.MedianRent),
		VacancyRate:       val(s.VacancyRate),
		AvgDaysOnMarket:   val(s.AverageDaysOnMarket),
		RentalGrowthYoY:   val(s.RentGrowthYoY),
		SearchVolumeIndex: neutralSearchVolume,
		DataSource:        model.SourceRentCast,
	}, nil
}

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
