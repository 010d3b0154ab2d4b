package source

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/rentscore/internal/domain/model"
)

// ACS 5-year variables requested per region.
const (
	acsName           = "NAME"
	acsTotalPop       = "B01003_001E"
	acsOwnerOccupied  = "B25003_002E"
	acsRenterOccupied = "B25003_003E"
	acsMedianIncome   = "B19013_001E"
)

var acsVariables = strings.Join([]string{acsName, acsTotalPop, acsOwnerOccupied, acsRenterOccupied, acsMedianIncome}, ",")

// CensusClient reads demographics from the ACS 5-year API by ZIP code
// tabulation area.
type CensusClient struct {
	api     *apiClient
	baseURL string
	apiKey  string
	year    int
}

// NewCensusClient creates a census client. An API key is optional.
func NewCensusClient(opts ...Option) *CensusClient {
	o := defaultOptions(DefaultCensusBaseURL)
	for _, opt := range opts {
		opt(&o)
	}
	return &CensusClient{
		api:     newAPIClient(NameCensus, o),
		baseURL: strings.TrimRight(o.baseURL, "/"),
		apiKey:  o.apiKey,
		year:    o.year,
	}
}

func (c *CensusClient) Name() string { return NameCensus }

// Demographics fetches one ZCTA. ACS annotation sentinels (negative values)
// and missing cells are read as 0.
func (c *CensusClient) Demographics(ctx context.Context, regionCode string) (*model.DemographicRecord, error) {
	q := url.Values{}
	q.Set("get", acsVariables)
	q.Set("for", "zip code tabulation area:"+regionCode)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	endpoint := fmt.Sprintf("%s/%d/acs/acs5?%s", c.baseURL, c.year, q.Encode())

	var rows [][]any
	if err := c.api.getJSON(ctx, endpoint, nil, &rows); err != nil {
		return nil, fmt.Errorf("census %s: %w", regionCode, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("census %s: %w", regionCode, ErrUnavailable)
	}

	header, values := rows[0], rows[1]
	cell := func(name string) any {
		for i, h := range header {
			if s, ok := h.(string); ok && s == name && i < len(values) {
				return values[i]
			}
		}
		return nil
	}

	name, _ := cell(acsName).(string)
	return &model.DemographicRecord{
		RegionCode:      regionCode,
		Name:            name,
		TotalPopulation: int(acsNumber(cell(acsTotalPop))),
		OwnerOccupied:   int(acsNumber(cell(acsOwnerOccupied))),
		RenterOccupied:  int(acsNumber(cell(acsRenterOccupied))),
		MedianIncome:    acsNumber(cell(acsMedianIncome)),
	}, nil
}

// acsNumber converts an ACS cell into a non-negative number. Negative
// sentinels, NaN, infinities and counts beyond int32 read as 0.
func acsNumber(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return f
}
