// Package config defines process configuration and how it is loaded.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/okian/rentscore/internal/adapters/source"
	"github.com/okian/rentscore/internal/domain/ranking"
	"github.com/okian/rentscore/internal/domain/scoring"
)

// Output formats accepted by output_format.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatExcel = "excel"
	FormatAll   = "all"
)

const weightTolerance = 0.001

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// WorkerCount sets the number of region workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// TopN caps the ranked result set. Zero keeps every region.
	TopN int `koanf:"top_n"`

	// MaxResultsLimit caps GET /results?limit.
	MaxResultsLimit int `koanf:"max_results_limit"`

	PopulationWeight float64 `koanf:"population_weight"`
	SupplyWeight     float64 `koanf:"supply_weight"`
	DemandWeight     float64 `koanf:"demand_weight"`

	// Optional filter thresholds; unset means not applied.
	MinPopulation *int     `koanf:"min_population"`
	MaxListings   *int     `koanf:"max_listings"`
	MinScore      *float64 `koanf:"min_score"`

	CensusAPIKey     string  `koanf:"census_api_key"`
	CensusBaseURL    string  `koanf:"census_base_url"`
	CensusYear       int     `koanf:"census_year"`
	CensusRatePerSec float64 `koanf:"census_rate_per_sec"`

	RentCastAPIKey     string  `koanf:"rentcast_api_key"`
	RentCastBaseURL    string  `koanf:"rentcast_base_url"`
	RentCastRatePerSec float64 `koanf:"rentcast_rate_per_sec"`

	// HTTPTimeoutMS bounds each outbound request.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`

	// MaxRetries is the number of retries after a transient failure.
	MaxRetries int `koanf:"max_retries"`

	// OutputFormat is csv, json, excel or all.
	OutputFormat string `koanf:"output_format"`

	// OutputPath is the report base name, without extension.
	OutputPath string `koanf:"output_path"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		WorkerCount:        runtime.NumCPU() * 2,
		QueueSize:          1024,
		TopN:               ranking.DefaultTopN,
		MaxResultsLimit:    100,
		PopulationWeight:   scoring.DefaultPopulationWeight,
		SupplyWeight:       scoring.DefaultSupplyWeight,
		DemandWeight:       scoring.DefaultDemandWeight,
		CensusBaseURL:      source.DefaultCensusBaseURL,
		CensusYear:         source.DefaultCensusYear,
		CensusRatePerSec:   source.DefaultRatePerSecond,
		RentCastBaseURL:    source.DefaultRentCastBaseURL,
		RentCastRatePerSec: source.DefaultRatePerSecond,
		HTTPTimeoutMS:      int(source.DefaultTimeout / time.Millisecond),
		MaxRetries:         source.DefaultMaxRetries,
		OutputFormat:       FormatCSV,
		OutputPath:         "rental_investment_report",
	}
}

// Weights returns the composite weights.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{
		Population: c.PopulationWeight,
		Supply:     c.SupplyWeight,
		Demand:     c.DemandWeight,
	}
}

// Criteria returns the configured filter thresholds.
func (c *Config) Criteria() ranking.Criteria {
	return ranking.Criteria{
		MinPopulation: c.MinPopulation,
		MaxListings:   c.MaxListings,
		MinScore:      c.MinScore,
	}
}

// HTTPTimeout returns the outbound request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}

// check reports the first hard configuration error.
func (c *Config) check() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.PopulationWeight < 0 || c.SupplyWeight < 0 || c.DemandWeight < 0:
		return fmt.Errorf("%w: weights must not be negative", ErrInvalidConfig)
	case c.TopN < 0:
		return fmt.Errorf("%w: top_n must not be negative", ErrInvalidConfig)
	case c.MaxResultsLimit < 1:
		return fmt.Errorf("%w: max_results_limit must be positive", ErrInvalidConfig)
	case c.HTTPTimeoutMS < 0:
		return fmt.Errorf("%w: http_timeout_ms must not be negative", ErrInvalidConfig)
	case c.MaxRetries < 0:
		return fmt.Errorf("%w: max_retries must not be negative", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch c.OutputFormat {
	case FormatCSV, FormatJSON, FormatExcel, FormatAll:
	default:
		return fmt.Errorf("%w: unknown output_format %q", ErrInvalidConfig, c.OutputFormat)
	}
	return nil
}

// Validate returns human-readable warnings about settings that are legal but
// probably not intended.
func (c *Config) Validate() []string {
	var warnings []string
	if c.CensusAPIKey == "" {
		warnings = append(warnings, "census_api_key is not set; the Census API allows a limited number of keyless requests per day")
	}
	if c.RentCastAPIKey == "" {
		warnings = append(warnings, "no rental market API key configured; demo data will be used for rental metrics")
	}
	if sum := c.Weights().Sum(); math.Abs(sum-1) > weightTolerance {
		warnings = append(warnings, fmt.Sprintf("scoring weights sum to %.3f, not 1.0; scores may fall outside 0-100", sum))
	}
	return warnings
}
