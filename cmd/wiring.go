package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/rentscore/internal/adapters/regions"
	"github.com/okian/rentscore/internal/adapters/source"
	app "github.com/okian/rentscore/internal/app"
	"github.com/okian/rentscore/internal/config"
	"github.com/okian/rentscore/internal/domain/ranking"
	"github.com/okian/rentscore/internal/domain/scoring"
	"github.com/okian/rentscore/pkg/logger"
)

var errNoResults = errors.New("no results after analysis")

// addRegionFlags registers the region selection and ranking flags shared by
// analyze and serve.
func addRegionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("zipcodes", "", "comma-separated list of zip codes")
	f.String("metro", "", "metro area name (e.g. NYC, LA, Chicago)")
	f.String("zipcode-file", "", "file with zip codes (.txt, .csv or .xlsx)")
	f.Int("limit", 0, "analyze at most this many zip codes")
	f.Int("min-population", 0, "minimum population filter")
	f.Int("max-listings", 0, "maximum rental listings filter")
	f.Float64("min-score", 0, "minimum investment score filter")
	f.Int("top", ranking.DefaultTopN, "number of top results to keep")
	cmd.MarkFlagsMutuallyExclusive("zipcodes", "metro", "zipcode-file")
}

// resolveRegions picks the requested zip codes: file, metro, explicit list,
// else a sample across all metros.
func resolveRegions(cmd *cobra.Command) ([]string, error) {
	f := cmd.Flags()
	file, _ := f.GetString("zipcode-file")
	metro, _ := f.GetString("metro")
	list, _ := f.GetString("zipcodes")
	limit, _ := f.GetInt("limit")

	var (
		codes []string
		err   error
	)
	switch {
	case file != "":
		codes, err = regions.LoadFile(file)
	case metro != "":
		codes, err = regions.MetroCodes(metro)
		if errors.Is(err, regions.ErrUnknownMetro) {
			err = fmt.Errorf("%w (available: %v)", err, regions.Metros())
		}
	case list != "":
		codes = regions.ParseList(list)
	default:
		size := limit
		if size <= 0 {
			size = regions.DefaultSampleSize
		}
		codes = regions.Sample(size)
	}
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(codes) > limit {
		codes = codes[:limit]
	}
	return codes, nil
}

// applyRankingFlags layers explicitly set flags over the loaded config.
func applyRankingFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("top") {
		c.TopN, _ = f.GetInt("top")
	}
	if f.Changed("min-population") {
		v, _ := f.GetInt("min-population")
		c.MinPopulation = &v
	}
	if f.Changed("max-listings") {
		v, _ := f.GetInt("max-listings")
		c.MaxListings = &v
	}
	if f.Changed("min-score") {
		v, _ := f.GetFloat64("min-score")
		c.MinScore = &v
	}
}

// newService builds the analysis service from config. Rental data comes from
// RentCast when a key is set and falls back to synthetic demo data.
func newService(c *config.Config, log logger.Logger) *app.Service {
	shared := []source.Option{
		source.WithTimeout(c.HTTPTimeout()),
		source.WithMaxRetries(c.MaxRetries),
		source.WithLogger(log.Named("source")),
	}

	census := source.NewCensusClient(append([]source.Option{
		source.WithBaseURL(c.CensusBaseURL),
		source.WithAPIKey(c.CensusAPIKey),
		source.WithYear(c.CensusYear),
		source.WithRate(c.CensusRatePerSec),
	}, shared...)...)

	var primary source.RentalSource
	if c.RentCastAPIKey != "" {
		primary = source.NewRentCastClient(append([]source.Option{
			source.WithBaseURL(c.RentCastBaseURL),
			source.WithAPIKey(c.RentCastAPIKey),
			source.WithRate(c.RentCastRatePerSec),
		}, shared...)...)
	}
	rental := source.Fallback(primary, source.NewSynthetic(), log.Named("rental"))

	return app.New(
		app.WithLogger(log),
		app.WithWorkerCount(c.WorkerCount),
		app.WithQueueSize(c.QueueSize),
		app.WithTopN(c.TopN),
		app.WithCriteria(c.Criteria()),
		app.WithScorer(scoring.NewInvestmentScorer(scoring.WithWeights(c.Weights()))),
		app.WithDemographicSource(census),
		app.WithRentalSource(rental),
	)
}

// warnConfig logs the config warnings once per run.
func warnConfig(ctx context.Context, c *config.Config, log logger.Logger) {
	for _, w := range c.Validate() {
		log.Warn(ctx, "configuration warning", logger.String("detail", w))
	}
}
