package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/rentscore/internal/domain/model"
	"github.com/okian/rentscore/internal/domain/ranking"
	"github.com/okian/rentscore/pkg/metrics"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/sync/errgroup"
)

// Format selects the file output.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "excel"
	FormatAll   Format = "all"
)

// DefaultBaseName is the file name, without extension, used when none is given.
const DefaultBaseName = "rental_investment_report"

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatExcel, FormatAll:
		return f, nil
	case "xlsx":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Document is what file writers persist for one analysis run.
type Document struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Summary     *ranking.Summary  `json:"summary"`
	Results     ranking.ResultSet `json:"results"`
}

var csvHeader = []string{
	"rank", "zipcode", "investment_score", "population_score", "supply_score", "demand_score",
	"total_population", "renter_population", "rental_ratio", "total_listings", "average_rent",
	"median_income", "supply_demand_ratio", "rental_growth_yoy", "days_on_market", "data_quality",
}

func row(r *model.InvestmentResult) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return []string{
		strconv.Itoa(r.Rank),
		r.RegionCode,
		f(r.InvestmentScore),
		f(r.PopulationScore),
		f(r.SupplyScore),
		f(r.DemandScore),
		strconv.Itoa(r.TotalPopulation),
		strconv.Itoa(r.RenterPopulation),
		f(r.RentalRatio),
		strconv.Itoa(r.TotalListings),
		f(r.AverageRent),
		f(r.MedianIncome),
		f(r.SupplyDemandRatio),
		f(r.RentalGrowthYoY),
		f(r.DaysOnMarket),
		string(r.DataQuality),
	}
}

// WriteCSV writes one header row and one row per result.
func WriteCSV(w io.Writer, rs ranking.ResultSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range rs {
		if err := cw.Write(row(&rs[i])); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the document as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	if doc.Results == nil {
		doc.Results = ranking.ResultSet{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteXLSX saves a workbook with a Summary sheet and a Results sheet.
func WriteXLSX(path string, doc Document) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	addRow(summary, "run_id", "total_zipcodes_analyzed", "avg_investment_score", "avg_population",
		"avg_rental_ratio", "avg_listings", "avg_rent", "top_zipcode", "top_score")
	if s := doc.Summary; s != nil {
		r := summary.AddRow()
		r.AddCell().SetString(doc.RunID)
		r.AddCell().SetInt(s.Count)
		r.AddCell().SetFloat(s.AvgInvestmentScore)
		r.AddCell().SetFloat(s.AvgPopulation)
		r.AddCell().SetFloat(s.AvgRentalRatio)
		r.AddCell().SetFloat(s.AvgListings)
		r.AddCell().SetFloat(s.AvgRent)
		r.AddCell().SetString(s.TopRegion)
		r.AddCell().SetFloat(s.TopScore)
	}

	results, err := f.AddSheet("Results")
	if err != nil {
		return fmt.Errorf("add results sheet: %w", err)
	}
	addRow(results, csvHeader...)
	for i := range doc.Results {
		res := &doc.Results[i]
		r := results.AddRow()
		r.AddCell().SetInt(res.Rank)
		r.AddCell().SetString(res.RegionCode)
		r.AddCell().SetFloat(res.InvestmentScore)
		r.AddCell().SetFloat(res.PopulationScore)
		r.AddCell().SetFloat(res.SupplyScore)
		r.AddCell().SetFloat(res.DemandScore)
		r.AddCell().SetInt(res.TotalPopulation)
		r.AddCell().SetInt(res.RenterPopulation)
		r.AddCell().SetFloat(res.RentalRatio)
		r.AddCell().SetInt(res.TotalListings)
		r.AddCell().SetFloat(res.AverageRent)
		r.AddCell().SetFloat(res.MedianIncome)
		r.AddCell().SetFloat(res.SupplyDemandRatio)
		r.AddCell().SetFloat(res.RentalGrowthYoY)
		r.AddCell().SetFloat(res.DaysOnMarket)
		r.AddCell().SetString(string(res.DataQuality))
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	r := sheet.AddRow()
	for _, v := range values {
		r.AddCell().SetString(v)
	}
}

// Save writes doc in the requested format(s) next to base and returns the
// written paths in csv, json, xlsx order. With FormatAll the files are
// written concurrently.
func Save(ctx context.Context, format Format, base string, doc Document) ([]string, error) {
	if len(doc.Results) == 0 {
		return nil, ErrNoResults
	}
	if base == "" {
		base = DefaultBaseName
	}
	base = strings.TrimSuffix(base, filepathExt(base))

	var formats []Format
	switch format {
	case FormatAll:
		formats = []Format{FormatCSV, FormatJSON, FormatExcel}
	case FormatCSV, FormatJSON, FormatExcel:
		formats = []Format{format}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	paths := make([]string, len(formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := saveOne(f, base, doc)
			if err != nil {
				return err
			}
			paths[i] = p
			metrics.RecordReportWritten(string(f))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func saveOne(f Format, base string, doc Document) (string, error) {
	switch f {
	case FormatExcel:
		p := base + ".xlsx"
		return p, WriteXLSX(p, doc)
	case FormatJSON:
		p := base + ".json"
		return p, writeFile(p, func(w io.Writer) error { return WriteJSON(w, doc) })
	default:
		p := base + ".csv"
		return p, writeFile(p, func(w io.Writer) error { return WriteCSV(w, doc.Results) })
	}
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return write(file)
}

// filepathExt returns the extension only when it is one Save would produce.
func filepathExt(p string) string {
	for _, ext := range []string{".csv", ".json", ".xlsx"} {
		if strings.HasSuffix(strings.ToLower(p), ext) {
			return p[len(p)-len(ext):]
		}
	}
	return ""
}
