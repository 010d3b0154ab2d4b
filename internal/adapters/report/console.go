// Package report renders ranked results to the console and to CSV, JSON and
// XLSX files.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/rentscore/internal/domain/ranking"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	ruleWidth         = 70
	detailRuleWidth   = 80
	DefaultDetailRows = 20
)

// printer formats numbers with thousands separators.
var printer = message.NewPrinter(language.English)

// PrintSummary writes the run summary block. A nil summary prints a notice.
func PrintSummary(out io.Writer, s *ranking.Summary) {
	_, _ = fmt.Fprintf(out, "\n%s\nANALYSIS SUMMARY\n%s\n\n", rule(ruleWidth), rule(ruleWidth))
	if s == nil {
		_, _ = fmt.Fprintln(out, "No summary data available")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "  Total Zip Codes Analyzed:\t%d\n", s.Count)
	_, _ = fmt.Fprintf(w, "  Average Investment Score:\t%.2f/100\n", s.AvgInvestmentScore)
	_, _ = printer.Fprintf(w, "  Average Population:\t%.0f\n", s.AvgPopulation)
	_, _ = fmt.Fprintf(w, "  Average Rental Ratio:\t%.1f%%\n", s.AvgRentalRatio*100)
	_, _ = fmt.Fprintf(w, "  Average Listings:\t%.0f\n", s.AvgListings)
	_, _ = printer.Fprintf(w, "  Average Rent:\t$%.0f\n", s.AvgRent)
	_ = w.Flush()

	if s.TopRegion != "" {
		_, _ = fmt.Fprintf(out, "\n  Top Zip Code: %s (Score: %.2f)\n", s.TopRegion, s.TopScore)
	}
	_, _ = fmt.Fprintln(out)
}

// PrintTop writes the first n results as an aligned table.
func PrintTop(out io.Writer, rs ranking.ResultSet, n int) {
	if len(rs) == 0 {
		_, _ = fmt.Fprintln(out, "No results to display")
		return
	}
	top := rs.Top(n)

	_, _ = fmt.Fprintf(out, "%s\nTOP %d RENTAL INVESTMENT OPPORTUNITIES\n%s\n\n", rule(ruleWidth), len(top), rule(ruleWidth))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(w, "Rank\tZIP\tScore\tPopulation\tRenters\tListings\tAvg Rent\tSupply/Demand\t")
	for _, r := range top {
		_, _ = printer.Fprintf(w, "%d\t%s\t%.2f\t%d\t%d\t%d\t$%.0f\t%.3f\t\n",
			r.Rank,
			r.RegionCode,
			r.InvestmentScore,
			r.TotalPopulation,
			r.RenterPopulation,
			r.TotalListings,
			r.AverageRent,
			r.SupplyDemandRatio,
		)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintln(out)
}

// DetailedReport renders a per-region breakdown of the first n results.
// n <= 0 means DefaultDetailRows.
func DetailedReport(rs ranking.ResultSet, n int) string {
	if n <= 0 {
		n = DefaultDetailRows
	}

	var b strings.Builder
	b.WriteString("RENTAL INVESTMENT ANALYSIS - DETAILED REPORT\n")
	b.WriteString(rule(detailRuleWidth) + "\n\n")

	for _, r := range rs.Top(n) {
		_, _ = fmt.Fprintf(&b, "RANK #%d: ZIP CODE %s\n", r.Rank, r.RegionCode)
		b.WriteString(strings.Repeat("-", detailRuleWidth) + "\n")
		_, _ = fmt.Fprintf(&b, "  Investment Score:      %.2f/100\n", r.InvestmentScore)
		_, _ = fmt.Fprintf(&b, "  Population Score:      %.2f/100\n", r.PopulationScore)
		_, _ = fmt.Fprintf(&b, "  Supply Score:          %.2f/100\n", r.SupplyScore)
		_, _ = fmt.Fprintf(&b, "  Demand Score:          %.2f/100\n\n", r.DemandScore)
		_, _ = printer.Fprintf(&b, "  Total Population:      %d\n", r.TotalPopulation)
		_, _ = printer.Fprintf(&b, "  Renter Population:     %d\n", r.RenterPopulation)
		_, _ = fmt.Fprintf(&b, "  Rental Ratio:          %.1f%%\n", r.RentalRatio*100)
		_, _ = printer.Fprintf(&b, "  Median Income:         $%.0f\n\n", r.MedianIncome)
		_, _ = fmt.Fprintf(&b, "  Total Listings:        %d\n", r.TotalListings)
		_, _ = printer.Fprintf(&b, "  Average Rent:          $%.0f\n", r.AverageRent)
		_, _ = fmt.Fprintf(&b, "  Supply/Demand Ratio:   %.3f\n", r.SupplyDemandRatio)
		_, _ = fmt.Fprintf(&b, "  Days on Market:        %.0f\n", r.DaysOnMarket)
		_, _ = fmt.Fprintf(&b, "  YoY Rental Growth:     %.1f%%\n", r.RentalGrowthYoY*100)
		_, _ = fmt.Fprintf(&b, "  Data Quality:          %s\n\n\n", r.DataQuality)
	}
	return b.String()
}

func rule(n int) string { return strings.Repeat("=", n) }
