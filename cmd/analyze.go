package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/rentscore/internal/adapters/report"
	app "github.com/okian/rentscore/internal/app"
	"github.com/okian/rentscore/pkg/logger"
)

const consoleTopRows = 10

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score, rank and report zip codes",
	Example: `  rentscore analyze --zipcodes "10001,10002,10003"
  rentscore analyze --metro NYC --top 20
  rentscore analyze --zipcode-file zipcodes.txt --format all
  rentscore analyze --metro Dallas --min-population 20000 --max-listings 300`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := logger.Get()
		out := cmd.OutOrStdout()

		applyRankingFlags(cmd, cfg)
		if cmd.Flags().Changed("format") {
			cfg.OutputFormat, _ = cmd.Flags().GetString("format")
		}
		if cmd.Flags().Changed("output") {
			cfg.OutputPath, _ = cmd.Flags().GetString("output")
		}
		format, err := report.ParseFormat(cfg.OutputFormat)
		if err != nil {
			return err
		}
		warnConfig(ctx, cfg, log)

		codes, err := resolveRegions(cmd)
		if err != nil {
			return err
		}

		svc := newService(cfg, log)
		rep, err := svc.Analyze(ctx, codes)
		if err != nil {
			return err
		}
		if len(rep.Results) == 0 {
			return errNoResults
		}

		report.PrintSummary(out, rep.Summary)
		report.PrintTop(out, rep.Results, consoleTopRows)
		if detailed, _ := cmd.Flags().GetBool("detailed"); detailed {
			fmt.Fprintln(out, report.DetailedReport(rep.Results, report.DefaultDetailRows))
		}

		paths, err := report.Save(ctx, format, cfg.OutputPath, documentFor(rep))
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		printSaved(out, paths)
		return nil
	},
}

func init() {
	addRegionFlags(analyzeCmd)
	analyzeCmd.Flags().String("output", report.DefaultBaseName, "output file name without extension")
	analyzeCmd.Flags().String("format", string(report.FormatCSV), "output format: csv, json, excel, all")
	analyzeCmd.Flags().Bool("detailed", false, "print a per-region breakdown")
	rootCmd.AddCommand(analyzeCmd)
}

func documentFor(rep *app.Report) report.Document {
	return report.Document{
		RunID:       rep.RunID,
		GeneratedAt: rep.StartedAt.Add(rep.Duration),
		Summary:     rep.Summary,
		Results:     rep.Results,
	}
}

func printSaved(out io.Writer, paths []string) {
	if len(paths) == 1 {
		fmt.Fprintf(out, "\nReport saved to: %s\n", paths[0])
		return
	}
	fmt.Fprintln(out, "\nReports saved:")
	for _, p := range paths {
		fmt.Fprintf(out, "  - %s\n", p)
	}
}
