package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/cobra"

	"github.com/okian/rentscore/internal/adapters/regions"
	app "github.com/okian/rentscore/internal/app"
	"github.com/okian/rentscore/internal/config"
	"github.com/okian/rentscore/internal/domain/ranking"
)

func newRegionCmd(args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	addRegionFlags(cmd)
	cmd.SetArgs(args)
	_ = cmd.Execute()
	return cmd
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		names := map[string]bool{}
		for _, c := range rootCmd.Commands() {
			names[c.Name()] = true
		}

		convey.Convey("Then every subcommand should be registered", func() {
			for _, n := range []string{"analyze", "metros", "serve"} {
				convey.So(names[n], convey.ShouldBeTrue)
			}
			convey.So(rootCmd.Use, convey.ShouldEqual, "rentscore")
		})

		convey.Convey("Then analyze should expose its flags with defaults", func() {
			convey.So(analyzeCmd.Flags().Lookup("top").DefValue, convey.ShouldEqual, "50")
			convey.So(analyzeCmd.Flags().Lookup("format").DefValue, convey.ShouldEqual, "csv")
			convey.So(analyzeCmd.Flags().Lookup("output").DefValue, convey.ShouldEqual, "rental_investment_report")
			convey.So(serveCmd.Flags().Lookup("addr"), convey.ShouldNotBeNil)
		})
	})
}

func TestResolveRegions(t *testing.T) {
	convey.Convey("Given region selection flags", t, func() {
		convey.Convey("When an explicit list is given", func() {
			codes, err := resolveRegions(newRegionCmd("--zipcodes", "10001, 90210,60614"))

			convey.So(err, convey.ShouldBeNil)
			convey.So(codes, convey.ShouldResemble, []string{"10001", "90210", "60614"})
		})

		convey.Convey("When a metro is given with a limit", func() {
			codes, err := resolveRegions(newRegionCmd("--metro", "austin", "--limit", "3"))
			all, _ := regions.MetroCodes("Austin")

			convey.So(err, convey.ShouldBeNil)
			convey.So(codes, convey.ShouldResemble, all[:3])
		})

		convey.Convey("When the metro is unknown", func() {
			_, err := resolveRegions(newRegionCmd("--metro", "Atlantis"))

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "NYC")
		})

		convey.Convey("When nothing is given", func() {
			codes, err := resolveRegions(newRegionCmd())

			convey.Convey("Then the default sample should be used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(codes), convey.ShouldEqual, regions.DefaultSampleSize)
			})
		})

		convey.Convey("When a file is given", func() {
			path := filepath.Join(t.TempDir(), "zips.txt")
			convey.So(os.WriteFile(path, []byte("10001\n\n30301\n"), 0o600), convey.ShouldBeNil)

			codes, err := resolveRegions(newRegionCmd("--zipcode-file", path))
			convey.So(err, convey.ShouldBeNil)
			convey.So(codes, convey.ShouldResemble, []string{"10001", "30301"})
		})
	})
}

func TestApplyRankingFlags(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		c := config.New(context.Background())

		convey.Convey("When no ranking flag is set", func() {
			applyRankingFlags(newRegionCmd(), c)

			convey.Convey("Then the config should be untouched", func() {
				convey.So(c.TopN, convey.ShouldEqual, ranking.DefaultTopN)
				convey.So(c.Criteria().IsZero(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When thresholds are set, including a zero", func() {
			applyRankingFlags(newRegionCmd("--top", "5", "--max-listings", "0", "--min-score", "61.5"), c)

			convey.Convey("Then they should become criteria", func() {
				convey.So(c.TopN, convey.ShouldEqual, 5)
				convey.So(*c.MaxListings, convey.ShouldEqual, 0)
				convey.So(*c.MinScore, convey.ShouldEqual, 61.5)
				convey.So(c.MinPopulation, convey.ShouldBeNil)
			})
		})
	})
}

func TestPrintMetros(t *testing.T) {
	convey.Convey("When listing metros", t, func() {
		var buf bytes.Buffer
		convey.So(printMetros(&buf), convey.ShouldBeNil)

		convey.Convey("Then each metro should be shown with its size", func() {
			out := buf.String()
			for _, m := range regions.Metros() {
				convey.So(out, convey.ShouldContainSubstring, m)
			}
			convey.So(out, convey.ShouldContainSubstring, "(24 zip codes)")
		})
	})
}

func TestDocumentFor(t *testing.T) {
	convey.Convey("Given a finished run", t, func() {
		started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		rep := &app.Report{RunID: "run-1", StartedAt: started, Duration: 2 * time.Second}

		convey.Convey("Then the document should carry its id and finish time", func() {
			doc := documentFor(rep)
			convey.So(doc.RunID, convey.ShouldEqual, "run-1")
			convey.So(doc.GeneratedAt, convey.ShouldEqual, started.Add(2*time.Second))
		})
	})
}

func TestAnalyzeCommand(t *testing.T) {
	convey.Convey("Given a census stub and an output directory", t, func() {
		census := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			zip := strings.TrimPrefix(r.URL.Query().Get("for"), "zip code tabulation area:")
			fmt.Fprintf(w, `[["NAME","B01003_001E","B25003_002E","B25003_003E","B19013_001E"],["ZCTA5 %s","30000","6000","9000","70000"]]`, zip)
		}))
		defer census.Close()

		dir := t.TempDir()
		base := filepath.Join(dir, "report")
		_ = os.Setenv("RENTSCORE_CENSUS_BASE_URL", census.URL)
		_ = os.Setenv("RENTSCORE_CENSUS_RATE_PER_SEC", "0")
		_ = os.Setenv("RENTSCORE_DOTENV", filepath.Join(dir, "none.env"))
		defer func() {
			_ = os.Unsetenv("RENTSCORE_CENSUS_BASE_URL")
			_ = os.Unsetenv("RENTSCORE_CENSUS_RATE_PER_SEC")
			_ = os.Unsetenv("RENTSCORE_DOTENV")
		}()
		_ = os.WriteFile(filepath.Join(dir, "none.env"), nil, 0o600)

		convey.Convey("When analyzing a list of zip codes in every format", func() {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetArgs([]string{"analyze", "--zipcodes", "10001,10002,10001", "--format", "all", "--output", base, "--log-level", "error"})
			err := rootCmd.ExecuteContext(context.Background())

			convey.Convey("Then it should print the summary and write every report", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.String(), convey.ShouldContainSubstring, "Reports saved:")
				for _, ext := range []string{".csv", ".json", ".xlsx"} {
					_, statErr := os.Stat(base + ext)
					convey.So(statErr, convey.ShouldBeNil)
				}
			})
		})
	})
}
