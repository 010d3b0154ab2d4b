package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/rentscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New(ctx))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RENTSCORE_ADDR", ":8080")
			_ = os.Setenv("RENTSCORE_WORKER_COUNT", "16")
			_ = os.Setenv("RENTSCORE_TOP_N", "10")
			_ = os.Setenv("RENTSCORE_SUPPLY_WEIGHT", "0.5")
			_ = os.Setenv("RENTSCORE_MIN_POPULATION", "10000")
			_ = os.Setenv("RENTSCORE_RENTCAST_API_KEY", "secret")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.TopN, convey.ShouldEqual, 10)
				convey.So(cfg.SupplyWeight, convey.ShouldEqual, 0.5)
				convey.So(cfg.RentCastAPIKey, convey.ShouldEqual, "secret")
			})

			convey.Convey("Then a set threshold should become a criterion", func() {
				c := cfg.Criteria()
				convey.So(c.MinPopulation, convey.ShouldNotBeNil)
				convey.So(*c.MinPopulation, convey.ShouldEqual, 10000)
				convey.So(c.MaxListings, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempFile(`
addr: ":9090"
queue_size: 64
top_n: 0
min_score: 55.5
output_format: all
census_year: 2021
`, "*.yaml")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("RENTSCORE_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.TopN, convey.ShouldEqual, 0)
				convey.So(*cfg.MinScore, convey.ShouldEqual, 55.5)
				convey.So(cfg.OutputFormat, convey.ShouldEqual, config.FormatAll)
				convey.So(cfg.CensusYear, convey.ShouldEqual, 2021)
				convey.So(cfg.MaxResultsLimit, convey.ShouldEqual, 100)
			})

			convey.Convey("And env should win over the file", func() {
				_ = os.Setenv("RENTSCORE_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
			})
		})

		convey.Convey("When a .env file is configured", func() {
			tmpFile := createTempFile("RENTSCORE_CENSUS_API_KEY=from-dotenv\nRENTSCORE_ADDR=:6060\n", "*.env")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("RENTSCORE_DOTENV", tmpFile)
			_ = os.Setenv("RENTSCORE_ADDR", ":5050")

			cfg, err := config.Load(ctx)

			convey.Convey("Then its values should be loaded without overriding real env", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CensusAPIKey, convey.ShouldEqual, "from-dotenv")
				convey.So(cfg.Addr, convey.ShouldEqual, ":5050")
			})
		})

		convey.Convey("When the configured .env file is missing", func() {
			_ = os.Setenv("RENTSCORE_DOTENV", "/nonexistent/.env")

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the .env variable is set but empty and no ./.env exists", func() {
			_ = os.Setenv("RENTSCORE_DOTENV", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should be treated as unset", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New(ctx))
			})
		})

		convey.Convey("When an older .env uses unprefixed API keys", func() {
			tmpFile := createTempFile("CENSUS_API_KEY=legacy-census\nRENTCAST_API_KEY=legacy-rentcast\n", "*.env")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("RENTSCORE_DOTENV", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then both keys should be picked up", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CensusAPIKey, convey.ShouldEqual, "legacy-census")
				convey.So(cfg.RentCastAPIKey, convey.ShouldEqual, "legacy-rentcast")
			})

			convey.Convey("And a prefixed key should take precedence", func() {
				_ = os.Setenv("RENTSCORE_RENTCAST_API_KEY", "current")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.RentCastAPIKey, convey.ShouldEqual, "current")
				convey.So(cfg.CensusAPIKey, convey.ShouldEqual, "legacy-census")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempFile("addr: [unclosed\n", "*.yaml")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("RENTSCORE_CONFIG", tmpFile)

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("RENTSCORE_CONFIG", "/nonexistent/config.yaml")

			_, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("RENTSCORE_WORKER_COUNT", "many")

			_, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestConfigLoaderValidation(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		cases := []struct{ key, value string }{
			{"RENTSCORE_ADDR", ""},
			{"RENTSCORE_POPULATION_WEIGHT", "-0.1"},
			{"RENTSCORE_TOP_N", "-1"},
			{"RENTSCORE_OUTPUT_FORMAT", "pdf"},
			{"RENTSCORE_LOG_FORMAT", "xml"},
			{"RENTSCORE_MAX_RESULTS_LIMIT", "0"},
			{"RENTSCORE_MAX_RETRIES", "-2"},
		}

		for _, tc := range cases {
			key, value := tc.key, tc.value
			convey.Convey("When "+key+" is "+value, func() {
				if value == "" {
					tmpFile := createTempFile("addr: \"\"\n", "*.yaml")
					defer func() { _ = os.Remove(tmpFile) }()
					_ = os.Setenv("RENTSCORE_CONFIG", tmpFile)
				} else {
					_ = os.Setenv(key, value)
				}

				_, err := config.Load(ctx)

				convey.Convey("Then it should return a validation error", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"RENTSCORE_CONFIG",
		"RENTSCORE_DOTENV",
		"RENTSCORE_ADDR",
		"RENTSCORE_WORKER_COUNT",
		"RENTSCORE_TOP_N",
		"RENTSCORE_SUPPLY_WEIGHT",
		"RENTSCORE_POPULATION_WEIGHT",
		"RENTSCORE_MIN_POPULATION",
		"RENTSCORE_RENTCAST_API_KEY",
		"RENTSCORE_CENSUS_API_KEY",
		"RENTSCORE_OUTPUT_FORMAT",
		"RENTSCORE_LOG_FORMAT",
		"RENTSCORE_MAX_RESULTS_LIMIT",
		"RENTSCORE_MAX_RETRIES",
		"CENSUS_API_KEY",
		"RENTCAST_API_KEY",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempFile(content, pattern string) string {
	f, err := os.CreateTemp("", "rentscore-"+pattern)
	if err != nil {
		panic(err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(content); err != nil {
		panic(err)
	}
	return f.Name()
}
