package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/rentscore/internal/config"
	"github.com/okian/rentscore/pkg/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "rentscore",
	Short: "Rank ZIP codes for rental property investment",
	Long: "Scores ZIP codes from census demographics and rental market data, ranks them and " +
		"writes console, CSV, JSON or Excel reports. The serve command exposes the latest run over HTTP.\n\n" +
		"Settings come from RENTSCORE_* environment variables, an optional .env file and --config. " +
		"API keys may also be given as CENSUS_API_KEY and RENTCAST_API_KEY.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			if err := os.Setenv(config.EnvConfigFile, path); err != nil {
				return fmt.Errorf("set config path: %w", err)
			}
		}

		c, err := config.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("log-level") {
			c.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		cfg = c

		if err := logger.Init(logger.WithJSON(cfg.LogFormat == "json")); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		if err := logger.SetLevelString(cfg.LogLevel); err != nil {
			logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
				logger.String("log_level", cfg.LogLevel), logger.Error(err))
			_ = logger.SetLevelString("info")
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (overrides "+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
