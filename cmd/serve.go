package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/rentscore/internal/adapters/http/api"
	"github.com/okian/rentscore/pkg/logger"
	"github.com/okian/rentscore/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run one analysis and serve its results over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := logger.Get()

		applyRankingFlags(cmd, cfg)
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		warnConfig(ctx, cfg, log)

		codes, err := resolveRegions(cmd)
		if err != nil {
			return err
		}

		metrics.StartSystemCollector(ctx)

		svc := newService(cfg, log)
		rep, err := svc.Analyze(ctx, codes)
		if err != nil {
			return err
		}
		if len(rep.Results) == 0 {
			log.Warn(ctx, "analysis produced no results; serving empty set")
		}

		apiServer := api.NewServer(svc, svc,
			api.WithMaxResultsLimit(cfg.MaxResultsLimit),
			api.WithLogger(log),
		)
		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           apiServer.Handler(ctx),
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
		}
		return runServer(ctx, srv, log)
	},
}

func init() {
	addRegionFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "HTTP listen address (overrides config addr)")
	rootCmd.AddCommand(serveCmd)
}

// runServer serves until ctx ends, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info(shutdownCtx, "server stopped")
	return nil
}
