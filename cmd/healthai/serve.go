// ABOUTME: CLI command for running the HTTP API.
// ABOUTME: Shuts down gracefully on SIGINT/SIGTERM within server.shutdown_timeout.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/harperreed/healthai/internal/api"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API.

ENDPOINTS:

  GET  /healthz                          liveness
  GET  /metrics                          Prometheus metrics
  POST /api/auth/register                create an account
  POST /api/auth/login                   log in (or {"isDemo": true})
  POST /api/auth/logout                  revoke the bearer token
  GET  /api/auth/me                      current user
  GET  /api/health/metrics               list metrics (?analyze=true)
  POST /api/health/metrics               record a metric
  GET  /api/health/insights              list insights
  POST /api/health/insights              generate an insight
  POST /api/health/chat                  ask the assistant
  GET  /api/health/sources               list data sources
  POST /api/health/sources/:id/connect   connect a data source

Requests without a bearer token may pass ?userId=demo-user-123.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := current.cfg
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		server, err := api.NewServer(current.svc, current.auth, current.tokens, current.logger, api.Config{
			Addr:      addr,
			RateLimit: cfg.Server.RateLimit,
			RateBurst: cfg.Server.RateBurst,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			current.logger.Error("graceful shutdown failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
