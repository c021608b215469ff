package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	oversightservice "fiscaldesk/internal/oversight/service"
	"fiscaldesk/internal/platform/auth"
	"fiscaldesk/internal/platform/config"
	"fiscaldesk/internal/platform/httpserver"
	"fiscaldesk/internal/platform/logger"
	"fiscaldesk/internal/platform/metrics"
	"fiscaldesk/internal/platform/redis"
	reportservice "fiscaldesk/internal/report/service"
	rosterservice "fiscaldesk/internal/roster/service"
	"fiscaldesk/internal/store"
	httptransport "fiscaldesk/internal/transport/http"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	st := store.NewPostgres(db)

	m := metrics.New(prometheus.DefaultRegisterer)
	tokens := auth.NewTokenService(cfg.JWTSigningKey)

	reportOpts := []reportservice.Option{reportservice.WithMetrics(m)}
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		// The dashboard degrades to recomputation without a cache; a broken
		// Redis must not keep the API down.
		log.Warn("redis unavailable, dashboard cache disabled", "error", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		reportOpts = append(reportOpts,
			reportservice.WithCache(reportservice.NewRedisCache(redisClient, cfg.DashboardCacheTTL, log)))
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Tokens:    tokens,
		Roster:    rosterservice.New(st, rosterservice.WithLogger(log)),
		Oversight: oversightservice.New(st, oversightservice.WithLogger(log), oversightservice.WithMetrics(m)),
		Reports:   reportservice.New(st, reportOpts...),
		Metrics:   m,
	})

	srv := httpserver.New(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("fiscaldesk listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
