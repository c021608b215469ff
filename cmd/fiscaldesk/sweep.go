package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	oversightservice "fiscaldesk/internal/oversight/service"
	"fiscaldesk/internal/platform/config"
	"fiscaldesk/internal/platform/logger"
	"fiscaldesk/internal/store"
	"fiscaldesk/pkg/requestcontext"
)

func sweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Deactivate committees whose end date has passed",
		Long: "Flips active=false on every committee whose end date lies strictly " +
			"before today. Idempotent; meant to run daily from cron.",
		RunE: runSweep,
	}
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := oversightservice.New(store.NewPostgres(db), oversightservice.WithLogger(log))

	// One reference date for the whole batch, even across midnight.
	ctx := requestcontext.WithTime(cmd.Context(), time.Now())
	swept, err := svc.SweepExpiredCommittees(ctx, requestcontext.Today(ctx))
	if err != nil {
		return err
	}
	log.Info("sweep complete", "deactivated", swept)
	return nil
}
