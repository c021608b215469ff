package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"fiscaldesk/internal/platform/config"
	"fiscaldesk/internal/platform/logger"
	"fiscaldesk/internal/store"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromEnv()
			log := logger.New()

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := store.ApplySchema(cmd.Context(), db); err != nil {
				return err
			}
			log.Info("schema applied")
			return nil
		},
	}
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Apply the schema and load development fixtures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromEnv()
			log := logger.New()
			slog.SetDefault(log)

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := store.ApplySchema(ctx, db); err != nil {
				return err
			}
			if err := store.Seed(ctx, store.NewPostgres(db), time.Now()); err != nil {
				return err
			}
			log.Info("development fixtures loaded")
			return nil
		},
	}
}
