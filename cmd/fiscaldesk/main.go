// Command fiscaldesk runs the service-contract oversight API and its
// operational tooling: schema migration, database seeding, the committee
// deactivation sweep, and local token minting.
package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"fiscaldesk/internal/platform/config"
)

func main() {
	root := &cobra.Command{
		Use:           "fiscaldesk",
		Short:         "Service-contract oversight API and tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		serveCommand(),
		sweepCommand(),
		migrateCommand(),
		seedCommand(),
		tokenCommand(),
	)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openDB(cfg config.Server) (*sqlx.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}
