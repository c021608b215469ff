package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fiscaldesk/internal/platform/auth"
	"fiscaldesk/internal/platform/config"
)

func tokenCommand() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a local access token for development",
		Long: "Signs a bearer token with the configured JWT_SIGNING_KEY. " +
			"Production tokens come from the identity provider; this exists " +
			"for local testing and scripted checks.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromEnv()
			token, err := auth.NewTokenService(cfg.JWTSigningKey).Issue(subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "local.dev", "token subject")
	cmd.Flags().StringVar(&role, "role", auth.RoleAuditor, "privilege tier: admin or auditor")
	cmd.Flags().DurationVar(&ttl, "ttl", 8*time.Hour, "token lifetime")
	return cmd
}
