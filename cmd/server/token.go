package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finance-backend/internal/auth"
)

func tokenCmd() *cobra.Command {
	var (
		client string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for AUTH_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			if cfg.AuthSecret == "" {
				return errors.New("AUTH_SECRET is not set, the API does not require tokens")
			}

			tok, err := auth.GenerateToken(cfg.AuthSecret, client, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&client, "client", "web", "client name stored in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime, 0 for no expiry")
	return cmd
}
