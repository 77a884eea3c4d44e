package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finance-backend/internal/category"
	"finance-backend/internal/database"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create missing categories from SEED_CATEGORIES and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer database.Close(db)

			created, err := category.NewRepository(db).Seed(cmd.Context(), cfg.SeedCategories)
			if err != nil {
				return fmt.Errorf("seed categories: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d of %d categories\n", created, len(cfg.SeedCategories))
			return nil
		},
	}
}
