package main

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"finance-backend/internal/category"
	"finance-backend/internal/database"
	"finance-backend/internal/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Seed categories and start the HTTP API (default)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.WithError(err).Warn("closing database")
		}
	}()

	// Categories must exist before the first request can reference them.
	created, err := category.NewRepository(db).Seed(cmd.Context(), cfg.SeedCategories)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	logger.WithField("created", created).Info("categories seeded")

	app := server.New(cfg, db, logger)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		addr := net.JoinHostPort("", cfg.HTTPPort)
		logger.WithField("addr", addr).Info("server listening")
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(cfg.ShutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
