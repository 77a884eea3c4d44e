package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"finance-backend/internal/config"
	"finance-backend/internal/logging"
)

var envFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Personal finance tracker API",
		Long:          "Records income and expense transactions and serves dashboard summaries over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")

	root.AddCommand(serveCmd(), seedCmd(), tokenCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads and validates the config and builds the logger every subcommand uses.
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}
	return cfg, logger, nil
}
