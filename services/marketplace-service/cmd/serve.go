package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx, cfg, logger)
			if err != nil {
				logger.Error().Err(err).Msg("failed to start server")
				return err
			}

			if err := srv.Start(ctx); err != nil {
				logger.Error().Err(err).Msg("server stopped unexpectedly")
				return err
			}

			logger.Info().Msg("server stopped")
			return nil
		},
	}
}
