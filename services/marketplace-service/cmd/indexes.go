package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/server"
)

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			client, err := server.ConnectMongo(cmd.Context(), cfg.Mongo)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Disconnect(context.Background())
			}()

			return server.EnsureIndexes(cmd.Context(), logger, client.Database(cfg.Mongo.Database))
		},
	}
}
