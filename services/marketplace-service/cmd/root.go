package main

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/config"
)

const serviceName = "marketplace-service"

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "propify",
		Short:         "Propify marketplace API",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine; the process environment is used as is.
			_ = godotenv.Load(envFile)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(newServeCmd(), newIndexesCmd())

	return root
}

// loadConfig parses the environment and builds the process logger from it.
func loadConfig() (*config.Config, *zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg.App.LogLevel, cfg.App.LogFormat, os.Stdout)
	return cfg, logger, nil
}

func newLogger(level, format string, out io.Writer) *zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	return &logger
}
