package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/skybi/session-report/internal/app"
	"github.com/skybi/session-report/internal/config"
	"github.com/skybi/session-report/internal/logging"
	"github.com/skybi/session-report/internal/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	console := logging.Console()

	// Load the application configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		console.Error().Err(err).Msg("could not load the configuration")
		return 1
	}
	if cfg.IsEnvProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	application := &app.App{
		Config: cfg,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
	summary, err := application.Run(ctx)
	if err != nil {
		if errors.Is(err, report.ErrDirectoryNotFound) {
			fmt.Fprintf(os.Stderr, "Error: %s.\n", err)
			return 1
		}
		console.Error().Err(err).Msgf("the report could not be generated; see %s for details", cfg.ExecutionLog)
		return 1
	}

	if !summary.Complete {
		console.Warn().Msg("the user listing stopped early; the report is incomplete")
	}
	console.Info().
		Str("path", summary.OutputPath).
		Int("users", summary.Users).
		Int("rows", summary.Rows).
		Msg("report written")
	return 0
}
