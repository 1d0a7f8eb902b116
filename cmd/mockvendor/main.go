package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/skybi/session-report/internal/api/vendor"
	"github.com/skybi/session-report/internal/config"
)

func main() {
	// Set up zerolog to use pretty printing
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})
	log.Info().Msg("starting up...")

	// Load the application configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.ClientID == "" || cfg.Secret == "" {
		log.Fatal().Msg("SR_CLIENT_ID and SR_SECRET have to be set")
	}

	// Generate the served dataset
	dataset := vendor.GenerateDataset(cfg.ClientID, cfg.Secret, cfg.MockUsers)
	log.Info().Int("users", len(dataset.Users)).Int("users_with_sessions", dataset.Sessions.Size()).Msg("generated dataset")

	// Start up the mock vendor API
	log.Info().Str("address", cfg.MockListenAddress).Msg("starting up mock vendor API...")
	service := &vendor.Service{
		Dataset: dataset,
	}
	go func() {
		if err := service.Startup(cfg.MockListenAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("the mock vendor API raised an unexpected error")
		}
	}()
	defer func() {
		log.Info().Msg("shutting down the mock vendor API...")
		service.Shutdown()
	}()

	log.Info().Msg("done!")
	defer log.Info().Msg("shutting down...")

	// Wait for the application to be terminated
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)
	<-shutdown
}
