package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/vilain-Petit-Canard/API-Films/internal/config"
	"github.com/vilain-Petit-Canard/API-Films/internal/logger"
	"github.com/vilain-Petit-Canard/API-Films/internal/server"
)

// @title API Films
// @version 1.0
// @description Films, generic records and user accounts over a document store.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
