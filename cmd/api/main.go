package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"lenslab/internal/auth"
	"lenslab/internal/http/handlers"
	"lenslab/internal/http/httpapi"
	"lenslab/internal/infra"
	"lenslab/internal/store"
)

func main() {
	// Load .env when present.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	users, err := store.NewUserStore(cfg.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open user store")
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.AppEnv == "production")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build token manager")
	}

	app := handlers.NewApp(cfg, logger, users, tokens)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("server stopped")
}
