// The app binary runs the LevelGate core API: registration, approval,
// level synchronization and content publishing over REST.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fdilabs/LevelGate_Go/internal/access"
	"github.com/fdilabs/LevelGate_Go/internal/channels"
	"github.com/fdilabs/LevelGate_Go/internal/config"
	"github.com/fdilabs/LevelGate_Go/internal/content"
	"github.com/fdilabs/LevelGate_Go/internal/database"
	"github.com/fdilabs/LevelGate_Go/internal/database/postgres"
	"github.com/fdilabs/LevelGate_Go/internal/server"
	"github.com/fdilabs/LevelGate_Go/internal/telegram"
	"github.com/fdilabs/LevelGate_Go/internal/user"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	initLogger(cfg)
	for _, w := range warnings {
		slog.Warn(w)
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), 10, 30*time.Minute, time.Hour)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	userRepo := postgres.NewUserRepository(dbPool)
	contentRepo := postgres.NewContentRepository(dbPool)

	registry := channels.NewRegistry(cfg.LevelChannels)
	slog.Info("Channel registry loaded", "configured_levels", registry.Configured())

	provider, err := telegram.NewProvider(cfg.TelegramToken)
	if err != nil {
		return err
	}

	synchronizer := access.NewSynchronizer(registry, userRepo, provider, provider, access.DefaultCallTimeout)
	userService := user.NewService(userRepo, synchronizer)
	contentService := content.NewService(contentRepo, registry, provider)

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, dbPool, userService, contentService)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
	return nil
}
