// The bot binary runs the user-facing Telegram bot. It holds no state of
// its own; every command is served through the core API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fdilabs/LevelGate_Go/internal/channels"
	"github.com/fdilabs/LevelGate_Go/internal/config"
	"github.com/fdilabs/LevelGate_Go/internal/logger"
	"github.com/fdilabs/LevelGate_Go/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName+"-bot",
		cfg.Version,
		cfg.Environment,
		false,
	))

	api := telegram.NewAPIClient(cfg.APIBaseURL, cfg.APIKey)
	registry := channels.NewRegistry(cfg.LevelChannels)

	bot, err := telegram.NewCommandBot(cfg.TelegramToken, api, registry)
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot.Start(ctx)
}
