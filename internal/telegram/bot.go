package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/fdilabs/LevelGate_Go/internal/channels"
	"github.com/fdilabs/LevelGate_Go/internal/domain"
)

// CommandBot is the user-facing bot: it answers commands in private chats
// and forwards registrations to the core API.
type CommandBot struct {
	bot      *tgbot.Bot
	api      *APIClient
	registry *channels.Registry
}

// NewCommandBot creates the bot and registers its command handlers
func NewCommandBot(token string, api *APIClient, registry *channels.Registry) (*CommandBot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	cb := &CommandBot{api: api, registry: registry}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(cb.handleDefault),
	}

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	cb.bot = bot

	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, cb.handleStart)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/register", tgbot.MatchTypePrefix, cb.handleRegister)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/my_level", tgbot.MatchTypeExact, cb.handleMyLevel)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/channels", tgbot.MatchTypeExact, cb.handleChannels)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/health", tgbot.MatchTypeExact, cb.handleHealth)

	return cb, nil
}

// Start runs the update loop until the context is cancelled
func (cb *CommandBot) Start(ctx context.Context) {
	slog.Info("Telegram bot starting")
	cb.bot.Start(ctx)
	slog.Info("Telegram bot stopped")
}

func (cb *CommandBot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := cb.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		slog.Error("Failed to send reply", "chat_id", chatID, "error", err)
	}
}

func (cb *CommandBot) handleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	cb.reply(ctx, update.Message.Chat.ID,
		"Welcome. Use /register <level> to request access, /my_level to check your standing.")
}

func (cb *CommandBot) handleRegister(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	level := int(domain.MinLevel)
	fields := strings.Fields(update.Message.Text)
	if len(fields) > 1 {
		parsed, err := strconv.Atoi(fields[1])
		if err != nil || !domain.Level(parsed).Valid() {
			cb.reply(ctx, chatID, fmt.Sprintf("Level must be a number between %d and %d.", domain.MinLevel, domain.MaxLevel))
			return
		}
		level = parsed
	}

	from := update.Message.From
	registered, created, err := cb.api.RegisterUser(from.ID, from.FirstName, from.LastName, level)
	if err != nil {
		slog.Error("Registration failed", "telegram_id", from.ID, "error", err)
		cb.reply(ctx, chatID, "Registration failed. Please try again later.")
		return
	}

	switch {
	case registered.Status == domain.StatusActive:
		cb.reply(ctx, chatID, fmt.Sprintf("You are registered at level %d. Watch for invite links in this chat.", registered.Level))
	case created:
		cb.reply(ctx, chatID, fmt.Sprintf("Your level %d request is pending approval.", registered.Level))
	default:
		cb.reply(ctx, chatID, fmt.Sprintf("Your registration was updated. Level %d, status: %s.", registered.Level, registered.Status))
	}
}

func (cb *CommandBot) handleMyLevel(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	user, err := cb.api.GetUserByTelegramID(update.Message.From.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			cb.reply(ctx, chatID, "You are not registered yet. Use /register <level> to start.")
			return
		}
		slog.Error("Lookup failed", "telegram_id", update.Message.From.ID, "error", err)
		cb.reply(ctx, chatID, "Could not look you up right now. Please try again later.")
		return
	}

	cb.reply(ctx, chatID, fmt.Sprintf("Level %d, status: %s.", user.Level, user.Status))
}

func (cb *CommandBot) handleChannels(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	configured := cb.registry.Configured()
	if len(configured) == 0 {
		cb.reply(ctx, chatID, "No channels are configured yet.")
		return
	}

	var b strings.Builder
	b.WriteString("Channels are gated by access level:")
	for _, level := range configured {
		fmt.Fprintf(&b, "\nLevel %d: channel available", level)
	}
	cb.reply(ctx, chatID, b.String())
}

func (cb *CommandBot) handleHealth(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if err := cb.api.Healthz(); err != nil {
		cb.reply(ctx, chatID, "Core API is unreachable.")
		return
	}
	cb.reply(ctx, chatID, "All systems operational.")
}

func (cb *CommandBot) handleDefault(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	// Only nudge in private chats, never in the level channels.
	if update.Message.Chat.Type != "private" {
		return
	}
	cb.reply(ctx, update.Message.Chat.ID, "Unknown command. Try /start.")
}
