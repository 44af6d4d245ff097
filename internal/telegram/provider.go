// Package telegram adapts the Telegram Bot API to the channel provider,
// notifier and publisher interfaces the services consume.
package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbot "github.com/go-telegram/bot"

	"github.com/fdilabs/LevelGate_Go/internal/logger"
)

// Provider implements channel eviction, invite provisioning, direct
// messages and channel posts on top of a single bot connection.
type Provider struct {
	bot *tgbot.Bot
}

// NewProvider creates a bot connection for the given token
func NewProvider(token string) (*Provider, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	bot, err := tgbot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Provider{bot: bot}, nil
}

// NewProviderWithBot wraps an existing bot connection
func NewProviderWithBot(bot *tgbot.Bot) *Provider {
	return &Provider{bot: bot}
}

// EvictMember removes the user from the channel. The immediate unban keeps
// the user off the blacklist so a later upgrade can re-invite them.
func (p *Provider) EvictMember(ctx context.Context, channelID string, telegramID int64) error {
	_, err := p.bot.BanChatMember(ctx, &tgbot.BanChatMemberParams{
		ChatID: chatID(channelID),
		UserID: telegramID,
	})
	if err != nil {
		return fmt.Errorf("failed to evict member from %s: %w", channelID, err)
	}

	_, err = p.bot.UnbanChatMember(ctx, &tgbot.UnbanChatMemberParams{
		ChatID:       chatID(channelID),
		UserID:       telegramID,
		OnlyIfBanned: true,
	})
	if err != nil {
		// The eviction itself took effect; the user just stays banned.
		logger.FromContext(ctx).Warn("Failed to unban evicted member",
			"channel_id", channelID,
			"telegram_id", telegramID,
			"error", err)
	}
	return nil
}

// CreateInviteLink returns the channel's current primary invite link.
func (p *Provider) CreateInviteLink(ctx context.Context, channelID string) (string, error) {
	link, err := p.bot.ExportChatInviteLink(ctx, &tgbot.ExportChatInviteLinkParams{
		ChatID: chatID(channelID),
	})
	if err != nil {
		return "", fmt.Errorf("failed to export invite link for %s: %w", channelID, err)
	}
	return link, nil
}

// SendDirectMessage delivers a private message to the user
func (p *Provider) SendDirectMessage(ctx context.Context, telegramID int64, text string) error {
	_, err := p.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: telegramID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to send direct message to %d: %w", telegramID, err)
	}
	return nil
}

// PublishToChannel posts a message into a channel
func (p *Provider) PublishToChannel(ctx context.Context, channelID string, text string) error {
	_, err := p.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID(channelID),
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to channel %s: %w", channelID, err)
	}
	return nil
}

// chatID converts a configured channel id to the form the API expects:
// numeric ids go out as int64, "@name" references stay strings.
func chatID(channelID string) any {
	if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		return id
	}
	return channelID
}
