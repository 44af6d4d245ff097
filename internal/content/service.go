// Package content implements selective content publishing: contents are
// stored with visibility targets (levels or individual users) and can be
// pushed to the channel of a level on demand.
package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/fdilabs/LevelGate_Go/internal/channels"
	"github.com/fdilabs/LevelGate_Go/internal/domain"
	"github.com/fdilabs/LevelGate_Go/internal/logger"
	"github.com/fdilabs/LevelGate_Go/internal/metrics"
	"github.com/fdilabs/LevelGate_Go/internal/repository"
)

// ChannelPublisher posts a message into a group channel. Satisfied by the
// Telegram provider.
type ChannelPublisher interface {
	PublishToChannel(ctx context.Context, channelID string, text string) error
}

// PublishInput carries a publish request.
type PublishInput struct {
	Title    string
	Body     string
	Link     string
	AuthorID int64
	Levels   []domain.Level
	UserIDs  []int64
}

// Service defines the interface for content operations
type Service interface {
	// Publish stores a content and its visibility targets.
	Publish(ctx context.Context, input PublishInput) (*domain.Content, error)
	// History returns all contents, newest first, with their level sets.
	History(ctx context.Context) ([]domain.ContentWithLevels, error)
	// Notify pushes a stored content into the channel configured for the
	// level. Unlike the synchronizer's skip semantics, this operation
	// targets one channel explicitly, so a missing mapping is an error.
	Notify(ctx context.Context, contentID int64, level domain.Level) error
}

type service struct {
	repo      repository.Content
	registry  *channels.Registry
	publisher ChannelPublisher
}

// NewService creates a new content service
func NewService(repo repository.Content, registry *channels.Registry, publisher ChannelPublisher) Service {
	return &service{
		repo:      repo,
		registry:  registry,
		publisher: publisher,
	}
}

func (s *service) Publish(ctx context.Context, input PublishInput) (*domain.Content, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, fmt.Errorf("%w: title and body are required", domain.ErrInvalidInput)
	}
	for _, level := range input.Levels {
		if !level.Valid() {
			return nil, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
		}
	}

	content := &domain.Content{
		Title:    input.Title,
		Body:     input.Body,
		Link:     input.Link,
		AuthorID: input.AuthorID,
	}

	visibility := make([]domain.ContentVisibility, 0, len(input.Levels)+len(input.UserIDs))
	for _, level := range dedupeLevels(input.Levels) {
		l := level
		visibility = append(visibility, domain.ContentVisibility{LevelTarget: &l})
	}
	for _, userID := range dedupeIDs(input.UserIDs) {
		id := userID
		visibility = append(visibility, domain.ContentVisibility{UserID: &id})
	}

	if err := s.repo.CreateContent(ctx, content, visibility); err != nil {
		return nil, fmt.Errorf("failed to publish content: %w", err)
	}

	metrics.ContentPublished.Inc()
	logger.FromContext(ctx).Info("Content published",
		"content_id", content.ID,
		"levels", len(input.Levels),
		"users", len(input.UserIDs))
	return content, nil
}

func (s *service) History(ctx context.Context) ([]domain.ContentWithLevels, error) {
	return s.repo.ListContents(ctx)
}

func (s *service) Notify(ctx context.Context, contentID int64, level domain.Level) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}

	content, err := s.repo.GetContentByID(ctx, contentID)
	if err != nil {
		return err
	}

	channelID, ok := s.registry.ChannelFor(level)
	if !ok {
		return fmt.Errorf("%w: level %d", domain.ErrChannelNotConfigured, level)
	}

	// Pushing to a channel the content never targeted is allowed, but worth
	// flagging: it usually means a typo in the level.
	if targets, err := s.repo.ListVisibilityLevels(ctx, contentID); err == nil && !containsLevel(targets, level) {
		logger.FromContext(ctx).Warn("Content pushed to a level outside its visibility targets",
			"content_id", contentID,
			"level", int(level))
	}

	if err := s.publisher.PublishToChannel(ctx, channelID, renderChannelPost(content)); err != nil {
		return fmt.Errorf("failed to publish to channel: %w", err)
	}

	logger.FromContext(ctx).Info("Content pushed to channel",
		"content_id", contentID,
		"level", int(level),
		"channel_id", channelID)
	return nil
}

// renderChannelPost renders the channel message for a content.
func renderChannelPost(c *domain.Content) string {
	var b strings.Builder
	b.WriteString(c.Title)
	b.WriteString("\n\n")
	b.WriteString(c.Body)
	if c.Link != "" {
		b.WriteString("\n\n")
		b.WriteString(c.Link)
	}
	return b.String()
}

func containsLevel(levels []domain.Level, level domain.Level) bool {
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}

func dedupeLevels(levels []domain.Level) []domain.Level {
	seen := make(map[domain.Level]bool, len(levels))
	var out []domain.Level
	for _, l := range levels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
