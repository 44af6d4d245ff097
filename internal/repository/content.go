package repository

import (
	"context"

	"github.com/fdilabs/LevelGate_Go/internal/domain"
)

// Content defines the interface for content persistence
type Content interface {
	// CreateContent inserts the content and its visibility rows in one
	// transaction. The generated ID and PublishedAt are written back.
	CreateContent(ctx context.Context, content *domain.Content, visibility []domain.ContentVisibility) error
	GetContentByID(ctx context.Context, contentID int64) (*domain.Content, error)
	// ListContents returns all contents ordered by publish time descending,
	// each joined with its level-target set.
	ListContents(ctx context.Context) ([]domain.ContentWithLevels, error)
	// ListVisibilityLevels returns the distinct level targets of a content.
	ListVisibilityLevels(ctx context.Context, contentID int64) ([]domain.Level, error)
}
