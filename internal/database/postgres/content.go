package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fdilabs/LevelGate_Go/internal/database"
	"github.com/fdilabs/LevelGate_Go/internal/domain"
)

// ContentRepository implements the content repository for PostgreSQL
type ContentRepository struct {
	db *pgxpool.Pool
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{db: db}
}

// CreateContent inserts the content and its visibility rows in a single
// transaction. The generated id and publish time are scanned back.
func (r *ContentRepository) CreateContent(ctx context.Context, content *domain.Content, visibility []domain.ContentVisibility) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	query := `
		INSERT INTO contents (title, body, link, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING content_id, published_at
	`
	err = tx.QueryRow(ctx, query,
		content.Title, content.Body, content.Link, content.AuthorID,
	).Scan(&content.ID, &content.PublishedAt)
	if err != nil {
		return fmt.Errorf("failed to insert content: %w", err)
	}

	for _, v := range visibility {
		var levelTarget *int
		if v.LevelTarget != nil {
			l := int(*v.LevelTarget)
			levelTarget = &l
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO content_visibility (content_id, user_id, level_target)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, content.ID, v.UserID, levelTarget)
		if err != nil {
			return fmt.Errorf("failed to insert content visibility: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetContentByID fetches a content by id
func (r *ContentRepository) GetContentByID(ctx context.Context, contentID int64) (*domain.Content, error) {
	query := `
		SELECT content_id, title, body, link, author_id, published_at
		FROM contents WHERE content_id = $1
	`
	var content domain.Content
	err := r.db.QueryRow(ctx, query, contentID).Scan(
		&content.ID, &content.Title, &content.Body, &content.Link,
		&content.AuthorID, &content.PublishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	return &content, nil
}

// ListContents returns all contents newest first, each joined with the set
// of level targets it is visible to.
func (r *ContentRepository) ListContents(ctx context.Context) ([]domain.ContentWithLevels, error) {
	query := `
		SELECT c.content_id, c.title, c.body, c.link, c.author_id, c.published_at,
		       COALESCE(ARRAY_AGG(v.level_target ORDER BY v.level_target)
		                FILTER (WHERE v.level_target IS NOT NULL), '{}')
		FROM contents c
		LEFT JOIN content_visibility v ON v.content_id = c.content_id
		GROUP BY c.content_id
		ORDER BY c.published_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	defer rows.Close()

	var contents []domain.ContentWithLevels
	for rows.Next() {
		var (
			item   domain.ContentWithLevels
			levels []int
		)
		err := rows.Scan(&item.ID, &item.Title, &item.Body, &item.Link,
			&item.AuthorID, &item.PublishedAt, &levels)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		for _, l := range levels {
			item.Levels = append(item.Levels, domain.Level(l))
		}
		contents = append(contents, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contents: %w", err)
	}
	return contents, nil
}

// ListVisibilityLevels returns the distinct level targets of a content
func (r *ContentRepository) ListVisibilityLevels(ctx context.Context, contentID int64) ([]domain.Level, error) {
	query := `
		SELECT DISTINCT level_target FROM content_visibility
		WHERE content_id = $1 AND level_target IS NOT NULL
		ORDER BY level_target
	`
	rows, err := r.db.Query(ctx, query, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visibility levels: %w", err)
	}
	defer rows.Close()

	var levels []domain.Level
	for rows.Next() {
		var l int
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("failed to scan visibility level: %w", err)
		}
		levels = append(levels, domain.Level(l))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visibility levels: %w", err)
	}
	return levels, nil
}
