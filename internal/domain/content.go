package domain

import "time"

// Content is a published piece of content. Immutable once published.
type Content struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Link        string    `json:"link,omitempty"`
	AuthorID    int64     `json:"author_id"`
	PublishedAt time.Time `json:"published_at"`
}

// ContentVisibility links a content to its audience: either a specific user
// or a whole level, never both and never neither. The database enforces the
// same constraint with a CHECK, this type is the in-process shape of a row.
type ContentVisibility struct {
	ID          int64  `json:"id"`
	ContentID   int64  `json:"content_id"`
	UserID      *int64 `json:"user_id,omitempty"`
	LevelTarget *Level `json:"level_target,omitempty"`
}

// Valid reports whether exactly one audience selector is set.
func (v *ContentVisibility) Valid() bool {
	return (v.UserID != nil) != (v.LevelTarget != nil)
}

// ContentWithLevels is a content row joined with its level-target set,
// the shape the history listing returns.
type ContentWithLevels struct {
	Content
	Levels []Level `json:"levels"`
}
