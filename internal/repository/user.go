package repository

import (
	"context"

	"github.com/fdilabs/LevelGate_Go/internal/domain"
)

// User defines the interface for user persistence
type User interface {
	// UpsertUser inserts a new user keyed by telegram id or updates the
	// existing row. On insert the generated ID and RegisteredAt are written
	// back to the passed user.
	UpsertUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	// UpdateUserLevel persists the authoritative level. Callers commit this
	// before attempting any external synchronization.
	UpdateUserLevel(ctx context.Context, userID int64, level domain.Level) error
	UpdateUserStatus(ctx context.Context, userID int64, status domain.Status, approvedBy *int64) error
	DeleteUser(ctx context.Context, userID int64) error
	ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
}
