package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fdilabs/LevelGate_Go/internal/domain"
)

// UserRepository implements the user repository for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `user_id, telegram_id, first_name, last_name, phone, email, level, status, approved_by, approved_at, registered_at`

// UpsertUser inserts a user keyed by telegram id or updates the existing row.
// The generated id and registration time are scanned back into the value.
func (r *UserRepository) UpsertUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (telegram_id, first_name, last_name, phone, email, level, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (telegram_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name  = EXCLUDED.last_name,
		    phone      = EXCLUDED.phone,
		    email      = EXCLUDED.email,
		    level      = EXCLUDED.level,
		    status     = EXCLUDED.status
		RETURNING user_id, registered_at
	`
	err := r.db.QueryRow(ctx, query,
		user.TelegramID, user.FirstName, user.LastName, user.Phone, user.Email,
		int(user.Level), string(user.Status),
	).Scan(&user.ID, &user.RegisteredAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetUserByID fetches a user by internal id
func (r *UserRepository) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, userID))
}

// GetUserByTelegramID fetches a user by telegram id
func (r *UserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, telegramID))
}

// UpdateUserLevel persists the authoritative level for a user
func (r *UserRepository) UpdateUserLevel(ctx context.Context, userID int64, level domain.Level) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET level = $1 WHERE user_id = $2`, int(level), userID)
	if err != nil {
		return fmt.Errorf("failed to update user level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateUserStatus updates the approval status. When the status becomes
// active the approval audit fields are stamped, otherwise they are cleared.
func (r *UserRepository) UpdateUserStatus(ctx context.Context, userID int64, status domain.Status, approvedBy *int64) error {
	query := `
		UPDATE users
		SET status = $1,
		    approved_by = $2,
		    approved_at = CASE WHEN $1 = 'active' THEN NOW() ELSE NULL END
		WHERE user_id = $3
	`
	tag, err := r.db.Exec(ctx, query, string(status), approvedBy, userID)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user row
func (r *UserRepository) DeleteUser(ctx context.Context, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListUsers returns users matching the filter, newest registrations first
func (r *UserRepository) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	args := []any{}
	if filter.Level != nil {
		args = append(args, int(*filter.Level))
		query += fmt.Sprintf(" AND level = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY registered_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	user, err := scanUserRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	return user, err
}

func scanUserRow(row pgx.Row) (*domain.User, error) {
	var (
		user      domain.User
		level     int
		rawStatus string
	)
	err := row.Scan(&user.ID, &user.TelegramID, &user.FirstName, &user.LastName,
		&user.Phone, &user.Email, &level, &rawStatus,
		&user.ApprovedBy, &user.ApprovedAt, &user.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	user.Level = domain.Level(level)
	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("user %d has unknown status %q: %w", user.ID, rawStatus, err)
	}
	user.Status = status
	return &user, nil
}
