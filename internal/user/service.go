package user

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fdilabs/LevelGate_Go/internal/access"
	"github.com/fdilabs/LevelGate_Go/internal/domain"
	"github.com/fdilabs/LevelGate_Go/internal/logger"
	"github.com/fdilabs/LevelGate_Go/internal/metrics"
	"github.com/fdilabs/LevelGate_Go/internal/repository"
)

// Synchronizer is the slice of the access synchronizer the user service
// drives. Satisfied by *access.Synchronizer.
type Synchronizer interface {
	ApplyLevelChange(ctx context.Context, user domain.User, oldLevel, newLevel domain.Level) (domain.Level, []access.SyncFailure, error)
	ApplyDeletion(ctx context.Context, user domain.User) ([]access.SyncFailure, error)
}

// RegisterInput carries a registration request. Profile fields are free text.
type RegisterInput struct {
	TelegramID int64
	FirstName  string
	LastName   string
	Phone      string
	Email      string
	Level      domain.Level
}

// Service defines the interface for user operations
type Service interface {
	// Register upserts a user by telegram id. The bool result reports
	// whether a new record was created.
	Register(ctx context.Context, input RegisterInput) (*domain.User, bool, error)
	// Approve resolves a pending user to active or rejected. Approval also
	// re-issues invites for the user's level (best effort, like a level
	// change with an unchanged level).
	Approve(ctx context.Context, userID int64, approve bool, reviewerID *int64) (*domain.User, []access.SyncFailure, error)
	// ChangeLevel moves the user to the new level and synchronizes channel
	// membership. The returned failures are isolated external-call errors;
	// they never indicate request failure.
	ChangeLevel(ctx context.Context, userID int64, level domain.Level) (domain.Level, []access.SyncFailure, error)
	// Delete evicts the user from their channels and removes the record.
	Delete(ctx context.Context, userID int64) ([]access.SyncFailure, error)
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
}

// service implements the Service interface
type service struct {
	repo  repository.User
	sync  Synchronizer
	cache *userCache
}

func loadCacheConfig() CacheConfig {
	config := DefaultCacheConfig()

	if val := os.Getenv("USER_CACHE_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			config.Size = size
		}
	}

	if val := os.Getenv("USER_CACHE_TTL"); val != "" {
		if ttl, err := time.ParseDuration(val); err == nil && ttl > 0 {
			config.TTL = ttl
		}
	}

	return config
}

// NewService creates a new user service
func NewService(repo repository.User, sync Synchronizer) Service {
	cacheConfig := loadCacheConfig()
	return &service{
		repo:  repo,
		sync:  sync,
		cache: newUserCache(cacheConfig.Size, cacheConfig.TTL),
	}
}

// Register applies the approval workflow's registration transition:
// level 1 maps straight to active, any higher level to pending. Re-registering
// an existing non-active user updates the profile and resets status from the
// requested level; active users keep their status.
func (s *service) Register(ctx context.Context, input RegisterInput) (*domain.User, bool, error) {
	log := logger.FromContext(ctx)

	if !input.Level.Valid() {
		return nil, false, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, input.Level)
	}
	if input.TelegramID == 0 {
		return nil, false, fmt.Errorf("%w: telegram id is required", domain.ErrInvalidInput)
	}

	targetStatus := domain.StatusForLevel(input.Level)

	existing, err := s.repo.GetUserByTelegramID(ctx, input.TelegramID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		// Only a definite not-found may take the create path. Anything else
		// here could hide an existing active user and reset their status.
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}
	if err == nil {
		// Re-registration path: profile and level always refresh, status
		// only resets for non-active users. A rejected user re-registering
		// at level 1 becomes active again; this mirrors the observed
		// workflow and is intentionally asymmetric.
		if existing.Status != domain.StatusActive {
			existing.Status = targetStatus
		}
		existing.FirstName = input.FirstName
		existing.LastName = input.LastName
		existing.Phone = input.Phone
		existing.Email = input.Email
		existing.Level = input.Level

		if err := s.repo.UpsertUser(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("failed to update user: %w", err)
		}

		s.cache.Invalidate(existing.TelegramID)
		metrics.UsersRegistered.WithLabelValues(string(existing.Status)).Inc()
		log.Info("User re-registered",
			"user_id", existing.ID,
			"level", int(existing.Level),
			"status", string(existing.Status))
		return existing, false, nil
	}

	user := &domain.User{
		TelegramID: input.TelegramID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Phone:      input.Phone,
		Email:      input.Email,
		Level:      input.Level,
		Status:     targetStatus,
	}

	if err := s.repo.UpsertUser(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to register user: %w", err)
	}

	metrics.UsersRegistered.WithLabelValues(string(user.Status)).Inc()
	log.Info("User registered",
		"user_id", user.ID,
		"level", int(user.Level),
		"status", string(user.Status))
	return user, true, nil
}

// Approve flips a user's status per the reviewer's decision. The pending ->
// active and pending -> rejected transitions are the only ones the approval
// operation performs; there is no path back to pending except re-registration.
func (s *service) Approve(ctx context.Context, userID int64, approve bool, reviewerID *int64) (*domain.User, []access.SyncFailure, error) {
	log := logger.FromContext(ctx)

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	status := domain.StatusRejected
	if approve {
		status = domain.StatusActive
	}

	if err := s.repo.UpdateUserStatus(ctx, userID, status, reviewerID); err != nil {
		return nil, nil, fmt.Errorf("failed to update status: %w", err)
	}
	user.Status = status
	user.ApprovedBy = reviewerID
	s.cache.Invalidate(user.TelegramID)
	metrics.UsersApproved.WithLabelValues(string(status)).Inc()

	var failures []access.SyncFailure
	if approve {
		// Grant synchronization: same as a level change that keeps the
		// level, so no evictions, invites for [1, level], then the
		// notification. Best effort like every synchronization.
		_, failures, err = s.sync.ApplyLevelChange(ctx, *user, user.Level, user.Level)
		if err != nil {
			// The status is already committed; a sync error here can only
			// be the level persist, which wrote the same value back.
			log.Warn("Grant synchronization failed after approval",
				"user_id", userID, "error", err)
		}
	}

	log.Info("Approval decision applied",
		"user_id", userID,
		"status", string(status),
		"isolated_failures", len(failures))
	return user, failures, nil
}

// ChangeLevel persists and synchronizes a new access level for the user.
func (s *service) ChangeLevel(ctx context.Context, userID int64, level domain.Level) (domain.Level, []access.SyncFailure, error) {
	if !level.Valid() {
		return 0, nil, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, level)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return 0, nil, err
	}

	newLevel, failures, err := s.sync.ApplyLevelChange(ctx, *user, user.Level, level)
	if err != nil {
		return 0, failures, err
	}

	s.cache.Invalidate(user.TelegramID)
	return newLevel, failures, nil
}

// Delete removes the user after evicting them from their channels.
func (s *service) Delete(ctx context.Context, userID int64) ([]access.SyncFailure, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	failures, err := s.sync.ApplyDeletion(ctx, *user)
	if err != nil {
		return failures, err
	}

	s.cache.Invalidate(user.TelegramID)
	metrics.UsersDeleted.Inc()
	logger.FromContext(ctx).Info("User deleted",
		"user_id", userID,
		"isolated_failures", len(failures))
	return failures, nil
}

func (s *service) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *service) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	if user, ok := s.cache.Get(telegramID); ok {
		return user, nil
	}

	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(telegramID, user)
	return user, nil
}

func (s *service) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	return s.repo.ListUsers(ctx, filter)
}
