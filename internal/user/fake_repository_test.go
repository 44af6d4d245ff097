package user

import (
	"context"
	"sync"
	"time"

	"github.com/fdilabs/LevelGate_Go/internal/access"
	"github.com/fdilabs/LevelGate_Go/internal/domain"
)

// FakeRepository is a stateful in-memory implementation of repository.User.
// It enables integration-style unit tests without a database.
type FakeRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User // keyed by user ID

	upsertErr error

	// When set, the next GetUserByTelegramID call fails with it once.
	telegramLookupErr error
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{users: make(map[int64]*domain.User)}
}

func (f *FakeRepository) UpsertUser(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if user.ID == 0 {
		f.nextID++
		user.ID = f.nextID
		user.RegisteredAt = time.Now()
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *FakeRepository) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *FakeRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.telegramLookupErr != nil {
		err := f.telegramLookupErr
		f.telegramLookupErr = nil
		return nil, err
	}
	for _, u := range f.users {
		if u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *FakeRepository) UpdateUserLevel(ctx context.Context, userID int64, level domain.Level) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Level = level
	return nil
}

func (f *FakeRepository) UpdateUserStatus(ctx context.Context, userID int64, status domain.Status, approvedBy *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Status = status
	u.ApprovedBy = approvedBy
	return nil
}

func (f *FakeRepository) DeleteUser(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.users, userID)
	return nil
}

func (f *FakeRepository) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.users {
		if filter.Level != nil && u.Level != *filter.Level {
			continue
		}
		if filter.Status != nil && u.Status != *filter.Status {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

// fakeSynchronizer records synchronization calls without touching providers.
type fakeSynchronizer struct {
	mu           sync.Mutex
	levelChanges []levelChangeCall
	deletions    []int64
	failures     []access.SyncFailure
	repo         *FakeRepository
	err          error
}

type levelChangeCall struct {
	userID   int64
	oldLevel domain.Level
	newLevel domain.Level
}

func (f *fakeSynchronizer) ApplyLevelChange(ctx context.Context, user domain.User, oldLevel, newLevel domain.Level) (domain.Level, []access.SyncFailure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, nil, f.err
	}
	f.levelChanges = append(f.levelChanges, levelChangeCall{user.ID, oldLevel, newLevel})
	if f.repo != nil {
		_ = f.repo.UpdateUserLevel(ctx, user.ID, newLevel)
	}
	return newLevel, f.failures, nil
}

func (f *fakeSynchronizer) ApplyDeletion(ctx context.Context, user domain.User) ([]access.SyncFailure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.deletions = append(f.deletions, user.ID)
	if f.repo != nil {
		_ = f.repo.DeleteUser(ctx, user.ID)
	}
	return f.failures, nil
}
