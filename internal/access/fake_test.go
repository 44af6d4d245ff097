package access

import (
	"context"
	"sync"

	"github.com/fdilabs/LevelGate_Go/internal/domain"
)

// fakeStore is a stateful in-memory repository.User for synchronizer tests.
type fakeStore struct {
	mu        sync.Mutex
	users     map[int64]*domain.User
	updateErr error
	deleteErr error
	deleted   []int64
}

func newFakeStore(users ...*domain.User) *fakeStore {
	s := &fakeStore{users: make(map[int64]*domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (f *fakeStore) UpsertUser(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.TelegramID == telegramID {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeStore) UpdateUserLevel(ctx context.Context, userID int64, level domain.Level) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if u, ok := f.users[userID]; ok {
		u.Level = level
	}
	return nil
}

func (f *fakeStore) UpdateUserStatus(ctx context.Context, userID int64, status domain.Status, approvedBy *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.Status = status
		u.ApprovedBy = approvedBy
	}
	return nil
}

func (f *fakeStore) DeleteUser(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.users, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

func (f *fakeStore) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

// fakeProvider records eviction and invite attempts per channel and can fail
// selected channels.
type fakeProvider struct {
	mu         sync.Mutex
	evictions  []string // channel ids in call order
	invites    []string
	evictErrs  map[string]error
	inviteErrs map[string]error
	links      map[string]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		evictErrs:  make(map[string]error),
		inviteErrs: make(map[string]error),
		links:      make(map[string]string),
	}
}

func (f *fakeProvider) EvictMember(ctx context.Context, channelID string, telegramID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evictions = append(f.evictions, channelID)
	return f.evictErrs[channelID]
}

func (f *fakeProvider) CreateInviteLink(ctx context.Context, channelID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invites = append(f.invites, channelID)
	if err := f.inviteErrs[channelID]; err != nil {
		return "", err
	}
	if link, ok := f.links[channelID]; ok {
		return link, nil
	}
	return "https://t.me/join/" + channelID, nil
}

// fakeNotifier records sent messages.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	targets  []int64
	err      error
}

func (f *fakeNotifier) SendDirectMessage(ctx context.Context, telegramID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.targets = append(f.targets, telegramID)
	f.messages = append(f.messages, text)
	return nil
}
