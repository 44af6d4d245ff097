package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdilabs/LevelGate_Go/internal/access"
	"github.com/fdilabs/LevelGate_Go/internal/domain"
)

func newTestService(t *testing.T) (Service, *FakeRepository, *fakeSynchronizer) {
	t.Helper()
	repo := NewFakeRepository()
	sync := &fakeSynchronizer{repo: repo}
	return NewService(repo, sync), repo, sync
}

func TestRegister(t *testing.T) {
	t.Run("level 1 is active immediately", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		u, created, err := svc.Register(context.Background(), RegisterInput{
			TelegramID: 100, FirstName: "Ada", Level: 1,
		})

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, domain.StatusActive, u.Status)
		assert.Equal(t, domain.Level(1), u.Level)
		assert.NotZero(t, u.ID)
	})

	t.Run("level above 1 is pending", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		for _, level := range []domain.Level{2, 3, 4} {
			u, created, err := svc.Register(context.Background(), RegisterInput{
				TelegramID: int64(100 + level), Level: level,
			})
			require.NoError(t, err)
			assert.True(t, created)
			assert.Equal(t, domain.StatusPending, u.Status, "level %d", level)
		}
	})

	t.Run("invalid level rejected before any write", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		_, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 7})

		assert.ErrorIs(t, err, domain.ErrInvalidLevel)
		users, _ := repo.ListUsers(context.Background(), domain.UserFilter{})
		assert.Empty(t, users)
	})

	t.Run("missing telegram id rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, _, err := svc.Register(context.Background(), RegisterInput{Level: 1})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("re-registration of pending user resets status from new level", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		first, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 3})
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, first.Status)

		second, created, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 1, FirstName: "New"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, domain.StatusActive, second.Status)
		assert.Equal(t, domain.Level(1), second.Level)
		assert.Equal(t, "New", second.FirstName)
	})

	t.Run("re-registration of rejected user resets status", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		u, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 2})
		require.NoError(t, err)
		_, _, err = svc.Approve(context.Background(), u.ID, false, nil)
		require.NoError(t, err)

		// Observed workflow: a rejection does not survive re-registration.
		again, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 2})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, again.Status)
	})

	t.Run("re-registration of active user keeps active status", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		u, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 1})
		require.NoError(t, err)
		require.Equal(t, domain.StatusActive, u.Status)

		again, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 3})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, again.Status, "active users never drop back to pending")
		assert.Equal(t, domain.Level(3), again.Level)
	})

	t.Run("transient lookup error fails the request instead of creating", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		u, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 1})
		require.NoError(t, err)
		require.Equal(t, domain.StatusActive, u.Status)

		// A failed read must not be mistaken for "user does not exist":
		// the upsert keys on telegram id and would reset the status.
		repo.telegramLookupErr = errors.New("connection refused")

		_, created, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 3})
		require.Error(t, err)
		assert.False(t, created)

		stored, err := repo.GetUserByID(context.Background(), u.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, stored.Status)
		assert.Equal(t, domain.Level(1), stored.Level)
	})
}

func TestApprove(t *testing.T) {
	t.Run("approve=true flips pending to active and re-issues invites", func(t *testing.T) {
		svc, _, sync := newTestService(t)
		u, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 3})
		require.NoError(t, err)

		reviewer := int64(9)
		approved, failures, err := svc.Approve(context.Background(), u.ID, true, &reviewer)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, approved.Status)
		assert.Equal(t, &reviewer, approved.ApprovedBy)
		assert.Empty(t, failures)

		// Grant sync ran with an unchanged level: no eviction range.
		require.Len(t, sync.levelChanges, 1)
		assert.Equal(t, levelChangeCall{u.ID, 3, 3}, sync.levelChanges[0])
	})

	t.Run("approve=false flips pending to rejected without sync", func(t *testing.T) {
		svc, _, sync := newTestService(t)
		u, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 2})
		require.NoError(t, err)

		rejected, failures, err := svc.Approve(context.Background(), u.ID, false, nil)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, rejected.Status)
		assert.Empty(t, failures)
		assert.Empty(t, sync.levelChanges, "rejection grants nothing")
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, _, err := svc.Approve(context.Background(), 404, true, nil)

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestChangeLevel(t *testing.T) {
	t.Run("delegates to the synchronizer with the stored old level", func(t *testing.T) {
		svc, repo, sync := newTestService(t)
		u, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 3})
		require.NoError(t, err)

		level, failures, err := svc.ChangeLevel(context.Background(), u.ID, 1)

		require.NoError(t, err)
		assert.Equal(t, domain.Level(1), level)
		assert.Empty(t, failures)
		require.Len(t, sync.levelChanges, 1)
		assert.Equal(t, levelChangeCall{u.ID, 3, 1}, sync.levelChanges[0])

		stored, err := repo.GetUserByID(context.Background(), u.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.Level(1), stored.Level)
	})

	t.Run("invalid level rejected before lookup", func(t *testing.T) {
		svc, _, sync := newTestService(t)

		_, _, err := svc.ChangeLevel(context.Background(), 1, 0)

		assert.ErrorIs(t, err, domain.ErrInvalidLevel)
		assert.Empty(t, sync.levelChanges)
	})

	t.Run("unknown user surfaces not-found before sync", func(t *testing.T) {
		svc, _, sync := newTestService(t)

		_, _, err := svc.ChangeLevel(context.Background(), 404, 2)

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Empty(t, sync.levelChanges)
	})

	t.Run("isolated failures pass through without failing the call", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		u, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 2})
		require.NoError(t, err)

		failing := &fakeSynchronizer{repo: repo, failures: []access.SyncFailure{
			{Op: access.OpInvite, Level: 1, Message: "rate limited"},
		}}
		svc = NewService(repo, failing)

		level, failures, err := svc.ChangeLevel(context.Background(), u.ID, 4)

		require.NoError(t, err)
		assert.Equal(t, domain.Level(4), level)
		require.Len(t, failures, 1)
		assert.Equal(t, access.OpInvite, failures[0].Op)
	})
}

func TestDelete(t *testing.T) {
	t.Run("deletes through the synchronizer", func(t *testing.T) {
		svc, repo, sync := newTestService(t)
		u, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 4})
		require.NoError(t, err)

		failures, err := svc.Delete(context.Background(), u.ID)

		require.NoError(t, err)
		assert.Empty(t, failures)
		assert.Equal(t, []int64{u.ID}, sync.deletions)

		// Unrecoverable by either id afterwards.
		_, err = svc.GetByID(context.Background(), u.ID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		_, err = svc.GetByTelegramID(context.Background(), 100)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = repo.GetUserByID(context.Background(), u.ID)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Delete(context.Background(), 404)

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("synchronizer error propagates", func(t *testing.T) {
		repo := NewFakeRepository()
		svc := NewService(repo, &fakeSynchronizer{err: errors.New("delete failed")})
		u, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 1})
		require.NoError(t, err)

		_, err = svc.Delete(context.Background(), u.ID)
		require.Error(t, err)
	})
}

func TestListFilters(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 1, Level: 1})
	require.NoError(t, err)
	_, _, err = svc.Register(context.Background(), RegisterInput{TelegramID: 2, Level: 3})
	require.NoError(t, err)
	_, _, err = svc.Register(context.Background(), RegisterInput{TelegramID: 3, Level: 3})
	require.NoError(t, err)

	t.Run("status filter", func(t *testing.T) {
		pending := domain.StatusPending
		users, err := svc.List(context.Background(), domain.UserFilter{Status: &pending})
		require.NoError(t, err)
		assert.Len(t, users, 2)

		// New level-1 registrations are active, so they never show up in
		// a pending listing.
		for _, u := range users {
			assert.NotEqual(t, int64(1), u.TelegramID)
		}
	})

	t.Run("level filter", func(t *testing.T) {
		level := domain.Level(3)
		users, err := svc.List(context.Background(), domain.UserFilter{Level: &level})
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("combined filters", func(t *testing.T) {
		level := domain.Level(3)
		active := domain.StatusActive
		users, err := svc.List(context.Background(), domain.UserFilter{Level: &level, Status: &active})
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}

func TestGetByTelegramID_Cache(t *testing.T) {
	svc, repo, _ := newTestService(t)
	u, _, err := svc.Register(context.Background(), RegisterInput{TelegramID: 100, Level: 1})
	require.NoError(t, err)

	// First read populates the cache; mutate the repo behind the service's
	// back and confirm the cached value is served.
	got, err := svc.GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, repo.UpdateUserLevel(context.Background(), u.ID, 4))
	cached, err := svc.GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, domain.Level(1), cached.Level, "served from cache")

	// A mutation through the service invalidates the entry.
	_, _, err = svc.ChangeLevel(context.Background(), u.ID, 2)
	require.NoError(t, err)
	fresh, err := svc.GetByTelegramID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, domain.Level(2), fresh.Level)
}
