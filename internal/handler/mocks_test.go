package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fdilabs/LevelGate_Go/internal/access"
	"github.com/fdilabs/LevelGate_Go/internal/content"
	"github.com/fdilabs/LevelGate_Go/internal/domain"
	"github.com/fdilabs/LevelGate_Go/internal/user"
)

// MockUserService mocks the user.Service interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, input user.RegisterInput) (*domain.User, bool, error) {
	args := m.Called(ctx, input)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Bool(1), args.Error(2)
}

func (m *MockUserService) Approve(ctx context.Context, userID int64, approve bool, reviewerID *int64) (*domain.User, []access.SyncFailure, error) {
	args := m.Called(ctx, userID, approve, reviewerID)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	var failures []access.SyncFailure
	if args.Get(1) != nil {
		failures = args.Get(1).([]access.SyncFailure)
	}
	return u, failures, args.Error(2)
}

func (m *MockUserService) ChangeLevel(ctx context.Context, userID int64, level domain.Level) (domain.Level, []access.SyncFailure, error) {
	args := m.Called(ctx, userID, level)
	var failures []access.SyncFailure
	if args.Get(1) != nil {
		failures = args.Get(1).([]access.SyncFailure)
	}
	return args.Get(0).(domain.Level), failures, args.Error(2)
}

func (m *MockUserService) Delete(ctx context.Context, userID int64) ([]access.SyncFailure, error) {
	args := m.Called(ctx, userID)
	var failures []access.SyncFailure
	if args.Get(0) != nil {
		failures = args.Get(0).([]access.SyncFailure)
	}
	return failures, args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Error(1)
}

func (m *MockUserService) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	args := m.Called(ctx, telegramID)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	args := m.Called(ctx, filter)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

// MockContentService mocks the content.Service interface
type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) Publish(ctx context.Context, input content.PublishInput) (*domain.Content, error) {
	args := m.Called(ctx, input)
	var c *domain.Content
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Content)
	}
	return c, args.Error(1)
}

func (m *MockContentService) History(ctx context.Context) ([]domain.ContentWithLevels, error) {
	args := m.Called(ctx)
	var contents []domain.ContentWithLevels
	if args.Get(0) != nil {
		contents = args.Get(0).([]domain.ContentWithLevels)
	}
	return contents, args.Error(1)
}

func (m *MockContentService) Notify(ctx context.Context, contentID int64, level domain.Level) error {
	args := m.Called(ctx, contentID, level)
	return args.Error(0)
}
