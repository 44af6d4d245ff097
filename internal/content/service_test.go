package content

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdilabs/LevelGate_Go/internal/channels"
	"github.com/fdilabs/LevelGate_Go/internal/domain"
)

// fakeContentRepo is a stateful in-memory repository.Content.
type fakeContentRepo struct {
	mu         sync.Mutex
	nextID     int64
	contents   map[int64]*domain.Content
	visibility map[int64][]domain.ContentVisibility
	createErr  error
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{
		contents:   make(map[int64]*domain.Content),
		visibility: make(map[int64][]domain.ContentVisibility),
	}
}

func (f *fakeContentRepo) CreateContent(ctx context.Context, content *domain.Content, visibility []domain.ContentVisibility) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, v := range visibility {
		if !v.Valid() {
			return errors.New("invalid visibility row")
		}
	}
	f.nextID++
	content.ID = f.nextID
	content.PublishedAt = time.Now().Add(time.Duration(f.nextID) * time.Second)
	cp := *content
	f.contents[content.ID] = &cp
	f.visibility[content.ID] = visibility
	return nil
}

func (f *fakeContentRepo) GetContentByID(ctx context.Context, contentID int64) (*domain.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contents[contentID]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContentRepo) ListContents(ctx context.Context) ([]domain.ContentWithLevels, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ContentWithLevels
	for id, c := range f.contents {
		var levels []domain.Level
		for _, v := range f.visibility[id] {
			if v.LevelTarget != nil {
				levels = append(levels, *v.LevelTarget)
			}
		}
		out = append(out, domain.ContentWithLevels{Content: *c, Levels: levels})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

func (f *fakeContentRepo) ListVisibilityLevels(ctx context.Context, contentID int64) ([]domain.Level, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var levels []domain.Level
	for _, v := range f.visibility[contentID] {
		if v.LevelTarget != nil {
			levels = append(levels, *v.LevelTarget)
		}
	}
	return levels, nil
}

// fakePublisher records channel posts.
type fakePublisher struct {
	mu    sync.Mutex
	posts map[string][]string // channel id -> texts
	err   error
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{posts: make(map[string][]string)}
}

func (f *fakePublisher) PublishToChannel(ctx context.Context, channelID string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.posts[channelID] = append(f.posts[channelID], text)
	return nil
}

func testRegistry() *channels.Registry {
	return channels.NewRegistry(map[int]string{1: "chan-1", 2: "chan-2"})
}

func TestPublish(t *testing.T) {
	t.Run("stores content with level and user targets", func(t *testing.T) {
		repo := newFakeContentRepo()
		svc := NewService(repo, testRegistry(), newFakePublisher())

		c, err := svc.Publish(context.Background(), PublishInput{
			Title:   "Release notes",
			Body:    "We shipped things.",
			Link:    "https://example.com/notes",
			Levels:  []domain.Level{2},
			UserIDs: []int64{7},
		})

		require.NoError(t, err)
		assert.NotZero(t, c.ID)

		rows := repo.visibility[c.ID]
		require.Len(t, rows, 2)
		for _, v := range rows {
			assert.True(t, v.Valid(), "each row has exactly one target")
		}

		levels, err := repo.ListVisibilityLevels(context.Background(), c.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.Level{2}, levels)
	})

	t.Run("duplicate targets collapse to one row", func(t *testing.T) {
		repo := newFakeContentRepo()
		svc := NewService(repo, testRegistry(), newFakePublisher())

		c, err := svc.Publish(context.Background(), PublishInput{
			Title:  "Hello",
			Body:   "World",
			Levels: []domain.Level{2, 2, 3},
		})

		require.NoError(t, err)
		assert.Len(t, repo.visibility[c.ID], 2)
	})

	t.Run("rejects empty title or body", func(t *testing.T) {
		svc := NewService(newFakeContentRepo(), testRegistry(), newFakePublisher())

		_, err := svc.Publish(context.Background(), PublishInput{Title: " ", Body: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.Publish(context.Background(), PublishInput{Title: "x", Body: ""})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects invalid level targets", func(t *testing.T) {
		svc := NewService(newFakeContentRepo(), testRegistry(), newFakePublisher())

		_, err := svc.Publish(context.Background(), PublishInput{
			Title: "x", Body: "y", Levels: []domain.Level{5},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidLevel)
	})
}

func TestHistory(t *testing.T) {
	repo := newFakeContentRepo()
	svc := NewService(repo, testRegistry(), newFakePublisher())

	first, err := svc.Publish(context.Background(), PublishInput{Title: "first", Body: "b", Levels: []domain.Level{2}})
	require.NoError(t, err)
	second, err := svc.Publish(context.Background(), PublishInput{Title: "second", Body: "b"})
	require.NoError(t, err)

	history, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Newest first.
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
	assert.Contains(t, history[1].Levels, domain.Level(2))
}

func TestNotify(t *testing.T) {
	publish := func(t *testing.T, svc Service) *domain.Content {
		t.Helper()
		c, err := svc.Publish(context.Background(), PublishInput{
			Title: "Title", Body: "Body", Link: "https://example.com",
		})
		require.NoError(t, err)
		return c
	}

	t.Run("posts the rendered content into the level's channel", func(t *testing.T) {
		publisher := newFakePublisher()
		svc := NewService(newFakeContentRepo(), testRegistry(), publisher)
		c := publish(t, svc)

		require.NoError(t, svc.Notify(context.Background(), c.ID, 2))

		require.Len(t, publisher.posts["chan-2"], 1)
		post := publisher.posts["chan-2"][0]
		assert.Contains(t, post, "Title")
		assert.Contains(t, post, "Body")
		assert.Contains(t, post, "https://example.com")
	})

	t.Run("unknown content", func(t *testing.T) {
		svc := NewService(newFakeContentRepo(), testRegistry(), newFakePublisher())

		err := svc.Notify(context.Background(), 404, 1)
		assert.ErrorIs(t, err, domain.ErrContentNotFound)
	})

	t.Run("unconfigured channel is an error for explicit notify", func(t *testing.T) {
		svc := NewService(newFakeContentRepo(), testRegistry(), newFakePublisher())
		c := publish(t, svc)

		err := svc.Notify(context.Background(), c.ID, 4)
		assert.ErrorIs(t, err, domain.ErrChannelNotConfigured)
	})

	t.Run("invalid level", func(t *testing.T) {
		svc := NewService(newFakeContentRepo(), testRegistry(), newFakePublisher())

		err := svc.Notify(context.Background(), 1, 9)
		assert.ErrorIs(t, err, domain.ErrInvalidLevel)
	})

	t.Run("publisher failure propagates", func(t *testing.T) {
		publisher := newFakePublisher()
		publisher.err = errors.New("api down")
		svc := NewService(newFakeContentRepo(), testRegistry(), publisher)
		c := publish(t, svc)

		err := svc.Notify(context.Background(), c.ID, 1)
		require.Error(t, err)
	})
}
