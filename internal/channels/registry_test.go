package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fdilabs/LevelGate_Go/internal/domain"
)

func TestNewRegistry(t *testing.T) {
	t.Run("keeps valid entries", func(t *testing.T) {
		r := NewRegistry(map[int]string{1: "-1001", 3: "-1003"})

		id, ok := r.ChannelFor(1)
		assert.True(t, ok)
		assert.Equal(t, "-1001", id)

		id, ok = r.ChannelFor(3)
		assert.True(t, ok)
		assert.Equal(t, "-1003", id)

		assert.Equal(t, 2, r.Len())
	})

	t.Run("drops out-of-range levels and empty ids", func(t *testing.T) {
		r := NewRegistry(map[int]string{0: "-1000", 2: "", 5: "-1005", 4: "-1004"})

		assert.Equal(t, 1, r.Len())
		_, ok := r.ChannelFor(2)
		assert.False(t, ok)
		_, ok = r.ChannelFor(4)
		assert.True(t, ok)
	})

	t.Run("empty mapping", func(t *testing.T) {
		r := NewRegistry(nil)
		assert.Equal(t, 0, r.Len())
		for l := domain.MinLevel; l <= domain.MaxLevel; l++ {
			_, ok := r.ChannelFor(l)
			assert.False(t, ok)
		}
	})
}

func TestRegistryConfigured(t *testing.T) {
	r := NewRegistry(map[int]string{4: "-1004", 1: "-1001", 2: "-1002"})

	assert.Equal(t, []domain.Level{1, 2, 4}, r.Configured())
}

func TestRegistryUnconfiguredLevelIsNotAnError(t *testing.T) {
	r := NewRegistry(map[int]string{1: "-1001"})

	// Absence reported through the ok flag only.
	id, ok := r.ChannelFor(2)
	assert.False(t, ok)
	assert.Empty(t, id)
}
