// Package channels holds the level-to-channel registry: the immutable mapping
// from access level to the external group channel gated behind it.
package channels

import (
	"github.com/fdilabs/LevelGate_Go/internal/domain"
)

// Registry maps access levels to external channel identifiers.
// Built once at startup and never mutated afterwards, so it is safe for
// unsynchronized concurrent reads. A level without an entry simply has no
// channel; consumers must treat that as "skip", never as a fault.
type Registry struct {
	byLevel map[domain.Level]string
}

// NewRegistry builds a registry from a level -> channel id map.
// Entries outside the valid level range or with empty identifiers are dropped.
func NewRegistry(mapping map[int]string) *Registry {
	byLevel := make(map[domain.Level]string, len(mapping))
	for raw, channelID := range mapping {
		level := domain.Level(raw)
		if !level.Valid() || channelID == "" {
			continue
		}
		byLevel[level] = channelID
	}
	return &Registry{byLevel: byLevel}
}

// ChannelFor returns the channel identifier configured for the level.
// The second return is false when the level has no channel.
func (r *Registry) ChannelFor(level domain.Level) (string, bool) {
	id, ok := r.byLevel[level]
	return id, ok
}

// Configured returns the levels that have a channel, in ascending order.
func (r *Registry) Configured() []domain.Level {
	var levels []domain.Level
	for l := domain.MinLevel; l <= domain.MaxLevel; l++ {
		if _, ok := r.byLevel[l]; ok {
			levels = append(levels, l)
		}
	}
	return levels
}

// Len returns the number of configured channels.
func (r *Registry) Len() int {
	return len(r.byLevel)
}
