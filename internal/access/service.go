// Package access implements the level-gated channel access synchronizer: it
// reconciles a user's external channel memberships with their persisted access
// level and reports the outcome back to the user.
package access

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fdilabs/LevelGate_Go/internal/channels"
	"github.com/fdilabs/LevelGate_Go/internal/domain"
	"github.com/fdilabs/LevelGate_Go/internal/logger"
	"github.com/fdilabs/LevelGate_Go/internal/metrics"
	"github.com/fdilabs/LevelGate_Go/internal/repository"
)

// DefaultCallTimeout bounds each individual provider/notifier call.
const DefaultCallTimeout = 10 * time.Second

// Sync operation names used in failure records and metrics labels.
const (
	OpEvict  = "evict"
	OpInvite = "invite"
	OpNotify = "notify"
)

// SyncFailure records one isolated external-call failure. Failures never
// change the outcome of the operation that produced them; they exist for
// observability.
type SyncFailure struct {
	Op        string       `json:"op"`
	Level     domain.Level `json:"level,omitempty"`
	ChannelID string       `json:"channel_id,omitempty"`
	Err       error        `json:"-"`
	Message   string       `json:"error"`
}

// Synchronizer drives channel membership reconciliation.
//
// No lock is held on the user across the external-call sequence: two
// concurrent level changes for the same user may interleave. The last
// persisted level wins; evictions and invites may reflect a stale level.
// This is the accepted best-effort contract, deliberately not serialized.
type Synchronizer struct {
	registry    *channels.Registry
	store       repository.User
	provider    Provider
	notifier    Notifier
	callTimeout time.Duration
}

// NewSynchronizer creates a synchronizer. The registry is captured as an
// immutable value; a zero callTimeout falls back to DefaultCallTimeout.
func NewSynchronizer(registry *channels.Registry, store repository.User, provider Provider, notifier Notifier, callTimeout time.Duration) *Synchronizer {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &Synchronizer{
		registry:    registry,
		store:       store,
		provider:    provider,
		notifier:    notifier,
		callTimeout: callTimeout,
	}
}

// ApplyLevelChange persists newLevel for the user, evicts them from channels
// above the new level, re-issues invite links for every level up to and
// including it, and notifies the user of the outcome.
//
// The level is committed before any external call, so a provider outage never
// blocks the authoritative state. Provider and notifier failures are isolated
// per call, logged, returned as SyncFailure records, and never fail the
// operation. Invite issuance runs even when newLevel == oldLevel;
// re-requesting links for already-granted levels is expected.
func (s *Synchronizer) ApplyLevelChange(ctx context.Context, user domain.User, oldLevel, newLevel domain.Level) (domain.Level, []SyncFailure, error) {
	if !newLevel.Valid() {
		return 0, nil, fmt.Errorf("%w: %d", domain.ErrInvalidLevel, newLevel)
	}

	if err := s.store.UpdateUserLevel(ctx, user.ID, newLevel); err != nil {
		return 0, nil, fmt.Errorf("failed to persist level: %w", err)
	}

	var failures []SyncFailure

	if newLevel < oldLevel {
		failures = append(failures, s.evictRange(ctx, user.TelegramID, newLevel+1, oldLevel)...)
	}

	results, inviteFailures := s.issueInvites(ctx, newLevel)
	failures = append(failures, inviteFailures...)

	text := BuildLevelMessage(newLevel, results)
	if fail := s.notify(ctx, user.TelegramID, text); fail != nil {
		failures = append(failures, *fail)
	}

	return newLevel, failures, nil
}

// ApplyDeletion evicts the user from every channel up to their current level,
// then removes the persisted record. Deletion succeeds even when every
// eviction attempt failed.
func (s *Synchronizer) ApplyDeletion(ctx context.Context, user domain.User) ([]SyncFailure, error) {
	failures := s.evictRange(ctx, user.TelegramID, domain.MinLevel, user.Level)

	if err := s.store.DeleteUser(ctx, user.ID); err != nil {
		return failures, fmt.Errorf("failed to delete user: %w", err)
	}

	return failures, nil
}

// evictRange attempts eviction for every configured channel in [from, to].
// Unconfigured levels are skipped silently; one channel's failure never
// blocks eviction from the others.
func (s *Synchronizer) evictRange(ctx context.Context, telegramID int64, from, to domain.Level) []SyncFailure {
	log := logger.FromContext(ctx)

	var failures []SyncFailure
	for level := from; level <= to; level++ {
		channelID, ok := s.registry.ChannelFor(level)
		if !ok {
			continue
		}

		err := s.withTimeout(ctx, func(callCtx context.Context) error {
			return s.provider.EvictMember(callCtx, channelID, telegramID)
		})
		if err != nil {
			metrics.EvictionsTotal.WithLabelValues(levelLabel(level), metrics.OutcomeError).Inc()
			metrics.SyncFailuresTotal.WithLabelValues(OpEvict).Inc()
			log.Warn("Channel eviction failed",
				"op", OpEvict,
				"level", int(level),
				"channel_id", channelID,
				"error", err)
			failures = append(failures, newFailure(OpEvict, level, channelID, err))
			continue
		}

		metrics.EvictionsTotal.WithLabelValues(levelLabel(level), metrics.OutcomeOK).Inc()
		log.Info("Evicted member from channel", "level", int(level), "channel_id", channelID)
	}
	return failures
}

// issueInvites requests an invite link for every level in [MinLevel, upTo].
// Each level yields exactly one InviteResult for the message builder.
func (s *Synchronizer) issueInvites(ctx context.Context, upTo domain.Level) ([]InviteResult, []SyncFailure) {
	log := logger.FromContext(ctx)

	var results []InviteResult
	var failures []SyncFailure
	for level := domain.MinLevel; level <= upTo; level++ {
		channelID, ok := s.registry.ChannelFor(level)
		if !ok {
			results = append(results, InviteResult{Level: level, Configured: false})
			continue
		}

		var link string
		err := s.withTimeout(ctx, func(callCtx context.Context) error {
			var callErr error
			link, callErr = s.provider.CreateInviteLink(callCtx, channelID)
			return callErr
		})
		if err != nil {
			metrics.InvitesTotal.WithLabelValues(levelLabel(level), metrics.OutcomeError).Inc()
			metrics.SyncFailuresTotal.WithLabelValues(OpInvite).Inc()
			log.Warn("Invite link request failed",
				"op", OpInvite,
				"level", int(level),
				"channel_id", channelID,
				"error", err)
			results = append(results, InviteResult{Level: level, Configured: true, Err: err})
			failures = append(failures, newFailure(OpInvite, level, channelID, err))
			continue
		}

		metrics.InvitesTotal.WithLabelValues(levelLabel(level), metrics.OutcomeOK).Inc()
		results = append(results, InviteResult{Level: level, Configured: true, Link: link})
	}
	return results, failures
}

// notify sends the outcome message. A notifier failure is recorded and
// logged, never propagated.
func (s *Synchronizer) notify(ctx context.Context, telegramID int64, text string) *SyncFailure {
	err := s.withTimeout(ctx, func(callCtx context.Context) error {
		return s.notifier.SendDirectMessage(callCtx, telegramID, text)
	})
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		metrics.SyncFailuresTotal.WithLabelValues(OpNotify).Inc()
		logger.FromContext(ctx).Warn("Outcome notification failed",
			"op", OpNotify,
			"telegram_id", telegramID,
			"error", err)
		fail := newFailure(OpNotify, 0, "", err)
		return &fail
	}

	metrics.NotificationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return nil
}

func (s *Synchronizer) withTimeout(ctx context.Context, call func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	return call(callCtx)
}

func newFailure(op string, level domain.Level, channelID string, err error) SyncFailure {
	return SyncFailure{
		Op:        op,
		Level:     level,
		ChannelID: channelID,
		Err:       err,
		Message:   err.Error(),
	}
}

func levelLabel(level domain.Level) string {
	return strconv.Itoa(int(level))
}
