package access

import "context"

// Provider is the external channel provider: the system that actually holds
// group memberships. Implementations must honor context cancellation; every
// call the synchronizer makes carries a bounded timeout.
type Provider interface {
	// EvictMember removes the user from the channel.
	EvictMember(ctx context.Context, channelID string, telegramID int64) error
	// CreateInviteLink requests a join link for the channel. The provider
	// decides whether repeated calls return the same link or a fresh one;
	// the synchronizer treats the result as "best current link" either way.
	CreateInviteLink(ctx context.Context, channelID string) (string, error)
}

// Notifier delivers direct messages to users.
type Notifier interface {
	SendDirectMessage(ctx context.Context, telegramID int64, text string) error
}
