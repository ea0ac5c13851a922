package repo

import (
	"context"

	"github.com/rfrbot/roles-for-reactions/internal/biz/domain"
)

// GatewayRepo is the chat-platform gateway interface.
// Lookups are fetched fresh from the platform on every call, never cached,
// so a role renamed mid-interview is picked up immediately.
type GatewayRepo interface {
	// GetGuildRoles gets the live role roster of a guild
	GetGuildRoles(ctx context.Context, guildID string) ([]domain.Role, error)

	// GetMember resolves a user to a guild member
	GetMember(ctx context.Context, guildID, userID string) (*domain.Member, error)

	// GetChannelName gets the display name of a channel
	GetChannelName(ctx context.Context, channelID string) (string, error)

	// Post sends a message to a channel and returns the posted message ID
	Post(ctx context.Context, channelID, content string) (string, error)

	// AddReaction adds an emoji reaction to a message
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error

	// GrantRole grants a role to a guild member. Granting an already-held
	// role is a platform no-op, so callers need not pre-check membership.
	GrantRole(ctx context.Context, guildID, userID, roleID string) error

	// Reply replies to a message in its channel
	Reply(ctx context.Context, channelID, messageID, text string) error

	// DirectMessage sends a private message to a user
	DirectMessage(ctx context.Context, userID, text string) error
}
