package domain

import (
	"time"

	"github.com/google/uuid"
)

// MonitorStatus is the lifecycle state of a monitor
type MonitorStatus string

const (
	// MonitorPending is a monitor persisted before its public post exists
	MonitorPending MonitorStatus = "pending"
	// MonitorActive is a monitor whose post is live and resolvable
	MonitorActive MonitorStatus = "active"
	// MonitorRetired is a monitor taken out of resolution without deleting its record
	MonitorRetired MonitorStatus = "retired"
)

// ReactionRolePair maps a single emoji glyph to a guild role name
type ReactionRolePair struct {
	Emoji    string `json:"emoji"`
	RoleName string `json:"role_name"`
}

// Monitor binds a posted message to its emoji/role pairs.
// IDs are Discord snowflakes, kept as the strings the platform delivers.
type Monitor struct {
	ID        string             `json:"id"`
	ChannelID string             `json:"channel_id"`
	GuildID   string             `json:"guild_id"`
	MessageID string             `json:"message_id"`
	Reactions []ReactionRolePair `json:"reactions"`
	Status    MonitorStatus      `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewMonitor creates a monitor for a completed interview. MessageID is empty
// until the public post exists.
func NewMonitor(channelID, guildID string, reactions []ReactionRolePair, status MonitorStatus) Monitor {
	pairs := make([]ReactionRolePair, len(reactions))
	copy(pairs, reactions)
	return Monitor{
		ID:        uuid.NewString(),
		ChannelID: channelID,
		GuildID:   guildID,
		Reactions: pairs,
		Status:    status,
		CreatedAt: time.Now(),
	}
}

// Matches reports whether a reaction on the given message should be resolved
// against this monitor. Only active monitors resolve.
func (m *Monitor) Matches(channelID, messageID string) bool {
	return m.Status == MonitorActive && m.ChannelID == channelID && m.MessageID == messageID
}

// PairFor returns the pair for the given emoji glyph
func (m *Monitor) PairFor(emoji string) (ReactionRolePair, bool) {
	for _, p := range m.Reactions {
		if p.Emoji == emoji {
			return p, true
		}
	}
	return ReactionRolePair{}, false
}
