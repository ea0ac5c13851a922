package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// InterviewStage is the step the interview is waiting on
type InterviewStage string

const (
	// StageAwaitingContent means the next message becomes the post content
	StageAwaitingContent InterviewStage = "awaiting_content"
	// StageAwaitingReactions means the next message is a pair or "done"
	StageAwaitingReactions InterviewStage = "awaiting_reactions"
)

// Interview is the ephemeral per-user state of a reaction-role setup
// conversation. It is the mutable builder that completion freezes into a
// Monitor.
type Interview struct {
	ID          string
	UserID      string
	ChannelID   string
	GuildID     string
	PostContent string
	HasContent  bool
	Reactions   []ReactionRolePair
	StartedAt   time.Time
}

// NewInterview creates an empty interview for the user who invoked setup in
// the given channel/guild.
func NewInterview(userID, channelID, guildID string) *Interview {
	return &Interview{
		ID:        uuid.NewString(),
		UserID:    userID,
		ChannelID: channelID,
		GuildID:   guildID,
		StartedAt: time.Now(),
	}
}

// Stage returns the current interview stage
func (i *Interview) Stage() InterviewStage {
	if !i.HasContent {
		return StageAwaitingContent
	}
	return StageAwaitingReactions
}

// SetContent records the public post content
func (i *Interview) SetContent(content string) {
	i.PostContent = content
	i.HasContent = true
}

// AddPair appends a validated pair, preserving insertion order
func (i *Interview) AddPair(pair ReactionRolePair) {
	i.Reactions = append(i.Reactions, pair)
}

// ToMonitor freezes the interview into a monitor
func (i *Interview) ToMonitor(status MonitorStatus) Monitor {
	return NewMonitor(i.ChannelID, i.GuildID, i.Reactions, status)
}

// PairParseStatus tags the outcome of parsing a pairing message
type PairParseStatus int

const (
	// ParseOK means a pair was extracted
	ParseOK PairParseStatus = iota
	// ParseEmpty means the message had no characters
	ParseEmpty
)

// ParsePair parses a "<emoji> <role name>" message. The contract is the wire
// format between the bot and its operators: the first rune is the emoji, one
// separator rune is skipped, the remainder is the role name.
func ParsePair(content string) (ReactionRolePair, PairParseStatus) {
	if content == "" {
		return ReactionRolePair{}, ParseEmpty
	}
	emoji, size := utf8.DecodeRuneInString(content)
	rest := content[size:]
	if rest != "" {
		_, sep := utf8.DecodeRuneInString(rest)
		rest = rest[sep:]
	}
	return ReactionRolePair{Emoji: string(emoji), RoleName: rest}, ParseOK
}

// IsQuit reports whether a message aborts the interview
func IsQuit(content string) bool {
	return strings.EqualFold(content, "quit")
}

// IsDone reports whether a message completes the interview
func IsDone(content string) bool {
	return strings.EqualFold(content, "done")
}
