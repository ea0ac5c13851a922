package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/rfrbot/roles-for-reactions/internal/biz/domain"
)

// Client wraps the discordgo session and implements repo.GatewayRepo.
// Every query goes to the Discord REST API; nothing is cached here.
type Client struct {
	session *discordgo.Session
}

// NewClient creates a Discord client for the given bot token
func NewClient(token string) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return &Client{session: session}, nil
}

// Session exposes the underlying session for handler registration
func (c *Client) Session() *discordgo.Session {
	return c.session
}

// Open opens the gateway connection
func (c *Client) Open() error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	return nil
}

// Close closes the gateway connection
func (c *Client) Close() error {
	return c.session.Close()
}

// GetGuildRoles gets the live role roster of a guild
func (c *Client) GetGuildRoles(ctx context.Context, guildID string) ([]domain.Role, error) {
	roles, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles for guild %s: %w", guildID, err)
	}

	out := make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, domain.Role{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

// GetMember resolves a user to a guild member
func (c *Client) GetMember(ctx context.Context, guildID, userID string) (*domain.Member, error) {
	member, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member %s in guild %s: %w", userID, guildID, err)
	}

	username := ""
	if member.User != nil {
		username = member.User.Username
	}
	return &domain.Member{UserID: userID, Username: username}, nil
}

// GetChannelName gets the display name of a channel
func (c *Client) GetChannelName(ctx context.Context, channelID string) (string, error) {
	channel, err := c.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}
	return channel.Name, nil
}

// Post sends a message to a channel and returns the posted message ID
func (c *Client) Post(ctx context.Context, channelID, content string) (string, error) {
	message, err := c.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to post to channel %s: %w", channelID, err)
	}
	return message.ID, nil
}

// AddReaction adds an emoji reaction to a message
func (c *Client) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := c.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add reaction %q to message %s: %w", emoji, messageID, err)
	}
	return nil
}

// GrantRole grants a role to a guild member
func (c *Client) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := c.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to grant role %s to member %s: %w", roleID, userID, err)
	}
	return nil
}

// Reply replies to a message in its channel
func (c *Client) Reply(ctx context.Context, channelID, messageID, text string) error {
	_, err := c.session.ChannelMessageSendReply(channelID, text, &discordgo.MessageReference{
		MessageID: messageID,
		ChannelID: channelID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to reply in channel %s: %w", channelID, err)
	}
	return nil
}

// DirectMessage sends a private message to a user
func (c *Client) DirectMessage(ctx context.Context, userID, text string) error {
	channel, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel with %s: %w", userID, err)
	}
	if _, err := c.session.ChannelMessageSend(channel.ID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to DM %s: %w", userID, err)
	}
	return nil
}
