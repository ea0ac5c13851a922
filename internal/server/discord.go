package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/rfrbot/roles-for-reactions/internal/biz/usecase"
	"github.com/rfrbot/roles-for-reactions/internal/infra/discord"
	"github.com/rfrbot/roles-for-reactions/internal/service"
)

// DiscordServer routes gateway events into the core's three entry points.
// Handlers run on discordgo's per-event dispatch goroutines; the core's
// shared state is guarded inside the usecases.
type DiscordServer struct {
	client *discord.Client
	svc    *service.RolesService
	prefix string
	debug  bool
}

// NewDiscordServer creates a Discord server
func NewDiscordServer(client *discord.Client, svc *service.RolesService, prefix string, debug bool) *DiscordServer {
	return &DiscordServer{
		client: client,
		svc:    svc,
		prefix: prefix,
		debug:  debug,
	}
}

// Start registers the event handlers and opens the gateway connection
func (s *DiscordServer) Start() error {
	session := s.client.Session()
	session.AddHandler(s.onReady)
	session.AddHandler(s.onMessageCreate)
	session.AddHandler(s.onReactionAdd)
	return s.client.Open()
}

// Stop closes the gateway connection
func (s *DiscordServer) Stop() {
	_ = s.client.Close()
}

func (s *DiscordServer) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	fmt.Printf("[Server] Bot connected as %s\n", r.User.Username)
}

// onMessageCreate splits messages into guild command dispatch and DM routing
func (s *DiscordServer) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	if m.GuildID != "" {
		if strings.HasPrefix(m.Content, s.prefix) {
			s.dispatchCommand(m)
		}
		return
	}

	req := &service.MessageRequest{
		UserID:  m.Author.ID,
		Content: m.Content,
		FromBot: m.Author.Bot,
	}
	if err := s.svc.HandleMessage(context.Background(), req); err != nil {
		fmt.Printf("[Server] Message handler error: %v\n", err)
	}
}

func (s *DiscordServer) dispatchCommand(m *discordgo.MessageCreate) {
	fields := strings.Fields(strings.TrimPrefix(m.Content, s.prefix))
	if len(fields) == 0 {
		return
	}

	switch strings.ToLower(fields[0]) {
	case "setup":
		req := &service.SetupRequest{
			UserID:    m.Author.ID,
			ChannelID: m.ChannelID,
			GuildID:   m.GuildID,
			MessageID: m.ID,
			FromBot:   m.Author.Bot,
		}
		if err := s.svc.HandleSetupCommand(context.Background(), req); err != nil {
			fmt.Printf("[Server] Setup command error: %v\n", err)
		}
	default:
		if s.debug {
			fmt.Printf("[Server] Unrecognized command %q\n", fields[0])
		}
	}
}

func (s *DiscordServer) onReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	ev := usecase.ReactionEvent{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.Name,
		EmojiID:   r.Emoji.ID,
	}
	if err := s.svc.HandleReaction(context.Background(), ev); err != nil {
		fmt.Printf("[Server] Reaction handler error: %v\n", err)
	}
}
