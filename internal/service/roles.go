package service

import (
	"context"
	"fmt"

	"github.com/rfrbot/roles-for-reactions/internal/biz/usecase"
)

// RolesService is the core's boundary: exactly three entry points, each
// returning success or a descriptive failure for the server layer to log.
// It never panics the process on a validation or I/O failure.
type RolesService struct {
	interviewUC *usecase.InterviewUsecase
	resolverUC  *usecase.ResolverUsecase
	debug       bool
}

// NewRolesService creates a roles service
func NewRolesService(interviewUC *usecase.InterviewUsecase, resolverUC *usecase.ResolverUsecase, debug bool) *RolesService {
	return &RolesService{
		interviewUC: interviewUC,
		resolverUC:  resolverUC,
		debug:       debug,
	}
}

// SetupRequest is a setup command invocation
type SetupRequest struct {
	UserID    string
	ChannelID string
	GuildID   string
	MessageID string
	FromBot   bool
}

// MessageRequest is a received message
type MessageRequest struct {
	UserID  string
	Content string
	InGuild bool
	FromBot bool
}

// HandleSetupCommand starts an interview. The command only works in guild
// channels; invocations from DMs or bots are ignored.
func (s *RolesService) HandleSetupCommand(ctx context.Context, req *SetupRequest) error {
	if req.GuildID == "" || req.FromBot {
		return nil
	}
	if s.debug {
		fmt.Printf("[Service] Setup invoked by %s in channel %s\n", req.UserID, req.ChannelID)
	}
	return s.interviewUC.Begin(ctx, req.UserID, req.ChannelID, req.GuildID, req.MessageID)
}

// HandleMessage routes a message to the interview state machine. Guild
// messages and bot-authored messages are ignored; so are private messages
// from users with no interview in flight.
func (s *RolesService) HandleMessage(ctx context.Context, req *MessageRequest) error {
	if req.InGuild || req.FromBot {
		return nil
	}
	return s.interviewUC.HandleDirectMessage(ctx, req.UserID, req.Content)
}

// HandleReaction resolves a reaction event against the monitor store
func (s *RolesService) HandleReaction(ctx context.Context, ev usecase.ReactionEvent) error {
	if s.debug {
		fmt.Printf("[Service] Reaction %q on message %s in channel %s\n", ev.Emoji, ev.MessageID, ev.ChannelID)
	}
	return s.resolverUC.Resolve(ctx, ev)
}
