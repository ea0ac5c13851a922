package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rfrbot/roles-for-reactions/internal/biz/domain"
	"github.com/rfrbot/roles-for-reactions/internal/biz/repo"
)

// ReplyTexts are the user-facing interview replies
type ReplyTexts struct {
	SetupAck       string // in-channel ack of the setup command
	DMOpener       string // first DM, takes the channel name
	ContentAck     string // post content recorded, explains the pairing format
	FormatError    string // pairing message could not be parsed
	UnknownRole    string // role name not in the roster, takes the valid names
	GuildFailure   string // guild roster could not be fetched
	PairAck        string // pair recorded, prompt for next or done
	Done           string // interview completed
	Quit           string // interview aborted
	ChannelFailure string // channel could not be resolved or posted to
	ReactFailure   string // a seed reaction could not be added
	SaveFailure    string // the store write failed
}

// DefaultReplyTexts are the built-in reply wordings
var DefaultReplyTexts = ReplyTexts{
	SetupAck: "Let's do it! Check your DMs.",
	DMOpener: "Setup post in '%s'. Enter the content of the post as a reply to this.",
	ContentAck: "Got it.\n\nNow, enter an emoji and the role name, 1 pair per " +
		"message with a space between, like [emoji] [role name]. Send a 'done' message when done.",
	FormatError:    "Doesn't look like the message format was right - it's [emoji] [role name]",
	UnknownRole:    "Could not find that role. Valid role names are %s",
	GuildFailure:   "Could not find your guild!",
	PairAck:        "Got it. Enter another, or 'done' to finish",
	Done:           "All done! See the post in the channel.",
	Quit:           "Setup terminated.",
	ChannelFailure: "The post could not be sent to the channel.",
	ReactFailure:   "The post was created but a reaction could not be added.",
	SaveFailure:    "Something went wrong and the setup may not have been saved.",
}

// interviewRegistry is the shared registry of in-flight interviews, keyed by
// the initiating user. All operations are atomic with respect to each other,
// so a duplicate "done" cannot take the same interview twice.
type interviewRegistry struct {
	mu     sync.Mutex
	byUser map[string]*domain.Interview
}

func newInterviewRegistry() *interviewRegistry {
	return &interviewRegistry{byUser: make(map[string]*domain.Interview)}
}

// upsert registers an interview, replacing any prior one for the same user
func (r *interviewRegistry) upsert(iv *domain.Interview) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[iv.UserID] = iv
}

// take removes and returns the user's interview if present
func (r *interviewRegistry) take(userID string) (*domain.Interview, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.byUser[userID]
	if ok {
		delete(r.byUser, userID)
	}
	return iv, ok
}

// get returns a copy of the user's interview if present
func (r *interviewRegistry) get(userID string) (domain.Interview, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.byUser[userID]
	if !ok {
		return domain.Interview{}, false
	}
	return *iv, true
}

// setContent records the post content if the same interview is still in
// flight. The ID check keeps a step validated against a replaced interview
// from mutating its replacement.
func (r *interviewRegistry) setContent(userID, id, content string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.byUser[userID]
	if !ok || iv.ID != id {
		return false
	}
	iv.SetContent(content)
	return true
}

// appendPair appends a pair if the same interview is still in flight
func (r *interviewRegistry) appendPair(userID, id string, pair domain.ReactionRolePair) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.byUser[userID]
	if !ok || iv.ID != id {
		return false
	}
	iv.AddPair(pair)
	return true
}

// snapshot returns copies of all in-flight interviews
func (r *interviewRegistry) snapshot() []domain.Interview {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Interview, 0, len(r.byUser))
	for _, iv := range r.byUser {
		out = append(out, *iv)
	}
	return out
}

// InterviewUsecase drives the per-user setup interview state machine
type InterviewUsecase struct {
	gateway      repo.GatewayRepo
	monitors     *MonitorUsecase
	replies      ReplyTexts
	persistFirst bool
	reg          *interviewRegistry
}

// NewInterviewUsecase creates an interview usecase. persistFirst selects the
// completion consistency order: true persists the monitor before the public
// post goes out, false is the legacy post-then-persist order.
func NewInterviewUsecase(
	gateway repo.GatewayRepo,
	monitors *MonitorUsecase,
	replies ReplyTexts,
	persistFirst bool,
) *InterviewUsecase {
	return &InterviewUsecase{
		gateway:      gateway,
		monitors:     monitors,
		replies:      replies,
		persistFirst: persistFirst,
		reg:          newInterviewRegistry(),
	}
}

// Begin starts an interview for the user who invoked setup. A setup
// invocation while an interview is already in flight replaces it.
func (uc *InterviewUsecase) Begin(ctx context.Context, userID, channelID, guildID, messageID string) error {
	if err := uc.gateway.Reply(ctx, channelID, messageID, uc.replies.SetupAck); err != nil {
		return &domain.ActionError{Op: "reply", Err: err}
	}

	uc.reg.upsert(domain.NewInterview(userID, channelID, guildID))

	channelName, err := uc.gateway.GetChannelName(ctx, channelID)
	if err != nil {
		channelName = channelID
	}
	if err := uc.gateway.DirectMessage(ctx, userID, fmt.Sprintf(uc.replies.DMOpener, channelName)); err != nil {
		return &domain.ActionError{Op: "dm", Err: err}
	}
	return nil
}

// HandleDirectMessage advances the user's interview by one step. A private
// message from a user with no interview in flight is silently ignored.
func (uc *InterviewUsecase) HandleDirectMessage(ctx context.Context, userID, content string) error {
	if domain.IsQuit(content) {
		if _, ok := uc.reg.take(userID); !ok {
			return nil
		}
		return uc.dm(ctx, userID, uc.replies.Quit)
	}

	iv, ok := uc.reg.get(userID)
	if !ok {
		return nil
	}

	// The first message is the post content, whatever it says
	if iv.Stage() == domain.StageAwaitingContent {
		if !uc.reg.setContent(userID, iv.ID, content) {
			return nil
		}
		return uc.dm(ctx, userID, uc.replies.ContentAck)
	}

	if domain.IsDone(content) {
		return uc.complete(ctx, userID)
	}

	return uc.collectPair(ctx, iv, content)
}

func (uc *InterviewUsecase) collectPair(ctx context.Context, iv domain.Interview, content string) error {
	pair, status := domain.ParsePair(content)
	if status == domain.ParseEmpty {
		return uc.dm(ctx, iv.UserID, uc.replies.FormatError)
	}

	// Fetch the roster fresh on every message so renames are picked up
	roles, err := uc.gateway.GetGuildRoles(ctx, iv.GuildID)
	if err != nil {
		_ = uc.dm(ctx, iv.UserID, uc.replies.GuildFailure)
		return &domain.LookupError{Kind: "guild", ID: iv.GuildID, Err: err}
	}

	if _, ok := domain.FindRole(roles, pair.RoleName); !ok {
		names := strings.Join(domain.ValidRoleNames(roles), ", ")
		return uc.dm(ctx, iv.UserID, fmt.Sprintf(uc.replies.UnknownRole, names))
	}

	if !uc.reg.appendPair(iv.UserID, iv.ID, pair) {
		return nil
	}
	return uc.dm(ctx, iv.UserID, uc.replies.PairAck)
}

// complete freezes the interview into a monitor, posts the public message
// and seeds its reactions. The interview is taken out of the registry first,
// so a concurrent duplicate "done" cannot double-post.
func (uc *InterviewUsecase) complete(ctx context.Context, userID string) error {
	iv, ok := uc.reg.take(userID)
	if !ok {
		return nil
	}
	if uc.persistFirst {
		return uc.completePersistFirst(ctx, iv)
	}
	return uc.completePostFirst(ctx, iv)
}

func (uc *InterviewUsecase) completePersistFirst(ctx context.Context, iv *domain.Interview) error {
	monitor := iv.ToMonitor(domain.MonitorPending)
	if err := uc.monitors.Append(ctx, monitor); err != nil {
		// Nothing was posted; put the interview back so "done" can be retried
		uc.reg.upsert(iv)
		_ = uc.dm(ctx, iv.UserID, uc.replies.SaveFailure)
		return err
	}

	messageID, err := uc.gateway.Post(ctx, iv.ChannelID, iv.PostContent)
	if err != nil {
		_ = uc.monitors.Retire(ctx, monitor.ID)
		_ = uc.dm(ctx, iv.UserID, uc.replies.ChannelFailure)
		return &domain.ActionError{Op: "post", Err: err}
	}

	if err := uc.seedReactions(ctx, iv, messageID); err != nil {
		// The post is live; activate it so it resolves despite the
		// missing seed reactions
		_ = uc.monitors.Finalize(ctx, monitor.ID, messageID)
		return err
	}

	if err := uc.monitors.Finalize(ctx, monitor.ID, messageID); err != nil {
		_ = uc.dm(ctx, iv.UserID, uc.replies.SaveFailure)
		return err
	}
	return uc.dm(ctx, iv.UserID, uc.replies.Done)
}

func (uc *InterviewUsecase) completePostFirst(ctx context.Context, iv *domain.Interview) error {
	messageID, err := uc.gateway.Post(ctx, iv.ChannelID, iv.PostContent)
	if err != nil {
		_ = uc.dm(ctx, iv.UserID, uc.replies.ChannelFailure)
		return &domain.ActionError{Op: "post", Err: err}
	}

	if err := uc.seedReactions(ctx, iv, messageID); err != nil {
		return err
	}

	monitor := iv.ToMonitor(domain.MonitorActive)
	monitor.MessageID = messageID
	if err := uc.monitors.AppendRetained(ctx, monitor); err != nil {
		// The monitor stays in memory and resolvable; only the durable
		// record is behind until the next successful save or restart.
		_ = uc.dm(ctx, iv.UserID, uc.replies.SaveFailure)
		return err
	}
	return uc.dm(ctx, iv.UserID, uc.replies.Done)
}

func (uc *InterviewUsecase) seedReactions(ctx context.Context, iv *domain.Interview, messageID string) error {
	for _, p := range iv.Reactions {
		if err := uc.gateway.AddReaction(ctx, iv.ChannelID, messageID, p.Emoji); err != nil {
			_ = uc.dm(ctx, iv.UserID, uc.replies.ReactFailure)
			return &domain.ActionError{Op: "react", Err: err}
		}
	}
	return nil
}

// Interviews returns copies of all in-flight interviews
func (uc *InterviewUsecase) Interviews() []domain.Interview {
	return uc.reg.snapshot()
}

func (uc *InterviewUsecase) dm(ctx context.Context, userID, text string) error {
	if err := uc.gateway.DirectMessage(ctx, userID, text); err != nil {
		return &domain.ActionError{Op: "dm", Err: err}
	}
	return nil
}
