package usecase

import (
	"context"

	"github.com/rfrbot/roles-for-reactions/internal/biz/domain"
	"github.com/rfrbot/roles-for-reactions/internal/biz/repo"
)

// ReactionEvent is a reaction-added event as delivered by the platform.
// EmojiID is non-empty for custom (non-Unicode) emoji.
type ReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Emoji     string
	EmojiID   string
}

// ResolverUsecase matches reaction events against the monitor store and
// grants the paired role.
type ResolverUsecase struct {
	gateway  repo.GatewayRepo
	monitors *MonitorUsecase
}

// NewResolverUsecase creates a resolver usecase
func NewResolverUsecase(gateway repo.GatewayRepo, monitors *MonitorUsecase) *ResolverUsecase {
	return &ResolverUsecase{gateway: gateway, monitors: monitors}
}

// Resolve handles one reaction-added event. Reactions outside a guild and
// custom emoji are ignored; the rest either grant a role or surface an error.
func (uc *ResolverUsecase) Resolve(ctx context.Context, ev ReactionEvent) error {
	// Monitors are guild-scoped only
	if ev.GuildID == "" {
		return nil
	}
	// Custom emoji are platform assets, not glyphs; out of scope
	if ev.EmojiID != "" {
		return nil
	}

	matched := uc.monitors.MatchActive(ev.ChannelID, ev.MessageID)
	if len(matched) == 0 {
		return nil
	}

	// Anyone able to react in a visible guild should resolve to a member
	member, err := uc.gateway.GetMember(ctx, ev.GuildID, ev.UserID)
	if err != nil {
		return &domain.LookupError{Kind: "member", ID: ev.UserID, Err: err}
	}

	// Roster fetched fresh at grant time; roles may have been renamed or
	// deleted since the post was created
	roles, err := uc.gateway.GetGuildRoles(ctx, ev.GuildID)
	if err != nil {
		return &domain.LookupError{Kind: "guild", ID: ev.GuildID, Err: err}
	}

	for _, monitor := range matched {
		pair, ok := monitor.PairFor(ev.Emoji)
		if !ok {
			continue
		}

		role, ok := domain.FindRole(roles, pair.RoleName)
		if !ok {
			return &domain.LookupError{Kind: "role", ID: pair.RoleName}
		}

		if err := uc.gateway.GrantRole(ctx, ev.GuildID, member.UserID, role.ID); err != nil {
			return &domain.ActionError{Op: "grant", Err: err}
		}
	}
	return nil
}
