package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rfrbot/roles-for-reactions/internal/biz/domain"
)

func newTestResolver(gateway *mockGateway, monitors ...domain.Monitor) (*ResolverUsecase, *MonitorUsecase) {
	repo := &mockMonitorRepo{stored: monitors}
	monitorUC := NewMonitorUsecase(repo)
	_ = monitorUC.Load(context.Background())
	return NewResolverUsecase(gateway, monitorUC), monitorUC
}

func activeMonitor(channelID, guildID, messageID string, pairs ...domain.ReactionRolePair) domain.Monitor {
	m := domain.NewMonitor(channelID, guildID, pairs, domain.MonitorActive)
	m.MessageID = messageID
	return m
}

func TestResolve_GrantsRoleExactlyOnce(t *testing.T) {
	gateway := newMockGateway()
	gateway.roles["guild-1"] = []domain.Role{{ID: "r1", Name: "Helper"}}
	gateway.members["user-9"] = &domain.Member{UserID: "user-9", Username: "reactor"}

	uc, _ := newTestResolver(gateway,
		activeMonitor("chan-1", "guild-1", "msg-1", domain.ReactionRolePair{Emoji: "👍", RoleName: "Helper"}))

	ev := ReactionEvent{
		GuildID:   "guild-1",
		ChannelID: "chan-1",
		MessageID: "msg-1",
		UserID:    "user-9",
		Emoji:     "👍",
	}
	if err := uc.Resolve(context.Background(), ev); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(gateway.grants) != 1 {
		t.Fatalf("Expected exactly 1 grant, got %d", len(gateway.grants))
	}
	grant := gateway.grants[0]
	if grant.UserID != "user-9" || grant.RoleID != "r1" || grant.GuildID != "guild-1" {
		t.Errorf("Unexpected grant %+v", grant)
	}
}

func TestResolve_UnmatchedEmoji_NoGrant(t *testing.T) {
	gateway := newMockGateway()
	gateway.roles["guild-1"] = []domain.Role{{ID: "r1", Name: "Helper"}}
	gateway.members["user-9"] = &domain.Member{UserID: "user-9"}

	uc, _ := newTestResolver(gateway,
		activeMonitor("chan-1", "guild-1", "msg-1", domain.ReactionRolePair{Emoji: "👍", RoleName: "Helper"}))

	ev := ReactionEvent{GuildID: "guild-1", ChannelID: "chan-1", MessageID: "msg-1", UserID: "user-9", Emoji: "🎉"}
	if err := uc.Resolve(context.Background(), ev); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(gateway.grants) != 0 {
		t.Errorf("Expected zero grants, got %d", len(gateway.grants))
	}
}

func TestResolve_MatchesOnChannelAndMessage(t *testing.T) {
	gateway := newMockGateway()
	gateway.roles["guild-1"] = []domain.Role{{ID: "r1", Name: "Helper"}, {ID: "r2", Name: "Mod"}}
	gateway.members["user-9"] = &domain.Member{UserID: "user-9"}

	// Two monitors in the same channel with the same emoji; only the one
	// bound to the reacted message may grant
	uc, _ := newTestResolver(gateway,
		activeMonitor("chan-1", "guild-1", "msg-1", domain.ReactionRolePair{Emoji: "👍", RoleName: "Helper"}),
		activeMonitor("chan-1", "guild-1", "msg-2", domain.ReactionRolePair{Emoji: "👍", RoleName: "Mod"}),
	)

	ev := ReactionEvent{GuildID: "guild-1", ChannelID: "chan-1", MessageID: "msg-2", UserID: "user-9", Emoji: "👍"}
	if err := uc.Resolve(context.Background(), ev); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(gateway.grants) != 1 {
		t.Fatalf("Expected exactly 1 grant, got %d", len(gateway.grants))
	}
	if gateway.grants[0].RoleID != "r2" {
		t.Errorf("Expected the msg-2 monitor's role, got %s", gateway.grants[0].RoleID)
	}
}

func TestResolve_IgnoresNonGuildReaction(t *testing.T) {
	gateway := newMockGateway()
	uc, _ := newTestResolver(gateway,
		activeMonitor("chan-1", "guild-1", "msg-1", domain.ReactionRolePair{Emoji: "👍", RoleName: "Helper"}))

	ev := ReactionEvent{ChannelID: "chan-1", MessageID: "msg-1", UserID: "user-9", Emoji: "👍"}
	if err := uc.Resolve(context.Background(), ev); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(gateway.grants) != 0 {
		t.Error("Expected non-guild reactions to be ignored")
	}
}

func TestResolve_IgnoresCustomEmoji(t *testing.T) {
	gateway := newMockGateway()
	uc, _ := newTestResolver(gateway,
		activeMonitor("chan-1", "guild-1", "msg-1", domain.ReactionRolePair{Emoji: "👍", RoleName: "Helper"}))

	ev := ReactionEvent{
		GuildID:   "guild-1",
		ChannelID: "chan-1",
		MessageID: "msg-1",
		UserID:    "user-9",
		Emoji:     "party_blob",
		EmojiID:   "123456789",
	}
	if err := uc.Resolve(context.Background(), ev); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(gateway.grants) != 0 {
		t.Error("Expected custom emoji reactions to be ignored")
	}
}

func TestResolve_MemberLookupFailure_Surfaced(t *testing.T) {
	gateway := newMockGateway()
	gateway.roles["guild-1"] = []domain.Role{{ID: "r1", Name: "Helper"}}
	// user-9 deliberately absent from members

	uc, _ := newTestResolver(gateway,
		activeMonitor("chan-1", "guild-1", "msg-1", domain.ReactionRolePair{Emoji: "👍", RoleName: "Helper"}))

	ev := ReactionEvent{GuildID: "guild-1", ChannelID: "chan-1", MessageID: "msg-1", UserID: "user-9", Emoji: "👍"}
	err := uc.Resolve(context.Background(), ev)

	var lookupErr *domain.LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("Expected LookupError, got %v", err)
	}
	if lookupErr.Kind != "member" {
		t.Errorf("Expected member lookup failure, got %s", lookupErr.Kind)
	}
}

func TestResolve_RoleDeletedAfterPost_Surfaced(t *testing.T) {
	gateway := newMockGateway()
	gateway.roles["guild-1"] = []domain.Role{{ID: "r2", Name: "Mod"}} // Helper no longer exists
	gateway.members["user-9"] = &domain.Member{UserID: "user-9"}

	uc, _ := newTestResolver(gateway,
		activeMonitor("chan-1", "guild-1", "msg-1", domain.ReactionRolePair{Emoji: "👍", RoleName: "Helper"}))

	ev := ReactionEvent{GuildID: "guild-1", ChannelID: "chan-1", MessageID: "msg-1", UserID: "user-9", Emoji: "👍"}
	err := uc.Resolve(context.Background(), ev)

	var lookupErr *domain.LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("Expected LookupError, got %v", err)
	}
	if lookupErr.Kind != "role" || lookupErr.ID != "Helper" {
		t.Errorf("Expected role lookup failure for Helper, got %+v", lookupErr)
	}
	if len(gateway.grants) != 0 {
		t.Error("Expected no grant for a missing role")
	}
}

func TestResolve_PendingMonitorNotResolvable(t *testing.T) {
	gateway := newMockGateway()
	gateway.roles["guild-1"] = []domain.Role{{ID: "r1", Name: "Helper"}}
	gateway.members["user-9"] = &domain.Member{UserID: "user-9"}

	pending := domain.NewMonitor("chan-1", "guild-1",
		[]domain.ReactionRolePair{{Emoji: "👍", RoleName: "Helper"}}, domain.MonitorPending)
	pending.MessageID = "msg-1"

	uc, _ := newTestResolver(gateway, pending)

	ev := ReactionEvent{GuildID: "guild-1", ChannelID: "chan-1", MessageID: "msg-1", UserID: "user-9", Emoji: "👍"}
	if err := uc.Resolve(context.Background(), ev); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(gateway.grants) != 0 {
		t.Error("Expected pending monitors not to resolve")
	}
}

func TestRetire_TakesMonitorOutOfResolution(t *testing.T) {
	gateway := newMockGateway()
	gateway.roles["guild-1"] = []domain.Role{{ID: "r1", Name: "Helper"}}
	gateway.members["user-9"] = &domain.Member{UserID: "user-9"}

	m := activeMonitor("chan-1", "guild-1", "msg-1", domain.ReactionRolePair{Emoji: "👍", RoleName: "Helper"})
	uc, monitorUC := newTestResolver(gateway, m)

	if err := monitorUC.Retire(context.Background(), m.ID); err != nil {
		t.Fatalf("Retire failed: %v", err)
	}

	ev := ReactionEvent{GuildID: "guild-1", ChannelID: "chan-1", MessageID: "msg-1", UserID: "user-9", Emoji: "👍"}
	if err := uc.Resolve(context.Background(), ev); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(gateway.grants) != 0 {
		t.Error("Expected retired monitors not to resolve")
	}
	// The record survives retirement
	if len(monitorUC.Snapshot()) != 1 {
		t.Error("Expected the retired monitor to stay in the store")
	}
}
