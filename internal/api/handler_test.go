package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rfrbot/roles-for-reactions/internal/biz/domain"
	"github.com/rfrbot/roles-for-reactions/internal/biz/usecase"
)

// Mock implementations

type stubMonitorRepo struct {
	stored []domain.Monitor
}

func (s *stubMonitorRepo) Load(ctx context.Context) ([]domain.Monitor, error) {
	return s.stored, nil
}

func (s *stubMonitorRepo) Save(ctx context.Context, monitors []domain.Monitor) error {
	s.stored = make([]domain.Monitor, len(monitors))
	copy(s.stored, monitors)
	return nil
}

func (s *stubMonitorRepo) Close() error { return nil }

type stubGateway struct{}

func (s *stubGateway) GetGuildRoles(ctx context.Context, guildID string) ([]domain.Role, error) {
	return nil, nil
}

func (s *stubGateway) GetMember(ctx context.Context, guildID, userID string) (*domain.Member, error) {
	return &domain.Member{UserID: userID}, nil
}

func (s *stubGateway) GetChannelName(ctx context.Context, channelID string) (string, error) {
	return "general", nil
}

func (s *stubGateway) Post(ctx context.Context, channelID, content string) (string, error) {
	return "msg-1", nil
}

func (s *stubGateway) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	return nil
}

func (s *stubGateway) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	return nil
}

func (s *stubGateway) Reply(ctx context.Context, channelID, messageID, text string) error {
	return nil
}

func (s *stubGateway) DirectMessage(ctx context.Context, userID, text string) error {
	return nil
}

func newTestServer(t *testing.T, monitors ...domain.Monitor) (*Server, *usecase.MonitorUsecase, *usecase.InterviewUsecase) {
	t.Helper()
	monitorUC := usecase.NewMonitorUsecase(&stubMonitorRepo{stored: monitors})
	if err := monitorUC.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	interviewUC := usecase.NewInterviewUsecase(&stubGateway{}, monitorUC, usecase.DefaultReplyTexts, true)
	return NewServer(monitorUC, interviewUC, 0), monitorUC, interviewUC
}

// Tests

func TestHandleHealth(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
}

func TestHandleMonitors(t *testing.T) {
	m := domain.NewMonitor("chan-1", "guild-1",
		[]domain.ReactionRolePair{{Emoji: "👍", RoleName: "Helper"}}, domain.MonitorActive)
	m.MessageID = "msg-1"
	server, _, _ := newTestServer(t, m)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/monitors", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Monitors []domain.Monitor `json:"monitors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(body.Monitors) != 1 {
		t.Fatalf("Expected 1 monitor, got %d", len(body.Monitors))
	}
	if body.Monitors[0].ID != m.ID {
		t.Errorf("Expected monitor %s, got %s", m.ID, body.Monitors[0].ID)
	}
}

func TestHandleMonitorItem_Retire(t *testing.T) {
	m := domain.NewMonitor("chan-1", "guild-1", nil, domain.MonitorActive)
	m.MessageID = "msg-1"
	server, monitorUC, _ := newTestServer(t, m)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/monitors/"+m.ID, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	monitors := monitorUC.Snapshot()
	if len(monitors) != 1 {
		t.Fatalf("Expected the record to survive, got %d monitors", len(monitors))
	}
	if monitors[0].Status != domain.MonitorRetired {
		t.Errorf("Expected retired status, got %s", monitors[0].Status)
	}
}

func TestHandleMonitorItem_NotFound(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/monitors/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestHandleInterviews(t *testing.T) {
	server, _, interviewUC := newTestServer(t)

	ctx := context.Background()
	if err := interviewUC.Begin(ctx, "user-1", "chan-1", "guild-1", "cmd-msg"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/interviews", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Interviews []struct {
			UserID string `json:"user_id"`
			Stage  string `json:"stage"`
			Pairs  int    `json:"pairs"`
		} `json:"interviews"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(body.Interviews) != 1 {
		t.Fatalf("Expected 1 interview, got %d", len(body.Interviews))
	}
	if body.Interviews[0].UserID != "user-1" {
		t.Errorf("Expected user-1, got %s", body.Interviews[0].UserID)
	}
	if body.Interviews[0].Stage != string(domain.StageAwaitingContent) {
		t.Errorf("Expected awaiting_content, got %s", body.Interviews[0].Stage)
	}
}

func TestStop_BeforeStart(t *testing.T) {
	server, _, _ := newTestServer(t)

	// The http.Server exists from construction, so Stop is safe whether or
	// not Start has run yet
	server.Stop()
}

func TestHandleMonitors_MethodNotAllowed(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/monitors", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}
