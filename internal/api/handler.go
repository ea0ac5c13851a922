package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rfrbot/roles-for-reactions/internal/biz/domain"
	"github.com/rfrbot/roles-for-reactions/internal/biz/usecase"
)

// Server provides the admin HTTP API: store inspection, in-flight interview
// inspection and monitor retirement.
type Server struct {
	monitorUC   *usecase.MonitorUsecase
	interviewUC *usecase.InterviewUsecase

	server *http.Server
}

// NewServer creates a new API server. The http.Server is built here so Start
// and Stop can run on different goroutines without coordination.
func NewServer(monitorUC *usecase.MonitorUsecase, interviewUC *usecase.InterviewUsecase, port int) *Server {
	s := &Server{
		monitorUC:   monitorUC,
		interviewUC: interviewUC,
	}
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}
	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(ctx)
}

// Handler builds the route mux
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/monitors", s.handleMonitors)
	mux.HandleFunc("/api/monitors/", s.handleMonitorItem)
	mux.HandleFunc("/api/interviews", s.handleInterviews)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMonitors returns the full store snapshot
func (s *Server) handleMonitors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"monitors": s.monitorUC.Snapshot(),
	})
}

// handleMonitorItem retires a monitor by ID
func (s *Server) handleMonitorItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/monitors/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing monitor id")
		return
	}

	if err := s.monitorUC.Retire(r.Context(), id); err != nil {
		var lookupErr *domain.LookupError
		if errors.As(err, &lookupErr) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "retired", "id": id})
}

// interviewSummary is the admin view of an in-flight interview
type interviewSummary struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ChannelID string    `json:"channel_id"`
	GuildID   string    `json:"guild_id"`
	Stage     string    `json:"stage"`
	Pairs     int       `json:"pairs"`
	StartedAt time.Time `json:"started_at"`
}

// handleInterviews returns summaries of in-flight interviews
func (s *Server) handleInterviews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	interviews := s.interviewUC.Interviews()
	summaries := make([]interviewSummary, 0, len(interviews))
	for _, iv := range interviews {
		summaries = append(summaries, interviewSummary{
			ID:        iv.ID,
			UserID:    iv.UserID,
			ChannelID: iv.ChannelID,
			GuildID:   iv.GuildID,
			Stage:     string(iv.Stage()),
			Pairs:     len(iv.Reactions),
			StartedAt: iv.StartedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"interviews": summaries,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
