package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/insight"
	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/survey"
)

// dashboardResponse is the GET /api/dashboard body.
type dashboardResponse struct {
	*survey.Dashboard
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loadedAt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{"status": "ok", "loaded": false}
	if snap := s.current.Load(); snap != nil {
		body["loaded"] = true
		body["rows"] = snap.table.Len()
		body["loadedAt"] = snap.loadedAt
	}
	s.writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ensure(r.Context())
	if err != nil {
		s.logger.Warn("dashboard unavailable", "err", err)
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, dashboardResponse{Dashboard: snap.dashboard, Rows: snap.table.Len(), LoadedAt: snap.loadedAt})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.reload(r.Context())
	if err != nil {
		s.logger.Warn("reload failed", "err", err)
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, dashboardResponse{Dashboard: snap.dashboard, Rows: snap.table.Len(), LoadedAt: snap.loadedAt})
}

// handleInsights always answers with {"insights": text}; failures are
// reported through the status code and a placeholder text.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Insights == nil {
		s.writeJSON(w, http.StatusInternalServerError, insight.Response{Insights: insight.MissingKeyText})
		return
	}
	var req insight.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		s.logger.Warn("bad insight request", "err", err)
		s.writeJSON(w, http.StatusInternalServerError, insight.Response{Insights: insight.FailureText(err)})
		return
	}
	resp := s.cfg.Insights.Generate(r.Context(), req)
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}
