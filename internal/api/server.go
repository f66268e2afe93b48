// Package api exposes the monitoring dashboard over HTTP: pipeline status,
// recent alerts, stored reports, and an endpoint to trigger a cycle on
// demand.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/crimson-sun/flarewatch/internal/metrics"
	"github.com/crimson-sun/flarewatch/internal/pipeline"
	"github.com/crimson-sun/flarewatch/internal/report"
)

// recentAlerts caps the /api/alerts response to the newest entries.
const recentAlerts = 20

// Server serves the dashboard API for one pipeline instance.
type Server struct {
	pipe    *pipeline.Pipeline
	store   *report.Store
	metrics *metrics.Metrics // may be nil
	started time.Time

	httpServer *http.Server
}

// New builds a server bound to addr. m may be nil to skip the /metrics
// route.
func New(addr string, pipe *pipeline.Pipeline, store *report.Store, m *metrics.Metrics) *Server {
	s := &Server{
		pipe:    pipe,
		store:   store,
		metrics: m,
		started: time.Now(),
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/alerts", s.handleAlerts)
	mux.HandleFunc("GET /api/logs", s.handleLogs)
	mux.HandleFunc("POST /api/run-cycle", s.handleRunCycle)
	mux.HandleFunc("GET /api/reports", s.handleReports)
	mux.HandleFunc("GET /api/reports/{name}", s.handleReport)
	mux.HandleFunc("GET /api/latest-report", s.handleLatestReport)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return mux
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// ListenAndServe blocks until the server stops. http.ErrServerClosed is
// reported as a clean exit.
func (s *Server) ListenAndServe() error {
	slog.Info("dashboard listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type statusResponse struct {
	Status         string         `json:"status"`
	UptimeSeconds  int64          `json:"uptime_seconds"`
	LastCheck      *time.Time     `json:"last_check,omitempty"`
	FlaresSeen     int            `json:"flares_seen"`
	AlertsSent     int            `json:"alerts_sent"`
	ByClass        map[string]int `json:"by_class"`
	ReportsStored  int            `json:"reports_stored"`
	ReportsDirPath string         `json:"reports_dir"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:         "active",
		UptimeSeconds:  int64(time.Since(s.started).Seconds()),
		FlaresSeen:     s.pipe.Monitor().SeenCount(),
		AlertsSent:     len(s.pipe.Log()),
		ByClass:        s.pipe.Summary(),
		ReportsDirPath: s.store.Dir(),
	}
	if last := s.pipe.Monitor().LastCheck(); !last.IsZero() {
		resp.LastCheck = &last
	}
	if infos, err := s.store.List(); err == nil {
		resp.ReportsStored = len(infos)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	log := s.pipe.Log()
	// Newest first, capped.
	alerts := make([]pipeline.CycleEntry, 0, recentAlerts)
	for i := len(log) - 1; i >= 0 && len(alerts) < recentAlerts; i-- {
		alerts = append(alerts, log[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"entries": s.pipe.Log()})
}

func (s *Server) handleRunCycle(w http.ResponseWriter, r *http.Request) {
	processed := s.pipe.RunCycle(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"processed": processed})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if infos == nil {
		infos = []report.Info{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": infos})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	content, err := s.store.Read(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(content))
}

func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	info, content, err := s.store.Latest()
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filename": info.Name,
		"modified": info.Modified,
		"content":  content,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
