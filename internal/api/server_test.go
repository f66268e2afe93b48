package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/crimson-sun/flarewatch/internal/agent"
	"github.com/crimson-sun/flarewatch/internal/feed"
	"github.com/crimson-sun/flarewatch/internal/metrics"
	"github.com/crimson-sun/flarewatch/internal/model"
	"github.com/crimson-sun/flarewatch/internal/notify"
	"github.com/crimson-sun/flarewatch/internal/pipeline"
	"github.com/crimson-sun/flarewatch/internal/report"
)

type fakeFeed struct {
	flares []model.Flare
}

func (f *fakeFeed) Fetch(_ context.Context, _ feed.Config, _ feed.Window) ([]model.Flare, error) {
	return f.flares, nil
}

type nopChannel struct{}

func (nopChannel) Name() string                                      { return "console" }
func (nopChannel) Deliver(_ context.Context, _ *model.Context) error { return nil }

func newTestServer(t *testing.T, flares []model.Flare) *Server {
	t.Helper()
	store := report.NewStore(t.TempDir())
	monitor := agent.NewMonitor(&fakeFeed{flares: flares}, feed.Config{}, 7)
	analyst := agent.NewAnalyst(nil, nil)
	writer := agent.NewWriter(nil, "")
	notifier := agent.NewNotifier([]notify.Channel{nopChannel{}}, nil)
	m := metrics.New()
	pipe := pipeline.New(monitor, analyst, writer, notifier, m)
	return New(":0", pipe, store, m)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s.Handler(), "/api/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Status     string `json:"status"`
		FlaresSeen int    `json:"flares_seen"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "active" {
		t.Fatalf("expected active status, got %q", body.Status)
	}
}

func TestRunCycleEndpoint(t *testing.T) {
	s := newTestServer(t, []model.Flare{
		{ID: "flr-m", ClassType: "M4.4", PeakTime: "2025-06-14T11:02Z"},
		{ID: "flr-c", ClassType: "C1.0"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/run-cycle", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Processed int `json:"processed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Processed != 1 {
		t.Fatalf("expected 1 processed, got %d", body.Processed)
	}

	// GET on the cycle route is rejected.
	if rec := get(t, s.Handler(), "/api/run-cycle"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET run-cycle, got %d", rec.Code)
	}
}

func TestAlertsAfterCycle(t *testing.T) {
	s := newTestServer(t, []model.Flare{{ID: "flr-x", ClassType: "X1.0"}})
	s.pipe.RunCycle(context.Background())

	rec := get(t, s.Handler(), "/api/alerts")
	var body struct {
		Alerts []struct {
			FlareID string `json:"flare_id"`
		} `json:"alerts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Alerts) != 1 || body.Alerts[0].FlareID != "flr-x" {
		t.Fatalf("unexpected alerts: %+v", body.Alerts)
	}
}

func TestReportRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	// Empty store: listing is empty, latest is a 404.
	rec := get(t, s.Handler(), "/api/reports")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := get(t, s.Handler(), "/api/latest-report"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty store, got %d", rec.Code)
	}

	name, err := s.store.Save("X1.0", "ALERT BODY")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	rec = get(t, s.Handler(), "/api/reports/"+name)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ALERT BODY" {
		t.Fatalf("unexpected report body: %q", rec.Body.String())
	}

	rec = get(t, s.Handler(), "/api/latest-report")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ALERT BODY") {
		t.Fatalf("latest report missing content: %s", rec.Body.String())
	}

	if rec := get(t, s.Handler(), "/api/reports/nope.txt"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown report, got %d", rec.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t, []model.Flare{{ID: "flr-m", ClassType: "M1.0"}})
	s.pipe.RunCycle(context.Background())

	rec := get(t, s.Handler(), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "flarewatch_cycles_total") {
		t.Fatalf("exposition missing cycle counter:\n%s", rec.Body.String())
	}
}
