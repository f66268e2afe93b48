package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crimson-sun/flarewatch/internal/feed"
	"github.com/crimson-sun/flarewatch/internal/model"
)

// Monitor detects new significant flares. It owns the process-lifetime
// seen-set: every fetched identifier is marked seen, significant or not,
// and an identifier once seen is never emitted again. The set does not
// survive restarts; re-detection after a restart is accepted.
type Monitor struct {
	feed       feed.Feed
	feedCfg    feed.Config
	windowDays int

	// onFetchFailure, when set, is invoked once per failed fetch.
	onFetchFailure func()

	mu        sync.Mutex
	seen      map[string]struct{}
	lastCheck time.Time
}

// NewMonitor creates a monitor over the given feed.
func NewMonitor(f feed.Feed, cfg feed.Config, windowDays int) *Monitor {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &Monitor{
		feed:       f,
		feedCfg:    cfg,
		windowDays: windowDays,
		seen:       make(map[string]struct{}),
	}
}

// Detect fetches the trailing window and returns one fresh pipeline context
// per new significant (M/X class) flare, in feed order. A fetch failure is
// logged and yields no contexts; it never surfaces as an error. The
// last-check timestamp advances unconditionally.
func (m *Monitor) Detect(ctx context.Context) []*model.Context {
	slog.Info("starting monitoring cycle", "window_days", m.windowDays)

	flares, err := m.feed.Fetch(ctx, m.feedCfg, feed.TrailingDays(m.windowDays))
	if err != nil {
		slog.Warn("feed fetch failed", "error", err)
		if m.onFetchFailure != nil {
			m.onFetchFailure()
		}
		flares = nil
	} else {
		slog.Info("fetched flare records", "count", len(flares))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var contexts []*model.Context
	for _, f := range flares {
		if f.ID == "" {
			continue
		}
		if _, ok := m.seen[f.ID]; ok {
			continue
		}
		// Insignificant records are marked seen too, so they are not
		// re-evaluated every cycle.
		m.seen[f.ID] = struct{}{}
		if !f.Significant() {
			continue
		}
		slog.Info("new significant flare detected", "id", f.ID, "class", f.ClassType)
		contexts = append(contexts, model.NewContext(f))
	}
	m.lastCheck = time.Now()

	if len(contexts) == 0 {
		slog.Info("no new significant flares detected")
	}
	return contexts
}

// OnFetchFailure registers a hook invoked when a feed fetch fails. Call
// before the first Detect.
func (m *Monitor) OnFetchFailure(fn func()) {
	m.onFetchFailure = fn
}

// LastCheck returns when the monitor last completed a detection pass.
func (m *Monitor) LastCheck() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCheck
}

// SeenCount returns the size of the seen-set.
func (m *Monitor) SeenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}
