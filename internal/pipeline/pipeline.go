package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/crimson-sun/flarewatch/internal/agent"
	"github.com/crimson-sun/flarewatch/internal/metrics"
	"github.com/crimson-sun/flarewatch/internal/model"
)

// CycleEntry is one execution-log record: the outcome of one flare's
// traversal through the pipeline.
type CycleEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	FlareID   string          `json:"flare_id"`
	ClassType string          `json:"class"`
	Channels  map[string]bool `json:"notifications"`
}

// Pipeline drives the agent stages: one Detect per cycle, then
// Analyze → Render → Distribute per emitted context, strictly sequential.
// Contexts do not share state, so stages could fan out across contexts,
// but sequential keeps third-party rate limits honest.
type Pipeline struct {
	monitor  *agent.Monitor
	analyst  *agent.Analyst
	writer   *agent.Writer
	notifier *agent.Notifier
	metrics  *metrics.Metrics // may be nil

	mu  sync.Mutex
	log []CycleEntry
}

// New creates a pipeline from the four stages. m may be nil to disable
// metrics.
func New(monitor *agent.Monitor, analyst *agent.Analyst, writer *agent.Writer, notifier *agent.Notifier, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		monitor:  monitor,
		analyst:  analyst,
		writer:   writer,
		notifier: notifier,
		metrics:  m,
	}
}

// Monitor exposes the monitor stage for status reporting.
func (p *Pipeline) Monitor() *agent.Monitor { return p.monitor }

// RunCycle executes one full monitoring cycle and returns the number of
// flares fully processed. Zero detections is the expected steady state.
// A fault in one context's traversal is recovered and logged; subsequent
// contexts still run, and only completed contexts count.
func (p *Pipeline) RunCycle(ctx context.Context) int {
	start := time.Now()
	if p.metrics != nil {
		p.metrics.CyclesTotal.Inc()
	}

	contexts := p.monitor.Detect(ctx)
	if len(contexts) == 0 {
		return 0
	}

	processed := 0
	for i, c := range contexts {
		if ctx.Err() != nil {
			slog.Warn("cycle interrupted", "processed", processed, "remaining", len(contexts)-i)
			break
		}
		if p.process(ctx, c) {
			processed++
		}
	}

	slog.Info("cycle complete", "processed", processed, "detected", len(contexts),
		"duration", time.Since(start).Round(time.Millisecond))
	return processed
}

// process runs one context through the downstream stages. Returns false if
// the traversal panicked.
func (p *Pipeline) process(ctx context.Context, c *model.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("unexpected fault processing flare", "id", c.Flare.ID, "panic", r)
			ok = false
		}
	}()

	p.analyst.Analyze(ctx, c)
	p.writer.Render(ctx, c)
	p.notifier.Distribute(ctx, c)

	if p.metrics != nil && c.Flare.ClassType != "" {
		p.metrics.FlaresDetected.WithLabelValues(c.Flare.ClassType[:1]).Inc()
	}

	p.mu.Lock()
	p.log = append(p.log, CycleEntry{
		Timestamp: c.CreatedAt,
		FlareID:   c.Flare.ID,
		ClassType: c.Flare.ClassType,
		Channels:  c.Outcomes,
	})
	p.mu.Unlock()
	return true
}

// Run executes cycles until ctx is cancelled, sleeping interval between
// them. On exit it logs the aggregate summary by classification.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) {
	slog.Info("continuous monitoring started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logSummary()
			return
		case <-ticker.C:
			p.RunCycle(ctx)
		}
	}
}

// Log returns a copy of the execution log, oldest first.
func (p *Pipeline) Log() []CycleEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]CycleEntry, len(p.log))
	copy(out, p.log)
	return out
}

// Summary returns processed-flare counts grouped by classification code.
func (p *Pipeline) Summary() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	byClass := make(map[string]int)
	for _, entry := range p.log {
		byClass[entry.ClassType]++
	}
	return byClass
}

func (p *Pipeline) logSummary() {
	byClass := p.Summary()
	total := 0
	classes := make([]string, 0, len(byClass))
	for class, n := range byClass {
		total += n
		classes = append(classes, class)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(classes)))

	slog.Info("monitoring stopped", "total_processed", total)
	for _, class := range classes {
		slog.Info("flares by classification", "class", class, "count", byClass[class])
	}
}
