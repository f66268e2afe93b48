package agent

import (
	"context"
	"log/slog"

	"github.com/crimson-sun/flarewatch/internal/model"
	"github.com/crimson-sun/flarewatch/internal/notify"
)

// Notifier distributes the rendered report over the configured channels.
// Channels are attempted independently; one failure never blocks the rest.
type Notifier struct {
	channels []notify.Channel
	observe  func(channel string, ok bool) // optional delivery metrics hook
}

// NewNotifier creates a notifier over the given channels. observe may be nil.
func NewNotifier(channels []notify.Channel, observe func(string, bool)) *Notifier {
	return &Notifier{channels: channels, observe: observe}
}

// Channels returns the configured channel names.
func (n *Notifier) Channels() []string {
	names := make([]string, 0, len(n.channels))
	for _, ch := range n.channels {
		names = append(names, ch.Name())
	}
	return names
}

// Distribute attempts delivery on every channel and records a per-channel
// success boolean on the context. A context without a report is a no-op.
func (n *Notifier) Distribute(ctx context.Context, c *model.Context) {
	if c.Report == "" {
		slog.Warn("no report to distribute", "id", c.Flare.ID)
		return
	}

	results := make(map[string]bool, len(n.channels))
	for _, ch := range n.channels {
		err := ch.Deliver(ctx, c)
		ok := err == nil
		results[ch.Name()] = ok
		if n.observe != nil {
			n.observe(ch.Name(), ok)
		}
		if err != nil {
			slog.Error("channel delivery failed", "channel", ch.Name(), "id", c.Flare.ID, "error", err)
		}
	}
	c.Outcomes = results

	sent := 0
	for _, ok := range results {
		if ok {
			sent++
		}
	}
	slog.Info("notifications dispatched", "id", c.Flare.ID, "channels", len(results), "delivered", sent)
}
