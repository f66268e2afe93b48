package feed

import (
	"context"
	"time"

	"github.com/crimson-sun/flarewatch/internal/model"
)

// Feed defines the interface all solar-flare feed providers must implement.
type Feed interface {
	// Fetch returns the raw flare records the provider reported for the
	// given trailing window, in provider order.
	Fetch(ctx context.Context, cfg Config, w Window) ([]model.Flare, error)
}

// Config holds provider-specific connection settings.
type Config struct {
	Provider string
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// Window is the trailing time range a fetch covers.
type Window struct {
	Start time.Time
	End   time.Time
}

// TrailingDays builds a window ending now and starting the given number of
// days back.
func TrailingDays(days int) Window {
	end := time.Now()
	return Window{Start: end.AddDate(0, 0, -days), End: end}
}
