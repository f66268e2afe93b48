package notify

import (
	"context"

	"github.com/crimson-sun/flarewatch/internal/model"
)

// Channel is one alert delivery destination. Channels are attempted
// independently; a failing channel never blocks the others.
type Channel interface {
	// Name identifies the channel in outcome maps and logs.
	Name() string

	// Deliver sends the context's rendered report.
	Deliver(ctx context.Context, c *model.Context) error
}
