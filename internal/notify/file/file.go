package file

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/flarewatch/internal/model"
	"github.com/crimson-sun/flarewatch/internal/report"
)

// Channel persists the rendered report through the artifact store.
type Channel struct {
	store *report.Store
}

// New creates a file channel backed by the given store.
func New(store *report.Store) *Channel {
	return &Channel{store: store}
}

func (c *Channel) Name() string { return "file" }

func (c *Channel) Deliver(_ context.Context, mc *model.Context) error {
	name, err := c.store.Save(mc.Flare.ClassType, mc.Report)
	if err != nil {
		return fmt.Errorf("file channel: %w", err)
	}
	slog.Info("report saved", "artifact", name)
	return nil
}
