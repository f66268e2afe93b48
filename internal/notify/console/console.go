package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/flarewatch/internal/model"
)

// Channel writes the rendered report to standard output.
type Channel struct {
	w io.Writer
}

// New creates a console channel. A nil writer defaults to os.Stdout.
func New(w io.Writer) *Channel {
	if w == nil {
		w = os.Stdout
	}
	return &Channel{w: w}
}

func (c *Channel) Name() string { return "console" }

func (c *Channel) Deliver(_ context.Context, mc *model.Context) error {
	if _, err := fmt.Fprintln(c.w, "\n"+mc.Report); err != nil {
		return fmt.Errorf("console channel: %w", err)
	}
	return nil
}
