package email

import (
	"context"
	"fmt"

	"github.com/crimson-sun/flarewatch/internal/mail"
	"github.com/crimson-sun/flarewatch/internal/model"
)

// Channel delivers the rendered report as a plain-text email.
type Channel struct {
	transport mail.Transport
}

// New creates an email channel over the given transport.
func New(t mail.Transport) *Channel {
	return &Channel{transport: t}
}

func (c *Channel) Name() string { return "email" }

func (c *Channel) Deliver(_ context.Context, mc *model.Context) error {
	subject := fmt.Sprintf("SOLAR FLARE ALERT - %s Class Event", mc.Flare.ClassType)
	if err := c.transport.Send(subject, mc.Report); err != nil {
		return fmt.Errorf("email channel: %w", err)
	}
	return nil
}
