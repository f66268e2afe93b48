package console

import (
	"context"
	"strings"
	"testing"

	"github.com/crimson-sun/flarewatch/internal/model"
)

func TestDeliver(t *testing.T) {
	var buf strings.Builder
	c := New(&buf)

	mc := model.NewContext(model.Flare{ID: "flr-1", ClassType: "M2.0"})
	mc.Report = "ALERT BODY"

	if err := c.Deliver(context.Background(), mc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "ALERT BODY") {
		t.Fatalf("report not written: %q", buf.String())
	}
	if c.Name() != "console" {
		t.Fatalf("unexpected name: %q", c.Name())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, context.DeadlineExceeded
}

func TestDeliver_WriteError(t *testing.T) {
	c := New(failingWriter{})
	mc := model.NewContext(model.Flare{ClassType: "X1.0"})
	mc.Report = "body"
	if err := c.Deliver(context.Background(), mc); err == nil {
		t.Fatal("expected error")
	}
}
