package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/crimson-sun/flarewatch/internal/model"
	"github.com/crimson-sun/flarewatch/internal/notify"
)

// fakeChannel records deliveries and optionally fails.
type fakeChannel struct {
	name      string
	err       error
	delivered int
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Deliver(_ context.Context, _ *model.Context) error {
	f.delivered++
	return f.err
}

func TestDistribute_PerChannelIsolation(t *testing.T) {
	good1 := &fakeChannel{name: "console"}
	bad := &fakeChannel{name: "email", err: errors.New("smtp down")}
	good2 := &fakeChannel{name: "file"}

	n := NewNotifier([]notify.Channel{good1, bad, good2}, nil)

	c := model.NewContext(model.Flare{ID: "f", ClassType: "M1.0"})
	c.Report = "report"
	n.Distribute(context.Background(), c)

	if len(c.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(c.Outcomes))
	}
	if !c.Outcomes["console"] || !c.Outcomes["file"] {
		t.Errorf("healthy channels should succeed: %v", c.Outcomes)
	}
	if c.Outcomes["email"] {
		t.Errorf("failing channel should record false: %v", c.Outcomes)
	}
	// All three were attempted despite the middle one failing.
	for _, ch := range []*fakeChannel{good1, bad, good2} {
		if ch.delivered != 1 {
			t.Errorf("channel %s attempted %d times, want 1", ch.name, ch.delivered)
		}
	}
}

func TestDistribute_NoReportIsNoop(t *testing.T) {
	ch := &fakeChannel{name: "console"}
	n := NewNotifier([]notify.Channel{ch}, nil)

	c := model.NewContext(model.Flare{ID: "f", ClassType: "M1.0"})
	n.Distribute(context.Background(), c)

	if ch.delivered != 0 {
		t.Fatalf("channel attempted without a report")
	}
	if c.Outcomes != nil {
		t.Fatalf("expected nil outcomes, got %v", c.Outcomes)
	}
}

func TestDistribute_MetricsHook(t *testing.T) {
	observed := map[string]bool{}
	n := NewNotifier(
		[]notify.Channel{
			&fakeChannel{name: "console"},
			&fakeChannel{name: "email", err: errors.New("down")},
		},
		func(channel string, ok bool) { observed[channel] = ok },
	)

	c := model.NewContext(model.Flare{ID: "f", ClassType: "X1.0"})
	c.Report = "r"
	n.Distribute(context.Background(), c)

	if !observed["console"] || observed["email"] {
		t.Fatalf("unexpected observations: %v", observed)
	}
}

func TestChannels(t *testing.T) {
	n := NewNotifier([]notify.Channel{&fakeChannel{name: "a"}, &fakeChannel{name: "b"}}, nil)
	got := n.Channels()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected channels: %v", got)
	}
}
