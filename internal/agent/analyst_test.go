package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/crimson-sun/flarewatch/internal/model"
)

// fakeGenerator returns canned text or an error.
type fakeGenerator struct {
	text    string
	err     error
	prompts []string
	temps   []float64
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string, temperature float64) (string, error) {
	g.prompts = append(g.prompts, prompt)
	g.temps = append(g.temps, temperature)
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

// fakeSearcher returns canned results or an error.
type fakeSearcher struct {
	results []model.SearchResult
	err     error
	queries []string
}

func (s *fakeSearcher) Search(_ context.Context, query string) ([]model.SearchResult, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

func TestAnalyze_AllCapabilitiesAbsent(t *testing.T) {
	a := NewAnalyst(nil, nil)

	for _, class := range []string{"M1.0", "M9.9", "X1.0", "X"} {
		c := model.NewContext(model.Flare{ID: "f", ClassType: class, PeakTime: "2026-08-20T14:30Z"})
		a.Analyze(context.Background(), c)

		if c.Analysis == nil {
			t.Fatalf("%s: analysis not populated", class)
		}
		if c.Analysis.Severity.Label == "" {
			t.Errorf("%s: empty severity label", class)
		}
		if c.Analysis.Narrative == "" {
			t.Errorf("%s: empty narrative", class)
		}
		if len(c.Analysis.Impacts) == 0 {
			t.Errorf("%s: empty impacts", class)
		}
		if len(c.Analysis.Regions) == 0 {
			t.Errorf("%s: empty regions", class)
		}
	}
}

func TestAnalyze_UsesAICommentary(t *testing.T) {
	gen := &fakeGenerator{text: "AI narrative"}
	a := NewAnalyst(gen, nil)

	c := model.NewContext(model.Flare{
		ID: "f", ClassType: "X1.2", PeakTime: "2026-08-20T14:30Z",
		SourceLocation: "N15W30", ActiveRegion: "13536",
		LinkedEvents: []string{"cme-1", "cme-2"},
	})
	a.Analyze(context.Background(), c)

	if c.Analysis.Narrative != "AI narrative" {
		t.Fatalf("unexpected narrative: %q", c.Analysis.Narrative)
	}
	if len(gen.temps) != 1 || gen.temps[0] != analysisTemperature {
		t.Fatalf("unexpected temperatures: %v", gen.temps)
	}
	prompt := gen.prompts[0]
	for _, want := range []string{"X1.2", "2026-08-20T14:30Z", "N15W30", "13536", "Linked Events: 2"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAnalyze_AIFailureUsesFallback(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("timeout")}
	a := NewAnalyst(gen, nil)

	c := model.NewContext(model.Flare{ID: "f", ClassType: "X5.0"})
	a.Analyze(context.Background(), c)

	if !strings.Contains(c.Analysis.Narrative, "severe") {
		t.Fatalf("expected severe fallback for X class, got %q", c.Analysis.Narrative)
	}

	c2 := model.NewContext(model.Flare{ID: "f2", ClassType: "M2.0"})
	a.Analyze(context.Background(), c2)
	if !strings.Contains(c2.Analysis.Narrative, "moderate") {
		t.Fatalf("expected moderate fallback for M class, got %q", c2.Analysis.Narrative)
	}
}

func TestAnalyze_SearchFailureYieldsEmpty(t *testing.T) {
	s := &fakeSearcher{err: errors.New("quota exceeded")}
	a := NewAnalyst(nil, s)

	c := model.NewContext(model.Flare{ID: "f", ClassType: "M3.0", PeakTime: "2026-08-20T14:30Z"})
	a.Analyze(context.Background(), c)

	if len(c.Analysis.SearchResults) != 0 {
		t.Fatalf("expected empty search results, got %d", len(c.Analysis.SearchResults))
	}
	if len(s.queries) != 1 || s.queries[0] != "solar flare M3.0 2026-08-20" {
		t.Fatalf("unexpected query: %v", s.queries)
	}
	// Stage still completed.
	if c.Analysis.Narrative == "" {
		t.Fatal("narrative missing after search failure")
	}
}

func TestAssessSeverity(t *testing.T) {
	tests := []struct {
		class string
		label string
	}{
		{"X9.3", "SEVERE"},
		{"M5.0", "MODERATE"},
		{"C2.0", "MINOR"},
		{"B1.0", "INFO"},
		{"", "INFO"},
	}
	for _, tt := range tests {
		got := assessSeverity(model.Flare{ClassType: tt.class})
		if got.Label != tt.label {
			t.Errorf("assessSeverity(%q) = %q, want %q", tt.class, got.Label, tt.label)
		}
		if got.Icon == "" || got.Description == "" {
			t.Errorf("assessSeverity(%q): incomplete assessment %+v", tt.class, got)
		}
	}
}

func TestDetermineRegions(t *testing.T) {
	global := "Global (all longitudes)"

	// X letter alone forces global scope, magnitude notwithstanding.
	if got := determineRegions(model.Flare{ClassType: "X1.0"}); got[0] != global {
		t.Errorf("X1.0: expected global scope, got %v", got)
	}
	// Bare "X" must not panic; letter still forces global.
	if got := determineRegions(model.Flare{ClassType: "X"}); got[0] != global {
		t.Errorf("X: expected global scope, got %v", got)
	}
	// M below threshold stays regional.
	if got := determineRegions(model.Flare{ClassType: "M4.9"}); got[0] == global {
		t.Errorf("M4.9: expected regional scope, got %v", got)
	}
	// Magnitude >= 5.0 escalates.
	if got := determineRegions(model.Flare{ClassType: "M5.0"}); got[0] != global {
		t.Errorf("M5.0: expected global scope, got %v", got)
	}
	// Unparseable magnitude defaults to 1.0: non-global for M.
	if got := determineRegions(model.Flare{ClassType: "Mbad"}); got[0] == global {
		t.Errorf("Mbad: expected regional scope, got %v", got)
	}
}

func TestDetermineImpacts(t *testing.T) {
	if got := determineImpacts(model.Flare{ClassType: "X1.0"}); len(got) != 4 || !strings.Contains(got[0], "radio blackouts") {
		t.Errorf("unexpected X impacts: %v", got)
	}
	if got := determineImpacts(model.Flare{ClassType: "M1.0"}); len(got) != 4 {
		t.Errorf("unexpected M impacts: %v", got)
	}
	if got := determineImpacts(model.Flare{ClassType: "C1.0"}); len(got) != 1 || got[0] != "Minimal impact expected" {
		t.Errorf("unexpected C impacts: %v", got)
	}
	if got := determineImpacts(model.Flare{}); len(got) != 1 {
		t.Errorf("unexpected empty-class impacts: %v", got)
	}
}
