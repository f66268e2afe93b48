package model

import "time"

// Severity is the structured severity assessment for a flare.
type Severity struct {
	Label       string // SEVERE, MODERATE, MINOR, INFO
	Icon        string
	Description string
}

// SearchResult is one hit from the contextual web search.
type SearchResult struct {
	Title   string
	Link    string
	Snippet string
}

// Analysis holds everything the analyst stage produces for one flare.
// Every field has a deterministic fallback, so a populated Analysis is
// guaranteed even with all optional capabilities absent.
type Analysis struct {
	Severity      Severity
	Narrative     string // AI commentary or templated fallback
	SearchResults []SearchResult
	Impacts       []string
	Regions       []string
	Timestamp     time.Time
}

// Context carries one flare through the pipeline stages. Created by the
// monitor, enriched in place by each subsequent stage, and discarded once
// the orchestrator has logged its outcome. Never shared across cycles.
type Context struct {
	Flare     Flare
	Analysis  *Analysis
	Report    string
	Outcomes  map[string]bool // channel name -> delivery success
	CreatedAt time.Time
}

// NewContext wraps a flare in a fresh pipeline context.
func NewContext(f Flare) *Context {
	return &Context{
		Flare:     f,
		CreatedAt: time.Now(),
	}
}
