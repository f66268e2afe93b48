package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/flarewatch/internal/genai"
	"github.com/crimson-sun/flarewatch/internal/model"
)

// Sampling temperature for report prose; slightly higher than analysis.
const reportTemperature = 0.4

const divider = "======================================================================"
const thinDivider = "----------------------------------------------------------------------"

// Writer renders a context's flare and analysis into the alert report.
// With the AI capability present it requests a structured six-section
// report; otherwise, or when the AI returns nothing, it assembles the
// deterministic template. Render always leaves non-empty report text.
type Writer struct {
	gen  genai.Generator // nil when not configured
	feed string          // source feed name for the metadata footer
	now  func() time.Time
}

// NewWriter creates a writer. gen may be nil.
func NewWriter(gen genai.Generator, feedName string) *Writer {
	if feedName == "" {
		feedName = "NASA DONKI API"
	}
	return &Writer{gen: gen, feed: feedName, now: time.Now}
}

// Render populates c.Report in place.
func (w *Writer) Render(ctx context.Context, c *model.Context) {
	slog.Info("generating report", "id", c.Flare.ID)

	if w.gen != nil && c.Analysis != nil {
		if report := w.aiReport(ctx, c); report != "" {
			c.Report = report
			slog.Info("report generation complete", "id", c.Flare.ID, "mode", "ai")
			return
		}
	}
	c.Report = w.templateReport(c)
	slog.Info("report generation complete", "id", c.Flare.ID, "mode", "template")
}

// aiReport requests an AI-written report; empty string means fall through
// to the template path.
func (w *Writer) aiReport(ctx context.Context, c *model.Context) string {
	f := c.Flare
	a := c.Analysis

	prompt := fmt.Sprintf(`You are writing an emergency alert report for a solar flare event.

FLARE DATA:
- ID: %s
- Class: %s
- Peak Time: %s
- Location: %s
- Duration: %s to %s

ANALYSIS:
%s

IMPACTS:
%s

AFFECTED REGIONS:
%s

Generate a professional alert report with these sections:
1. HEADER: Title with severity indicator
2. EXECUTIVE SUMMARY: 2-3 sentence overview
3. EVENT DETAILS: Technical specifications
4. IMPACT ASSESSMENT: Expected effects
5. AFFECTED AREAS: Geographic scope
6. RECOMMENDATIONS: Brief guidance for affected parties

Use clear, professional language. Include the emoji indicator for severity.
Keep total length under 500 words.`,
		f.ID, f.ClassType, f.PeakTime, f.SourceLocation, f.BeginTime, f.EndTime,
		a.Narrative,
		strings.Join(a.Impacts, ", "),
		strings.Join(a.Regions, ", "))

	text, err := w.gen.Generate(ctx, prompt, reportTemperature)
	if err != nil {
		slog.Warn("AI report failed, using template", "id", f.ID, "error", err)
		return ""
	}
	if strings.TrimSpace(text) == "" {
		return ""
	}

	footer := fmt.Sprintf("\n\n%s\nReport ID: %s\nGenerated: %s\n%s",
		divider, uuid.NewString(), w.now().UTC().Format("2006-01-02 15:04:05 UTC"), divider)
	return text + footer
}

// templateReport assembles the deterministic plain-text report.
func (w *Writer) templateReport(c *model.Context) string {
	f := c.Flare
	a := c.Analysis
	if a == nil {
		a = &model.Analysis{
			Severity:  model.Severity{Label: "INFO", Icon: "⚪", Description: "Informational"},
			Narrative: "AI analysis unavailable - using standard assessment",
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", divider)
	fmt.Fprintf(&b, "%s SOLAR FLARE ALERT - %s %s\n", a.Severity.Icon, a.Severity.Label, a.Severity.Icon)
	fmt.Fprintf(&b, "%s\n\n", divider)

	fmt.Fprintf(&b, "FLARE CLASSIFICATION: %s\n", f.ClassType)
	fmt.Fprintf(&b, "EVENT ID: %s\n", f.ID)
	fmt.Fprintf(&b, "SEVERITY: %s\n\n", a.Severity.Label)

	fmt.Fprintf(&b, "%s\n\n", thinDivider)
	b.WriteString("TIMING INFORMATION:\n")
	fmt.Fprintf(&b, "  - Begin Time:  %s\n", formatTime(f.BeginTime))
	fmt.Fprintf(&b, "  - Peak Time:   %s\n", formatTime(f.PeakTime))
	fmt.Fprintf(&b, "  - End Time:    %s\n\n", formatTime(f.EndTime))

	b.WriteString("SOURCE INFORMATION:\n")
	fmt.Fprintf(&b, "  - Location: %s\n", f.SourceLocation)
	region := f.ActiveRegion
	if region == "" {
		region = "Not specified"
	}
	fmt.Fprintf(&b, "  - Active Region: %s\n\n", region)

	fmt.Fprintf(&b, "%s\n\n", thinDivider)
	b.WriteString("ANALYSIS:\n")
	narrative := a.Narrative
	if narrative == "" {
		narrative = "AI analysis unavailable - using standard assessment"
	}
	fmt.Fprintf(&b, "%s\n\n", narrative)

	fmt.Fprintf(&b, "%s\n\n", thinDivider)
	b.WriteString("POTENTIAL IMPACTS:\n")
	impacts := a.Impacts
	if len(impacts) == 0 {
		impacts = []string{"Impact assessment pending"}
	}
	for _, impact := range impacts {
		fmt.Fprintf(&b, "  - %s\n", impact)
	}

	b.WriteString("\nAFFECTED REGIONS:\n")
	regions := a.Regions
	if len(regions) == 0 {
		regions = []string{"Global assessment pending"}
	}
	for _, r := range regions {
		fmt.Fprintf(&b, "  - %s\n", r)
	}

	if len(f.LinkedEvents) > 0 {
		fmt.Fprintf(&b, "\nLINKED EVENTS: %d associated space weather event(s)\n", len(f.LinkedEvents))
	}

	fmt.Fprintf(&b, "\n%s\n\n", thinDivider)
	b.WriteString("RECOMMENDATIONS:\n")
	b.WriteString("  - Monitor space weather updates from NOAA SWPC\n")
	b.WriteString("  - Review communication backup procedures if in affected regions\n")
	b.WriteString("  - Satellite operators should verify system status\n")
	b.WriteString("  - Aircraft on polar routes should stay informed\n\n")

	b.WriteString("REPORT METADATA:\n")
	fmt.Fprintf(&b, "  - Generated: %s\n", w.now().UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "  - Source: %s\n", w.feed)
	fmt.Fprintf(&b, "  - Event ID: %s\n\n", f.ID)
	fmt.Fprintf(&b, "%s\n", divider)

	return b.String()
}

// formatTime renders an ISO-8601 timestamp as "2006-01-02 15:04 UTC".
// Malformed values pass through unchanged rather than failing the report.
func formatTime(iso string) string {
	if iso == "" {
		return iso
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.UTC().Format("2006-01-02 15:04 UTC")
		}
	}
	return iso
}
