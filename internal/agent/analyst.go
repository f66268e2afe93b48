package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/crimson-sun/flarewatch/internal/genai"
	"github.com/crimson-sun/flarewatch/internal/model"
	"github.com/crimson-sun/flarewatch/internal/search"
)

// Sampling temperature for analysis commentary; low to favor determinism.
const analysisTemperature = 0.3

// Regions escalate to global scope at this class magnitude.
const globalMagnitudeThreshold = 5.0

// Analyst enriches a context with severity, impact, and region assessments
// plus optional AI commentary and web-search context. Every sub-result has
// a deterministic fallback: Analyze always leaves a fully populated
// Analysis on the context and never fails.
type Analyst struct {
	gen      genai.Generator // nil when not configured
	searcher search.Searcher // nil when not configured
}

// NewAnalyst creates an analyst. Either capability may be nil.
func NewAnalyst(gen genai.Generator, searcher search.Searcher) *Analyst {
	return &Analyst{gen: gen, searcher: searcher}
}

// Analyze enriches the context in place.
func (a *Analyst) Analyze(ctx context.Context, c *model.Context) {
	f := c.Flare
	slog.Info("analyzing flare", "id", f.ID, "class", f.ClassType)

	results := a.searchContext(ctx, f)
	narrative := a.narrative(ctx, f)

	c.Analysis = &model.Analysis{
		Severity:      assessSeverity(f),
		Narrative:     narrative,
		SearchResults: results,
		Impacts:       determineImpacts(f),
		Regions:       determineRegions(f),
		Timestamp:     time.Now(),
	}
	slog.Info("analysis complete", "id", f.ID, "severity", c.Analysis.Severity.Label)
}

// searchContext queries the web-search capability for news around the
// flare's peak date. Absence or failure yields an empty result set.
func (a *Analyst) searchContext(ctx context.Context, f model.Flare) []model.SearchResult {
	if a.searcher == nil {
		return nil
	}
	date := f.PeakTime
	if len(date) > 10 {
		date = date[:10]
	}
	query := fmt.Sprintf("solar flare %s %s", f.ClassType, date)

	results, err := a.searcher.Search(ctx, query)
	if err != nil {
		slog.Warn("contextual search failed", "query", query, "error", err)
		return nil
	}
	return results
}

// narrative asks the AI capability for a short factual analysis; on absence
// or failure it falls back to a deterministic sentence.
func (a *Analyst) narrative(ctx context.Context, f model.Flare) string {
	if a.gen != nil {
		prompt := analysisPrompt(f)
		text, err := a.gen.Generate(ctx, prompt, analysisTemperature)
		if err == nil {
			return text
		}
		slog.Warn("AI analysis failed, using fallback", "id", f.ID, "error", err)
	}
	return fallbackNarrative(f)
}

func analysisPrompt(f model.Flare) string {
	region := f.ActiveRegion
	if region == "" {
		region = "Unknown"
	}
	return fmt.Sprintf(`You are a space weather analyst. Analyze this solar flare event:

FLARE DATA:
- Classification: %s
- Peak Time: %s
- Source Location: %s
- Active Region: %s
- Linked Events: %d

TASK:
Provide a concise analysis (2-3 sentences) covering:
1. The significance of this flare class
2. Likely impacts on Earth systems (communications, satellites, power grids)
3. Any notable aspects based on timing or location

Keep response factual and suitable for emergency alerts.`,
		f.ClassType, f.PeakTime, f.SourceLocation, region, len(f.LinkedEvents))
}

func fallbackNarrative(f model.Flare) string {
	severity := "moderate"
	if f.SeverityLevel() == model.SeverityX {
		severity = "severe"
	}
	return fmt.Sprintf("A %s class solar flare represents %s space weather activity "+
		"with potential impacts on radio communications and satellite operations.",
		f.ClassType, severity)
}

// assessSeverity maps the severity level to its structured assessment.
// Pure function; always succeeds.
func assessSeverity(f model.Flare) model.Severity {
	switch f.SeverityLevel() {
	case model.SeverityX:
		return model.Severity{Label: "SEVERE", Icon: "🔴", Description: "Major event"}
	case model.SeverityM:
		return model.Severity{Label: "MODERATE", Icon: "🟠", Description: "Significant event"}
	case model.SeverityC:
		return model.Severity{Label: "MINOR", Icon: "🟡", Description: "Minor event"}
	default:
		return model.Severity{Label: "INFO", Icon: "⚪", Description: "Informational"}
	}
}

// determineImpacts lists expected effects keyed by the class letter.
func determineImpacts(f model.Flare) []string {
	if f.ClassType == "" {
		return []string{"Minimal impact expected"}
	}
	switch f.ClassType[0] {
	case 'X':
		return []string{
			"High risk of widespread radio blackouts",
			"Potential GPS and navigation disruptions",
			"Possible power grid fluctuations at high latitudes",
			"Elevated radiation risk for polar flight routes",
		}
	case 'M':
		return []string{
			"Moderate radio interference on sunlit side",
			"Minor satellite operation disruptions",
			"Limited impact on high-frequency communications",
			"Possible auroral activity at high latitudes",
		}
	}
	return []string{"Minimal impact expected"}
}

// determineRegions derives the geographic scope. X-class or magnitude at or
// above the threshold escalates to global; a magnitude that fails to parse
// defaults to 1.0.
func determineRegions(f model.Flare) []string {
	magnitude := 1.0
	if len(f.ClassType) > 1 {
		if v, err := strconv.ParseFloat(f.ClassType[1:], 64); err == nil {
			magnitude = v
		}
	}

	if strings.HasPrefix(f.ClassType, "X") || magnitude >= globalMagnitudeThreshold {
		return []string{
			"Global (all longitudes)",
			"Particularly: High-latitude regions",
			"Polar flight routes",
			"HF radio communication zones",
		}
	}
	return []string{
		"Sunlit hemisphere at time of peak",
		"High-frequency radio users",
		"Satellite operators",
	}
}
