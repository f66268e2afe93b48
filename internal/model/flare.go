package model

// Flare is one detected solar-flare event from the feed.
// Immutable once constructed; stages read it but never modify it.
type Flare struct {
	ID             string   // feed-assigned identifier, unique per event
	ClassType      string   // classification code, e.g. "M5.2", "X1.0"
	SourceLocation string   // heliographic coordinates, e.g. "N15W30"
	BeginTime      string   // ISO-8601, as returned by the feed
	PeakTime       string
	EndTime        string
	LinkedEvents   []string // identifiers of associated space weather events
	ActiveRegion   string   // active region number, empty when not reported
}

// Severity ranks for flare classes. Anything below C ranks 0.
const (
	SeverityNone = 0
	SeverityC    = 1
	SeverityM    = 2
	SeverityX    = 3
)

// SeverityLevel returns the numeric severity rank derived from the leading
// letter of the classification code: X=3, M=2, C=1, anything else 0.
func (f Flare) SeverityLevel() int {
	if f.ClassType == "" {
		return SeverityNone
	}
	switch f.ClassType[0] {
	case 'X':
		return SeverityX
	case 'M':
		return SeverityM
	case 'C':
		return SeverityC
	}
	return SeverityNone
}

// Significant reports whether the flare warrants alerting (M or X class).
func (f Flare) Significant() bool {
	return f.SeverityLevel() >= SeverityM
}
