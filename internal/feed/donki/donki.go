package donki

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/crimson-sun/flarewatch/internal/feed"
	"github.com/crimson-sun/flarewatch/internal/feed/httpclient"
	"github.com/crimson-sun/flarewatch/internal/model"
)

const defaultEndpoint = "https://api.nasa.gov/DONKI"

func init() {
	feed.Register("donki", func() feed.Feed {
		return &Feed{}
	})
}

// Feed implements the feed.Feed interface for NASA's DONKI FLR endpoint.
type Feed struct{}

// Wire types (unexported).

type flareRecord struct {
	FlrID           string        `json:"flrID"`
	ClassType       string        `json:"classType"`
	SourceLocation  string        `json:"sourceLocation"`
	BeginTime       string        `json:"beginTime"`
	PeakTime        string        `json:"peakTime"`
	EndTime         string        `json:"endTime"`
	LinkedEvents    []linkedEvent `json:"linkedEvents"`
	ActiveRegionNum int64         `json:"activeRegionNum"`
}

type linkedEvent struct {
	ActivityID string `json:"activityID"`
}

func toFlare(rec flareRecord) model.Flare {
	linked := make([]string, 0, len(rec.LinkedEvents))
	for _, ev := range rec.LinkedEvents {
		if ev.ActivityID != "" {
			linked = append(linked, ev.ActivityID)
		}
	}

	loc := rec.SourceLocation
	if loc == "" {
		loc = "Unknown"
	}

	region := ""
	if rec.ActiveRegionNum != 0 {
		region = strconv.FormatInt(rec.ActiveRegionNum, 10)
	}

	return model.Flare{
		ID:             rec.FlrID,
		ClassType:      rec.ClassType,
		SourceLocation: loc,
		BeginTime:      rec.BeginTime,
		PeakTime:       rec.PeakTime,
		EndTime:        rec.EndTime,
		LinkedEvents:   linked,
		ActiveRegion:   region,
	}
}

// Fetch queries the FLR endpoint for the given window. Records come back in
// feed order, untrimmed; filtering belongs to the monitor stage.
func (f *Feed) Fetch(ctx context.Context, cfg feed.Config, w feed.Window) ([]model.Flare, error) {
	baseURL := cfg.Endpoint
	if baseURL == "" {
		baseURL = defaultEndpoint
	}

	opts := []httpclient.Option{}
	if cfg.Timeout > 0 {
		opts = append(opts, httpclient.WithTimeout(cfg.Timeout))
	}
	client := httpclient.New(baseURL, cfg.APIKey, opts...)

	q := url.Values{}
	q.Set("startDate", w.Start.Format("2006-01-02"))
	q.Set("endDate", w.End.Format("2006-01-02"))

	var records []flareRecord
	if err := client.GetJSON(ctx, "/FLR", q, &records); err != nil {
		return nil, fmt.Errorf("donki feed: %w", err)
	}

	flares := make([]model.Flare, 0, len(records))
	for _, rec := range records {
		flares = append(flares, toFlare(rec))
	}
	return flares, nil
}
