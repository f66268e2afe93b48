package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crimson-sun/flarewatch/internal/model"
)

// Searcher is the optional contextual web-search capability.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
}

// Config holds Serper client settings.
type Config struct {
	APIKey   string
	Endpoint string // override for tests
	Results  int    // hits per query
}

const defaultEndpoint = "https://google.serper.dev/search"

// Serper calls the Serper search API.
type Serper struct {
	cfg  Config
	http *http.Client
}

// NewSerper creates a Serper client, or nil if no API key is configured.
func NewSerper(cfg Config) *Serper {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Results <= 0 {
		cfg.Results = 5
	}
	return &Serper{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type searchResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search runs the query and returns organic hits.
func (s *Serper) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	if s == nil {
		return nil, fmt.Errorf("search: not configured")
	}

	payload, err := json.Marshal(searchRequest{Q: query, Num: s.cfg.Results})
	if err != nil {
		return nil, fmt.Errorf("search: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	req.Header.Set("X-API-KEY", s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("search: decode: %w", err)
	}

	results := make([]model.SearchResult, 0, len(decoded.Organic))
	for _, hit := range decoded.Organic {
		results = append(results, model.SearchResult{
			Title:   hit.Title,
			Link:    hit.Link,
			Snippet: hit.Snippet,
		})
	}
	return results, nil
}
