package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"socialpost-ai/internal/domain"
)

// SearXNG queries a self-hosted SearXNG instance.
type SearXNG struct {
	apiURL     string
	client     *http.Client
	maxResults int
}

// NewSearXNG creates a SearXNG provider. An empty URL makes every search
// fail with domain.ErrProviderNotConfigured.
func NewSearXNG(apiURL string, maxResults int) *SearXNG {
	return &SearXNG{
		apiURL:     strings.TrimRight(apiURL, "/"),
		client:     defaultHTTPClient(),
		maxResults: maxResults,
	}
}

// Name returns the provider identifier.
func (s *SearXNG) Name() string {
	return "searxng"
}

type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search executes a query against the SearXNG JSON API.
func (s *SearXNG) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if s.apiURL == "" {
		return nil, fmt.Errorf("searxng: %w", domain.ErrProviderNotConfigured)
	}

	endpoint, err := url.Parse(s.apiURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("parse searxng url: %w", err)
	}
	q := endpoint.Query()
	q.Set("q", query)
	q.Set("format", "json")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create searxng request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searxng request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("searxng request failed with status %d", resp.StatusCode)
	}

	var decoded searxngResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode searxng response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(decoded.Results))
	for _, item := range decoded.Results {
		results = append(results, domain.SearchResult{
			Title:   item.Title,
			Link:    item.URL,
			Snippet: strings.TrimSpace(item.Content),
		})
		if s.maxResults > 0 && len(results) >= s.maxResults {
			break
		}
	}
	return results, nil
}
