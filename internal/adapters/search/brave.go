package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"socialpost-ai/internal/domain"
)

const braveSearchURL = "https://api.search.brave.com/res/v1/web/search"

// Brave uses the Brave Search API. An API key is required.
type Brave struct {
	apiKey     string
	endpoint   string
	client     *http.Client
	maxResults int
}

// NewBrave creates a Brave provider. An empty key makes every search fail
// with domain.ErrProviderNotConfigured.
func NewBrave(apiKey string, maxResults int) *Brave {
	return &Brave{
		apiKey:     apiKey,
		endpoint:   braveSearchURL,
		client:     defaultHTTPClient(),
		maxResults: maxResults,
	}
}

// WithEndpoint overrides the API endpoint.
func (b *Brave) WithEndpoint(endpoint string) *Brave {
	b.endpoint = endpoint
	return b
}

// Name returns the provider identifier.
func (b *Brave) Name() string {
	return "brave"
}

// Search executes a Brave query.
func (b *Brave) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if strings.TrimSpace(b.apiKey) == "" {
		return nil, fmt.Errorf("brave: %w", domain.ErrProviderNotConfigured)
	}

	endpoint, err := url.Parse(b.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse brave url: %w", err)
	}
	q := endpoint.Query()
	q.Set("q", query)
	if b.maxResults > 0 {
		q.Set("count", strconv.Itoa(b.maxResults))
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create brave request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("brave: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave http %d", resp.StatusCode)
	}

	var payload struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode brave response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(payload.Web.Results))
	for _, r := range payload.Web.Results {
		results = append(results, domain.SearchResult{Title: r.Title, Link: r.URL, Snippet: r.Description})
		if b.maxResults > 0 && len(results) >= b.maxResults {
			break
		}
	}
	return results, nil
}
