// Package search finds web pages about a query and turns them into
// provenance-tagged text chunks.
package search

import (
	"context"
	"net/http"
	"time"

	"socialpost-ai/internal/domain"
)

// Provider is a single web search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

const defaultHTTPTimeout = 10 * time.Second

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultHTTPTimeout}
}
