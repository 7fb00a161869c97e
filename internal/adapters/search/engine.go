package search

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"socialpost-ai/internal/domain"
	"socialpost-ai/internal/metrics"
	"socialpost-ai/pkg/log"
)

// DefaultMaxResults bounds the results returned by Engine.Search.
const DefaultMaxResults = 5

// Scraper extracts the readable text of a page.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, bool)
	Close()
}

// Engine runs providers in priority order and scrapes the pages they find.
type Engine struct {
	providers    []Provider
	scraper      Scraper
	maxResults   int
	chunkSize    int
	chunkOverlap int
	delay        func() time.Duration
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxResults sets the maximum number of unique results.
func WithMaxResults(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// WithDelay sets the pause taken between provider calls.
func WithDelay(delay func() time.Duration) EngineOption {
	return func(e *Engine) {
		e.delay = delay
	}
}

// WithChunking sets the chunk window and overlap used by SearchAndScrape.
func WithChunking(size, overlap int) EngineOption {
	return func(e *Engine) {
		e.chunkSize = size
		e.chunkOverlap = overlap
	}
}

// NewEngine creates an engine over providers, tried in the given order.
// The engine owns scraper and releases it on Close.
func NewEngine(providers []Provider, scraper Scraper, opts ...EngineOption) *Engine {
	e := &Engine{
		providers:    providers,
		scraper:      scraper,
		maxResults:   DefaultMaxResults,
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		delay:        jitterDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// jitterDelay waits a random 2 to 4 seconds to avoid provider rate limits.
func jitterDelay() time.Duration {
	return 2*time.Second + rand.N(2*time.Second)
}

// Search returns up to maxResults unique results for query.
// When no provider returns anything, the first three words of the query are
// tried once more.
func (e *Engine) Search(ctx context.Context, query string) []domain.SearchResult {
	all := e.runProviders(ctx, query)

	if len(all) == 0 && ctx.Err() == nil {
		simplified := simplifyQuery(query)
		log.GlobalInfoCtx(ctx, "no search results, trying simplified query", "query", query, "simplified", simplified)
		all = e.runProviders(ctx, simplified)
	}

	results := dedupe(all)
	if len(results) > e.maxResults {
		results = results[:e.maxResults]
	}

	metrics.SearchResults.Observe(float64(len(results)))
	log.GlobalInfoCtx(ctx, "search completed", "query", query, "results", len(results))
	return results
}

func (e *Engine) runProviders(ctx context.Context, query string) []domain.SearchResult {
	var (
		all  []domain.SearchResult
		seen = make(map[string]struct{})
	)

	for i, p := range e.providers {
		if i > 0 {
			if err := e.pause(ctx); err != nil {
				break
			}
		}

		results, err := p.Search(ctx, query)
		if err != nil {
			metrics.SearchRequests.WithLabelValues(p.Name(), "error").Inc()
			if errors.Is(err, domain.ErrProviderNotConfigured) {
				log.GlobalDebugCtx(ctx, "search provider skipped", "provider", p.Name(), "error", err)
			} else {
				log.GlobalWarnCtx(ctx, "search provider failed", "provider", p.Name(), "error", err)
			}
			continue
		}
		if len(results) == 0 {
			metrics.SearchRequests.WithLabelValues(p.Name(), "empty").Inc()
			continue
		}
		metrics.SearchRequests.WithLabelValues(p.Name(), "ok").Inc()

		all = append(all, results...)
		for _, r := range results {
			seen[r.Link] = struct{}{}
		}
		if len(seen) >= e.maxResults {
			break
		}
	}
	return all
}

func (e *Engine) pause(ctx context.Context) error {
	if e.delay == nil {
		return ctx.Err()
	}
	d := e.delay()
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SearchAndScrape searches for query, scrapes every result and splits the
// page text into overlapping chunks. Pages that cannot be scraped are skipped.
func (e *Engine) SearchAndScrape(ctx context.Context, query string) []domain.Chunk {
	results := e.Search(ctx, query)
	if e.scraper == nil {
		return nil
	}

	var chunks []domain.Chunk
	for _, r := range results {
		if ctx.Err() != nil {
			break
		}
		content, ok := e.scraper.Scrape(ctx, r.Link)
		if !ok {
			continue
		}
		for _, text := range SplitText(content, e.chunkSize, e.chunkOverlap) {
			chunks = append(chunks, domain.Chunk{Text: text, Source: r.Link, Title: r.Title})
		}
	}

	log.GlobalInfoCtx(ctx, "search and scrape completed", "query", query, "results", len(results), "chunks", len(chunks))
	return chunks
}

// Close releases the scraper.
func (e *Engine) Close() {
	if e.scraper != nil {
		e.scraper.Close()
	}
}

func simplifyQuery(query string) string {
	words := strings.Fields(query)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

// dedupe keeps the first result for each link, in discovery order.
func dedupe(results []domain.SearchResult) []domain.SearchResult {
	seen := make(map[string]struct{}, len(results))
	unique := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if _, ok := seen[r.Link]; ok {
			continue
		}
		seen[r.Link] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}
