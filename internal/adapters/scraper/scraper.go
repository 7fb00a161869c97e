// Package scraper extracts readable text from web pages, first from the raw
// HTML and then, for script-built pages, from a headless browser render.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"socialpost-ai/internal/metrics"
	"socialpost-ai/pkg/log"
)

const maxPageBytes = 5 << 20

// Renderer loads a page in a browser and returns its HTML.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
	Close()
}

// PageScraper extracts page text with a static fetch and falls back to a
// Renderer when the static text is empty.
type PageScraper struct {
	client   *http.Client
	renderer Renderer
}

// NewPageScraper creates a scraper. renderer may be nil to disable the
// browser fallback.
func NewPageScraper(renderer Renderer) *PageScraper {
	return &PageScraper{
		client:   &http.Client{Timeout: 15 * time.Second},
		renderer: renderer,
	}
}

// WithHTTPClient replaces the client used for static fetches.
func (s *PageScraper) WithHTTPClient(client *http.Client) *PageScraper {
	s.client = client
	return s
}

// Scrape returns the readable text of pageURL. Failures are logged and
// reported as absent.
func (s *PageScraper) Scrape(ctx context.Context, pageURL string) (string, bool) {
	text, err := s.fetchStatic(ctx, pageURL)
	if err != nil {
		log.GlobalDebugCtx(ctx, "static scrape failed", "url", pageURL, "error", err)
	}
	if err == nil && !looksLikeEmptyShell(text) {
		metrics.ScrapeOutcomes.WithLabelValues("static", "ok").Inc()
		return text, true
	}
	metrics.ScrapeOutcomes.WithLabelValues("static", "empty").Inc()

	if s.renderer == nil {
		return "", false
	}

	page, err := s.renderer.Render(ctx, pageURL)
	if err != nil {
		metrics.ScrapeOutcomes.WithLabelValues("browser", "error").Inc()
		log.GlobalWarnCtx(ctx, "browser scrape failed", "url", pageURL, "error", err)
		return "", false
	}

	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		metrics.ScrapeOutcomes.WithLabelValues("browser", "error").Inc()
		return "", false
	}
	text = visibleText(doc)
	if text == "" {
		metrics.ScrapeOutcomes.WithLabelValues("browser", "empty").Inc()
		return "", false
	}

	metrics.ScrapeOutcomes.WithLabelValues("browser", "ok").Inc()
	return text, true
}

func (s *PageScraper) fetchStatic(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", RandomUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: http %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "text/plain") || strings.HasPrefix(contentType, "text/markdown") {
		return cleanTextPreserveNewlines(string(bytes.ToValidUTF8(data, nil))), nil
	}
	return extractArticle(data, pageURL), nil
}

// Close releases the browser, if any.
func (s *PageScraper) Close() {
	if s.renderer != nil {
		s.renderer.Close()
	}
}
