package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"golang.org/x/net/html"

	"socialpost-ai/internal/adapters/scraper"
	"socialpost-ai/internal/domain"
	"socialpost-ai/pkg/log"
)

const (
	duckDuckGoAPIURL  = "https://api.duckduckgo.com/"
	duckDuckGoHTMLURL = "https://html.duckduckgo.com/html/"

	duckDuckGoAttempts = 3
)

// DuckDuckGo queries the instant answer API and falls back to the HTML
// results page. Each attempt is retried with exponential backoff and jitter.
type DuckDuckGo struct {
	apiURL     string
	htmlURL    string
	client     *http.Client
	maxResults int

	backoffBase time.Duration
	backoffMax  time.Duration
	jitter      time.Duration
	retry       retrypolicy.RetryPolicy[[]domain.SearchResult]
}

// DuckDuckGoOption configures a DuckDuckGo provider.
type DuckDuckGoOption func(*DuckDuckGo)

// WithDuckDuckGoEndpoints overrides the API and HTML endpoints.
func WithDuckDuckGoEndpoints(apiURL, htmlURL string) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.apiURL = apiURL
		d.htmlURL = htmlURL
	}
}

// WithDuckDuckGoClient sets the HTTP client.
func WithDuckDuckGoClient(client *http.Client) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.client = client
	}
}

// WithDuckDuckGoBackoff overrides the retry backoff bounds and jitter.
func WithDuckDuckGoBackoff(base, max, jitter time.Duration) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.backoffBase = base
		d.backoffMax = max
		d.jitter = jitter
	}
}

// NewDuckDuckGo creates the DuckDuckGo provider.
func NewDuckDuckGo(maxResults int, opts ...DuckDuckGoOption) *DuckDuckGo {
	d := &DuckDuckGo{
		apiURL:      duckDuckGoAPIURL,
		htmlURL:     duckDuckGoHTMLURL,
		client:      defaultHTTPClient(),
		maxResults:  maxResults,
		backoffBase: 2 * time.Second,
		backoffMax:  8 * time.Second,
		jitter:      2 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}

	builder := retrypolicy.NewBuilder[[]domain.SearchResult]().
		WithMaxRetries(duckDuckGoAttempts-1).
		WithBackoff(d.backoffBase, d.backoffMax).
		HandleIf(func(_ []domain.SearchResult, err error) bool {
			return retryable(err)
		}).
		OnRetry(func(e failsafe.ExecutionEvent[[]domain.SearchResult]) {
			log.GlobalWarnCtx(e.Context(), "duckduckgo attempt failed, retrying",
				"attempt", e.Attempts(), "max_attempts", duckDuckGoAttempts, "error", e.LastError())
		})
	if d.jitter > 0 {
		builder = builder.WithJitter(d.jitter)
	}
	d.retry = builder.Build()

	return d
}

// Name returns the provider identifier.
func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

// Search returns at most maxResults results. An empty answer is not an error.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	return failsafe.With(d.retry).WithContext(ctx).Get(func() ([]domain.SearchResult, error) {
		return d.attempt(ctx, query)
	})
}

func (d *DuckDuckGo) attempt(ctx context.Context, query string) ([]domain.SearchResult, error) {
	results, err := d.searchAPI(ctx, query)
	if err != nil {
		log.GlobalDebugCtx(ctx, "duckduckgo api failed, trying html", "error", err)
	}
	if len(results) > 0 {
		return d.limit(results), nil
	}

	results, err = d.searchHTML(ctx, query)
	if err != nil {
		return nil, err
	}
	return d.limit(results), nil
}

// statusError reports a non-200 answer from a DuckDuckGo endpoint.
type statusError struct {
	endpoint string
	code     int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("duckduckgo %s http %d", e.endpoint, e.code)
}

// retryable holds for transport failures, 429 and 5xx answers. Other client
// errors and undecodable bodies fail the same way on every attempt.
func retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var status *statusError
	if errors.As(err, &status) {
		return status.code == http.StatusTooManyRequests || status.code >= http.StatusInternalServerError
	}
	var transport *url.Error
	return errors.As(err, &transport)
}

func (d *DuckDuckGo) limit(results []domain.SearchResult) []domain.SearchResult {
	if d.maxResults > 0 && len(results) > d.maxResults {
		return results[:d.maxResults]
	}
	return results
}

type duckDuckGoTopic struct {
	Text     string            `json:"Text"`
	FirstURL string            `json:"FirstURL"`
	Topics   []duckDuckGoTopic `json:"Topics"`
}

type duckDuckGoAnswer struct {
	Heading       string            `json:"Heading"`
	AbstractText  string            `json:"AbstractText"`
	AbstractURL   string            `json:"AbstractURL"`
	Results       []duckDuckGoTopic `json:"Results"`
	RelatedTopics []duckDuckGoTopic `json:"RelatedTopics"`
}

func (d *DuckDuckGo) searchAPI(ctx context.Context, query string) ([]domain.SearchResult, error) {
	endpoint, err := url.Parse(d.apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo api url: %w", err)
	}
	q := endpoint.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create duckduckgo api request: %w", err)
	}
	req.Header.Set("User-Agent", scraper.RandomUserAgent())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{endpoint: "api", code: resp.StatusCode}
	}

	var answer duckDuckGoAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("decode duckduckgo answer: %w", err)
	}

	var results []domain.SearchResult
	if answer.AbstractURL != "" && answer.AbstractText != "" {
		results = append(results, domain.SearchResult{
			Title:   answer.Heading,
			Link:    answer.AbstractURL,
			Snippet: answer.AbstractText,
		})
	}
	for _, topic := range flattenTopics(append(answer.Results, answer.RelatedTopics...)) {
		results = append(results, domain.SearchResult{
			Title:   topicTitle(topic.Text),
			Link:    topic.FirstURL,
			Snippet: topic.Text,
		})
	}
	return results, nil
}

// flattenTopics expands grouped related topics into a single list.
func flattenTopics(topics []duckDuckGoTopic) []duckDuckGoTopic {
	var flat []duckDuckGoTopic
	for _, t := range topics {
		if len(t.Topics) > 0 {
			flat = append(flat, flattenTopics(t.Topics)...)
			continue
		}
		if t.FirstURL != "" && t.Text != "" {
			flat = append(flat, t)
		}
	}
	return flat
}

func topicTitle(text string) string {
	if i := strings.Index(text, " - "); i > 0 {
		return text[:i]
	}
	return text
}

func (d *DuckDuckGo) searchHTML(ctx context.Context, query string) ([]domain.SearchResult, error) {
	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.htmlURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create duckduckgo html request: %w", err)
	}
	req.Header.Set("User-Agent", scraper.RandomUserAgent())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo html request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{endpoint: "html", code: resp.StatusCode}
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo html: %w", err)
	}
	return parseResultsPage(doc), nil
}

// parseResultsPage walks the HTML results page for organic results.
func parseResultsPage(doc *html.Node) []domain.SearchResult {
	var results []domain.SearchResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "result") && !hasClass(n, "result--ad") {
			if r, ok := parseResult(n); ok {
				results = append(results, r)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results
}

func parseResult(n *html.Node) (domain.SearchResult, bool) {
	link := findFirst(n, func(c *html.Node) bool {
		return c.Data == "a" && hasClass(c, "result__a")
	})
	if link == nil {
		return domain.SearchResult{}, false
	}

	href := decodeRedirect(attr(link, "href"))
	title := collapseSpace(textContent(link))
	if href == "" || title == "" {
		return domain.SearchResult{}, false
	}

	var snippet string
	if s := findFirst(n, func(c *html.Node) bool { return hasClass(c, "result__snippet") }); s != nil {
		snippet = collapseSpace(textContent(s))
	}

	return domain.SearchResult{Title: title, Link: href, Snippet: snippet}, true
}

// decodeRedirect unwraps DuckDuckGo's //duckduckgo.com/l/?uddg= links.
func decodeRedirect(href string) string {
	if !strings.Contains(href, "duckduckgo.com/l/") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("uddg")
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
