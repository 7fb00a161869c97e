package cache

import (
	"sync"
	"time"

	"socialpost-ai/internal/domain"
)

// DefaultDuration is how long research stays fresh.
const DefaultDuration = 24 * time.Hour

// Entry holds cached research with its creation time.
type Entry struct {
	Topic     string
	Data      domain.ResearchResult
	CreatedAt time.Time
}

// ResearchCache is an in-memory, time-bounded cache of research results
// keyed by topic. It is safe for concurrent use.
type ResearchCache struct {
	mu       sync.Mutex
	entries  map[string]Entry
	duration time.Duration
	now      func() time.Time
}

// Option configures a ResearchCache.
type Option func(*ResearchCache)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ResearchCache) {
		c.now = now
	}
}

// NewResearchCache creates a cache whose entries expire after duration.
// A non-positive duration falls back to DefaultDuration.
func NewResearchCache(duration time.Duration, opts ...Option) *ResearchCache {
	if duration <= 0 {
		duration = DefaultDuration
	}
	c := &ResearchCache{
		entries:  make(map[string]Entry),
		duration: duration,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the research cached for topic.
// Expired entries are removed and reported as missing.
func (c *ResearchCache) Get(topic string) (domain.ResearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[topic]
	if !ok {
		return domain.ResearchResult{}, false
	}

	if c.expired(entry) {
		delete(c.entries, topic)
		return domain.ResearchResult{}, false
	}

	return entry.Data, true
}

// Set stores research for topic, replacing any previous entry.
func (c *ResearchCache) Set(topic string, data domain.ResearchResult) {
	c.mu.Lock()
	c.entries[topic] = Entry{
		Topic:     topic,
		Data:      data,
		CreatedAt: c.now(),
	}
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *ResearchCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()
}

// RemoveExpired deletes expired entries and returns how many were removed.
func (c *ResearchCache) RemoveExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int
	for topic, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, topic)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *ResearchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResearchCache) expired(entry Entry) bool {
	return c.now().Sub(entry.CreatedAt) >= c.duration
}
