package cache_test

import (
	"sync"
	"testing"
	"time"

	"socialpost-ai/internal/adapters/cache"
	"socialpost-ai/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func sampleResearch(summary string) domain.ResearchResult {
	return domain.ResearchResult{
		Summary:  summary,
		KeyFacts: "- fact",
		Trends:   "Trend: up",
		Sources:  "Source: example.com",
	}
}

func TestResearchCache_SetAndGet_ReturnsData(t *testing.T) {
	// Arrange
	c := cache.NewResearchCache(time.Hour)
	data := sampleResearch("AI in education")

	// Act
	c.Set("AI in education", data)
	result, found := c.Get("AI in education")

	// Assert
	if !found {
		t.Fatal("expected research to be found")
	}
	if result != data {
		t.Errorf("got %+v, want %+v", result, data)
	}
}

func TestResearchCache_Get_NotFound(t *testing.T) {
	c := cache.NewResearchCache(time.Hour)

	_, found := c.Get("missing")

	if found {
		t.Error("expected research not to be found")
	}
}

func TestResearchCache_Get_ExpiresAtDuration(t *testing.T) {
	// Arrange
	clock := newFakeClock()
	c := cache.NewResearchCache(24*time.Hour, cache.WithClock(clock.Now))
	c.Set("topic", sampleResearch("s"))

	// Act & Assert: just before the duration the entry is still fresh
	clock.Advance(24*time.Hour - time.Second)
	if _, found := c.Get("topic"); !found {
		t.Fatal("entry should be fresh before the duration elapses")
	}

	clock.Advance(time.Second)
	if _, found := c.Get("topic"); found {
		t.Error("entry should expire once the duration elapses")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on access, len = %d", c.Len())
	}
}

func TestResearchCache_Set_OverwritesAndRestampsEntry(t *testing.T) {
	// Arrange
	clock := newFakeClock()
	c := cache.NewResearchCache(time.Hour, cache.WithClock(clock.Now))
	c.Set("topic", sampleResearch("old"))
	clock.Advance(50 * time.Minute)

	// Act
	c.Set("topic", sampleResearch("new"))
	clock.Advance(50 * time.Minute)
	result, found := c.Get("topic")

	// Assert
	if !found {
		t.Fatal("overwritten entry should be fresh")
	}
	if result.Summary != "new" {
		t.Errorf("summary: got %q, want %q", result.Summary, "new")
	}
}

func TestResearchCache_RemoveExpired_KeepsFreshEntries(t *testing.T) {
	// Arrange
	clock := newFakeClock()
	c := cache.NewResearchCache(time.Hour, cache.WithClock(clock.Now))
	c.Set("old", sampleResearch("old"))
	clock.Advance(90 * time.Minute)
	c.Set("fresh", sampleResearch("fresh"))

	// Act
	removed := c.RemoveExpired()

	// Assert
	if removed != 1 {
		t.Errorf("removed: got %d, want 1", removed)
	}
	if c.Len() != 1 {
		t.Errorf("len: got %d, want 1", c.Len())
	}
	if _, found := c.Get("fresh"); !found {
		t.Error("fresh entry should survive")
	}
}

func TestResearchCache_Clear_RemovesEverything(t *testing.T) {
	c := cache.NewResearchCache(time.Hour)
	c.Set("a", sampleResearch("a"))
	c.Set("b", sampleResearch("b"))

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("len: got %d, want 0", c.Len())
	}
}

func TestResearchCache_NonPositiveDuration_UsesDefault(t *testing.T) {
	clock := newFakeClock()
	c := cache.NewResearchCache(0, cache.WithClock(clock.Now))
	c.Set("topic", sampleResearch("s"))

	clock.Advance(cache.DefaultDuration - time.Minute)

	if _, found := c.Get("topic"); !found {
		t.Error("entry should use the default duration")
	}
}

func TestResearchCache_ConcurrentAccess(t *testing.T) {
	c := cache.NewResearchCache(time.Hour)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Set("shared", sampleResearch("s"))
		}()
		go func() {
			defer wg.Done()
			c.Get("shared")
			c.RemoveExpired()
		}()
	}
	wg.Wait()

	if _, found := c.Get("shared"); !found {
		t.Error("expected shared entry after concurrent writes")
	}
}
