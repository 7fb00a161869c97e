// Package metrics holds the Prometheus collectors shared by the generator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Search metrics
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpost_search_requests_total",
			Help: "Search provider calls by outcome",
		},
		[]string{"provider", "outcome"}, // outcome: ok, empty, error
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "socialpost_search_results",
			Help:    "Unique results returned per search",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)

	// Scrape metrics
	ScrapeOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpost_scrape_total",
			Help: "Page scrapes by extraction tier and outcome",
		},
		[]string{"tier", "outcome"}, // tier: static, browser
	)

	// Research cache metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpost_research_cache_lookups_total",
			Help: "Research cache lookups by result",
		},
		[]string{"result"}, // result: hit, miss
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "socialpost_research_cache_evictions_total",
			Help: "Expired research entries removed by the sweeper",
		},
	)

	ResearchFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "socialpost_research_fallbacks_total",
			Help: "Research runs that returned the fallback result",
		},
	)

	// Pipeline metrics
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialpost_pipeline_stage_seconds",
			Help:    "Content pipeline stage latency in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"stage"},
	)

	PostsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialpost_posts_total",
			Help: "Generated posts by platform and status",
		},
		[]string{"platform", "status"}, // status: ok, error
	)
)

// ObserveStage records the time elapsed since start for a pipeline stage.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
