// Package config reads the runtime configuration from the environment
// and the optional platform table from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting read from the environment.
type Config struct {
	Port     string
	LogLevel string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	LLMModel      string

	ResearchCacheDuration time.Duration
	ResearchMaxIterations int

	SearchMaxResults int
	SearchProviders  []string
	BraveAPIKey      string
	SearXNGURL       string

	BrowserEnabled  bool
	ChromePath      string
	ChromeRemoteURL string

	PlatformsConfig    string
	RateLimitPerMinute int
	CacheSweepInterval time.Duration
}

// Load reads .env files when present and then the process environment.
// Variables already set in the environment win over .env values. The
// returned Config is always usable: unreadable files and invalid values are
// reported in the error and replaced by defaults.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	var errs []error
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			errs = append(errs, fmt.Errorf("load %s: %w", f, err))
		}
	}

	cfg := Config{
		Port:            getString("PORT", "3000"),
		LogLevel:        getString("LOG_LEVEL", "INFO"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		LLMModel:        getString("LLM_MODEL", "gpt-4o-mini"),
		SearchProviders: getList("SEARCH_PROVIDERS", []string{"duckduckgo", "brave", "searxng"}),
		BraveAPIKey:     os.Getenv("BRAVE_API_KEY"),
		SearXNGURL:      os.Getenv("SEARXNG_URL"),
		ChromePath:      os.Getenv("CHROME_PATH"),
		ChromeRemoteURL: os.Getenv("CHROME_REMOTE_URL"),
		PlatformsConfig: os.Getenv("PLATFORMS_CONFIG"),
	}

	cacheHours := getInt("RESEARCH_CACHE_HOURS", 24, &errs)
	cfg.ResearchCacheDuration = time.Duration(cacheHours) * time.Hour
	cfg.ResearchMaxIterations = getInt("RESEARCH_MAX_ITERATIONS", 5, &errs)
	cfg.SearchMaxResults = getInt("SEARCH_MAX_RESULTS", 5, &errs)
	cfg.BrowserEnabled = getBool("BROWSER_ENABLED", true, &errs)
	cfg.RateLimitPerMinute = getInt("RATE_LIMIT_PER_MINUTE", 10, &errs)
	sweepMinutes := getInt("CACHE_SWEEP_MINUTES", 10, &errs)
	cfg.CacheSweepInterval = time.Duration(sweepMinutes) * time.Minute

	return cfg, errors.Join(errs...)
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// getInt returns def for unset variables. Invalid or non-positive values
// are recorded in errs and also fall back to def.
func getInt(key string, def int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid positive integer %q", key, v))
		return def
	}
	return n
}

func getBool(key string, def bool, errs *[]error) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		return def
	}
	return b
}

func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}
