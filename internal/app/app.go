// Package app wires adapters and use cases from a Config.
package app

import (
	"context"
	"fmt"
	"time"

	"socialpost-ai/internal/adapters/cache"
	"socialpost-ai/internal/adapters/llm"
	"socialpost-ai/internal/adapters/scraper"
	"socialpost-ai/internal/adapters/search"
	"socialpost-ai/internal/config"
	"socialpost-ai/internal/metrics"
	"socialpost-ai/internal/usecases"
	"socialpost-ai/pkg/log"
)

// App holds the long-lived components shared by the server and the CLI.
type App struct {
	Config    config.Config
	Platforms *config.PlatformStore
	Cache     *cache.ResearchCache
	Engine    *search.Engine
	Research  *usecases.ResearchTopicUseCase
	Generator *usecases.GeneratePostUseCase
}

// New builds the application. Close releases the browser and the scraper.
func New(cfg config.Config) (*App, error) {
	platforms, err := config.LoadPlatforms(cfg.PlatformsConfig)
	if err != nil {
		return nil, fmt.Errorf("load platforms: %w", err)
	}

	providers, err := Providers(cfg)
	if err != nil {
		return nil, err
	}

	engine := search.NewEngine(providers, scraper.NewPageScraper(newRenderer(cfg)),
		search.WithMaxResults(cfg.SearchMaxResults))

	model := llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, llm.WithModel(cfg.LLMModel))
	researchCache := cache.NewResearchCache(cfg.ResearchCacheDuration)
	research := usecases.NewResearchTopicUseCase(researchCache, engine, model, cfg.ResearchMaxIterations)

	return &App{
		Config:    cfg,
		Platforms: platforms,
		Cache:     researchCache,
		Engine:    engine,
		Research:  research,
		Generator: usecases.NewGeneratePostUseCase(platforms, research, model),
	}, nil
}

// Providers returns the search providers named in cfg, in priority order.
func Providers(cfg config.Config) ([]search.Provider, error) {
	providers := make([]search.Provider, 0, len(cfg.SearchProviders))
	for _, name := range cfg.SearchProviders {
		switch name {
		case "duckduckgo":
			providers = append(providers, search.NewDuckDuckGo(cfg.SearchMaxResults))
		case "brave":
			providers = append(providers, search.NewBrave(cfg.BraveAPIKey, cfg.SearchMaxResults))
		case "searxng":
			providers = append(providers, search.NewSearXNG(cfg.SearXNGURL, cfg.SearchMaxResults))
		default:
			return nil, fmt.Errorf("unknown search provider %q", name)
		}
	}
	return providers, nil
}

// newRenderer starts the browser used for script-built pages. A browser that
// fails to start disables the fallback instead of failing startup.
func newRenderer(cfg config.Config) scraper.Renderer {
	if !cfg.BrowserEnabled {
		return nil
	}

	var opts []scraper.BrowserOption
	if cfg.ChromeRemoteURL != "" {
		opts = append(opts, scraper.WithRemoteURL(cfg.ChromeRemoteURL))
	} else if cfg.ChromePath != "" {
		opts = append(opts, scraper.WithChromePath(cfg.ChromePath))
	}

	pool, err := scraper.NewBrowserPool(opts...)
	if err != nil {
		log.GlobalWarn("browser unavailable, rendering fallback disabled", "error", err)
		return nil
	}
	return pool
}

// SweepCache removes expired research every interval until ctx is done.
func (a *App) SweepCache(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.Cache.RemoveExpired(); n > 0 {
				metrics.CacheEvictions.Add(float64(n))
				log.GlobalDebug("research cache swept", "removed", n)
			}
		}
	}
}

// Close shuts down the engine's scraper and browser.
func (a *App) Close() {
	a.Engine.Close()
}
