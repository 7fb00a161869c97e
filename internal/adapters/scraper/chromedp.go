package scraper

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"socialpost-ai/pkg/log"

	"github.com/chromedp/chromedp"
)

const (
	renderTimeout = 30 * time.Second
	scrollSettle  = time.Second
)

// BrowserPool manages a single Chrome process and enforces
// serialized tab usage (1 tab at a time).
type BrowserPool struct {
	allocCtx      context.Context
	ctx           context.Context
	cancel        context.CancelFunc
	browserCancel context.CancelFunc
	opts          []chromedp.ExecAllocatorOption
	remoteURL     string
	settle        func() time.Duration

	mu     sync.Mutex
	tabSem chan struct{}
}

// BrowserOption configures a BrowserPool.
type BrowserOption func(*BrowserPool)

// WithChromePath sets an explicit Chrome/Chromium binary.
func WithChromePath(path string) BrowserOption {
	return func(bp *BrowserPool) {
		if path != "" {
			bp.opts = append(bp.opts, chromedp.ExecPath(path))
		}
	}
}

// WithRemoteURL connects to an already running browser over its DevTools
// websocket instead of launching Chrome.
func WithRemoteURL(wsURL string) BrowserOption {
	return func(bp *BrowserPool) {
		bp.remoteURL = wsURL
	}
}

// WithAllocatorOptions appends extra Chrome launch options.
func WithAllocatorOptions(options ...chromedp.ExecAllocatorOption) BrowserOption {
	return func(bp *BrowserPool) {
		bp.opts = append(bp.opts, options...)
	}
}

// WithSettleDelay sets how long a page is given to run its scripts after
// navigation.
func WithSettleDelay(settle func() time.Duration) BrowserOption {
	return func(bp *BrowserPool) {
		bp.settle = settle
	}
}

// NewBrowserPool creates a browser pool with exactly one Chrome instance
// and one tab allowed at a time.
func NewBrowserPool(options ...BrowserOption) (*BrowserPool, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		// Core
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),

		// Memory / CPU reduction
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-first-run", true),

		chromedp.UserAgent(RandomUserAgent()),
	)

	bp := &BrowserPool{
		opts:   opts,
		settle: randomSettle,
		tabSem: make(chan struct{}, 1), // HARD LIMIT: 1 tab
	}
	for _, opt := range options {
		opt(bp)
	}

	if err := bp.start(); err != nil {
		return nil, err
	}

	return bp, nil
}

// randomSettle waits 1 to 2 seconds, like a person reading the page.
func randomSettle() time.Duration {
	return time.Second + rand.N(time.Second)
}

// start initializes or restarts the Chrome process.
func (bp *BrowserPool) start() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.stopLocked()

	var (
		allocCtx context.Context
		cancel   context.CancelFunc
	)
	if bp.remoteURL != "" {
		allocCtx, cancel = chromedp.NewRemoteAllocator(context.Background(), bp.remoteURL)
	} else {
		allocCtx, cancel = chromedp.NewExecAllocator(context.Background(), bp.opts...)
	}
	ctx, browserCancel := chromedp.NewContext(allocCtx)

	// Force Chrome startup
	if err := chromedp.Run(ctx); err != nil {
		browserCancel()
		cancel()
		return err
	}

	bp.allocCtx = allocCtx
	bp.ctx = ctx
	bp.cancel = cancel
	bp.browserCancel = browserCancel

	log.GlobalInfo("browser pool chrome started", "remote", bp.remoteURL != "")
	return nil
}

// WithTab executes fn with exclusive access to a browser tab. It gives up
// if ctx ends while waiting for the tab, and closes the tab when ctx ends.
func (bp *BrowserPool) WithTab(ctx context.Context, fn func(tabCtx context.Context) error) error {
	select {
	case bp.tabSem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-bp.tabSem }()

	tabCtx, tabCancel, err := bp.acquireTab()
	if err != nil {
		return err
	}
	defer tabCancel()

	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	return fn(tabCtx)
}

// acquireTab creates a new browser tab and performs a health check.
// If the browser is unhealthy, it restarts Chrome and creates a new tab.
func (bp *BrowserPool) acquireTab() (context.Context, context.CancelFunc, error) {
	bp.mu.Lock()
	tabCtx, tabCancel := chromedp.NewContext(bp.ctx)
	bp.mu.Unlock()

	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()

		log.GlobalWarn("browser pool tab failed, restarting chrome", "error", err)

		if restartErr := bp.start(); restartErr != nil {
			return nil, nil, restartErr
		}

		bp.mu.Lock()
		tabCtx, tabCancel = chromedp.NewContext(bp.ctx)
		bp.mu.Unlock()
	}

	return tabCtx, tabCancel, nil
}

// Render loads pageURL, scrolls to the bottom so lazy content loads, and
// returns the resulting document HTML.
func (bp *BrowserPool) Render(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	var page string
	err := bp.WithTab(ctx, func(tabCtx context.Context) error {
		return chromedp.Run(tabCtx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(bp.settle()),
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil),
			chromedp.Sleep(scrollSettle),
			chromedp.OuterHTML("html", &page, chromedp.ByQuery),
		)
	})
	return page, err
}

// Close shuts down the browser completely.
func (bp *BrowserPool) Close() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.cancel != nil {
		bp.stopLocked()
		log.GlobalInfo("browser pool chrome stopped")
	}
}

func (bp *BrowserPool) stopLocked() {
	if bp.browserCancel != nil {
		bp.browserCancel()
		bp.browserCancel = nil
	}
	if bp.cancel != nil {
		bp.cancel()
		bp.cancel = nil
	}
}
