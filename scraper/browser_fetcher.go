package scraper

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// BrowserFetcher renders the category page in headless Chromium before
// handing the markup to the extractor. The storefront is a JS-heavy SPA,
// so the static HTML sometimes carries no product cards at all; this is
// the fallback for that case.
type BrowserFetcher struct {
	browser *rod.Browser
	url     string
	wait    time.Duration
}

// NewBrowserFetcher launches a headless browser. wait is how long to let
// the page settle after the load event before snapshotting the DOM.
func NewBrowserFetcher(url string, wait time.Duration) (*BrowserFetcher, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false)

	// Use system Chromium in Docker, auto-detect locally.
	if _, err := os.Stat("/usr/bin/chromium-browser"); err == nil {
		l = l.Bin("/usr/bin/chromium-browser")
		log.Printf("Using system Chromium in Docker environment")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %v", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %v", err)
	}

	return &BrowserFetcher{browser: browser, url: url, wait: wait}, nil
}

// Fetch renders the page and returns the resulting DOM as HTML.
func (f *BrowserFetcher) Fetch(ctx context.Context) (string, error) {
	log.Printf("Rendering URL in headless browser: %s", f.url)

	var html string
	err := rod.Try(func() {
		page := f.browser.Context(ctx).MustPage(f.url)
		defer page.MustClose()

		page.MustSetViewport(1366, 768, 1.0, false)
		page.MustWaitLoad()
		time.Sleep(f.wait)

		html = page.MustHTML()
	})
	if err != nil {
		return "", fmt.Errorf("rendered fetch of %s failed: %v", f.url, err)
	}

	return html, nil
}

// Close shuts the browser down.
func (f *BrowserFetcher) Close() {
	if f.browser != nil {
		_ = f.browser.Close()
	}
}
