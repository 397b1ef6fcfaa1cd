package scraper

import (
	"context"
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"

	"github.com/Sakshikhade/wee-price-tracker/config"
)

// Fetcher retrieves the raw markup of the configured category page.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// HTTPFetcher fetches the page over plain HTTP with a browser-like header
// set, a request timeout, and a bounded retry count.
type HTTPFetcher struct {
	client *resty.Client
	url    string
}

// NewHTTPFetcher builds a fetcher from the fetch section of the config.
func NewHTTPFetcher(cfg *config.Config) *HTTPFetcher {
	client := resty.New().
		SetTimeout(cfg.FetchTimeout).
		SetRetryCount(cfg.FetchRetries).
		SetRetryWaitTime(cfg.FetchRetryDelay).
		SetHeaders(map[string]string{
			"User-Agent":                cfg.UserAgent,
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.5",
			"Connection":                "keep-alive",
			"Upgrade-Insecure-Requests": "1",
		})

	return &HTTPFetcher{client: client, url: cfg.BaseURL}
}

// Fetch performs the GET and returns the response body. Non-2xx statuses
// are errors; the pipeline treats any fetch error as a graceful abort of
// the whole run.
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	log.Printf("Fetching URL: %s", f.url)

	resp, err := f.client.R().SetContext(ctx).Get(f.url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %v", f.url, err)
	}

	log.Printf("Response status: %d", resp.StatusCode())
	if resp.IsError() {
		return "", fmt.Errorf("fetch %s returned status %d", f.url, resp.StatusCode())
	}

	return resp.String(), nil
}
