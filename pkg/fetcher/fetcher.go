// Package fetcher abstracts page fetching for marktwatch. The scraper
// only needs raw HTML per URL; implementations differ in how they get
// it past transfermarkt's delivery quirks: a plain HTTP client, a
// headless browser for JS-rendered or bot-challenged pages, or a local
// file for offline runs and tests.
package fetcher

import (
	"context"
	"fmt"
	"time"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns a string identifying the fetcher type
	// (e.g., "static", "dynamic", "local").
	Type() string
}

// Options controls fetching behavior.
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	WaitForSelector string // CSS selector to wait for (dynamic fetcher)
	Headers         map[string]string
}

// Content represents fetched page data.
type Content struct {
	URL        string
	HTML       string
	StatusCode int
	FetchedAt  time.Time
}

// Error reports a failed fetch. A non-zero StatusCode carries the HTTP
// status when one was received before the failure.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Chrome user agent; transfermarkt serves errors to obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 30 * time.Second
