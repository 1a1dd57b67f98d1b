package fetcher

import (
	"context"
	"os"
	"time"

	"github.com/jmylchreest/marktwatch/internal/logger"
)

// LocalFetcher serves a fixed HTML file regardless of the requested
// URL. Used for offline test runs against a saved page snapshot.
type LocalFetcher struct {
	path string
}

// NewLocal creates a fetcher that reads path on every Fetch.
func NewLocal(path string) *LocalFetcher {
	return &LocalFetcher{path: path}
}

// Fetch reads the local file. The URL is recorded but otherwise ignored.
func (f *LocalFetcher) Fetch(ctx context.Context, targetURL string, _ Options) (Content, error) {
	if err := ctx.Err(); err != nil {
		return Content{URL: targetURL}, &Error{URL: targetURL, Err: err}
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return Content{URL: targetURL}, &Error{URL: targetURL, Err: err}
	}

	logger.Debug("local fetch", "path", f.path, "size", len(data))
	return Content{
		URL:        targetURL,
		HTML:       string(data),
		StatusCode: 200,
		FetchedAt:  time.Now(),
	}, nil
}

// Close releases resources.
func (f *LocalFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *LocalFetcher) Type() string {
	return "local"
}
