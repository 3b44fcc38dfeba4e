// Package fetcher defines the interface for retrieving pages, stylesheets
// and binary assets over HTTP. Implement the Fetcher interface to plug in
// other retrieval strategies (e.g. a headless browser).
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Defaults applied when neither the fetcher config nor the call options
// set a value.
const (
	DefaultUserAgent = "Mozilla/5.0 (compatible)"
	DefaultTimeout   = 15 * time.Second
)

// Fetcher abstracts resource fetching strategies.
type Fetcher interface {
	// Fetch retrieves the resource at url.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns a string identifying the fetcher type (e.g., "static", "dynamic").
	Type() string
}

// Options controls fetching behavior for a single call.
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	Headers         map[string]string
	WaitForSelector string        // CSS selector to wait for (dynamic fetchers)
	WaitDuration    time.Duration // Additional wait after load (dynamic fetchers)
}

// Content represents a fetched resource.
type Content struct {
	URL         string // Final URL after redirects
	Body        []byte
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// Text returns the body as a string.
func (c Content) Text() string {
	return string(c.Body)
}

// ErrFetchFailed matches every *FetchError.
// Check with errors.Is(err, fetcher.ErrFetchFailed).
var ErrFetchFailed = errors.New("fetch failed")

// FetchError reports a network failure, timeout or non-success status.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFetchFailed.
func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
