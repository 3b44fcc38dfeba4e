// Package fetcher provides the chromedp-based dynamic fetcher used by the
// CLI for pages that only render their organization details with
// JavaScript.
package fetcher

import (
	"time"

	"github.com/jmylchreest/orgpage/pkg/fetcher"
)

// Config holds configuration for the dynamic fetcher.
type Config struct {
	UserAgent  string
	Timeout    time.Duration
	ChromePath string // Explicit browser binary; searched for when empty
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: fetcher.DefaultUserAgent,
		Timeout:   fetcher.DefaultTimeout,
	}
}
