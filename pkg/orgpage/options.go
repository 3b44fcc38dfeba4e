// Package orgpage provides the public API for generating an organization
// page from a single public web page.
package orgpage

import (
	"time"

	"github.com/jmylchreest/orgpage/pkg/extract"
	"github.com/jmylchreest/orgpage/pkg/fetcher"
	"github.com/jmylchreest/orgpage/pkg/render"
)

// Config holds all Generator configuration.
type Config struct {
	// Fetching settings
	Fetcher     fetcher.Fetcher // primary page fetcher; static when nil
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int // bytes; 0 means unlimited

	// Page request settings; stylesheets and assets are fetched without them
	Headers         map[string]string
	WaitForSelector string
	WaitDuration    time.Duration

	// Extraction settings
	Pipeline *extract.Pipeline

	// Output settings
	OutputDir  string
	Fonts      []string
	PrettyHTML bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: fetcher.DefaultUserAgent,
		Timeout:   fetcher.DefaultTimeout,
		OutputDir: "output",
		Fonts:     render.DefaultFonts,
	}
}

// Option configures a Generator.
type Option func(*Config)

// WithFetcher sets the fetcher used for the organization page itself.
// Stylesheets and assets are always retrieved with a static fetcher.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithUserAgent sets the HTTP user agent.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxBodySize limits response bodies to n bytes.
func WithMaxBodySize(n int) Option {
	return func(c *Config) {
		c.MaxBodySize = n
	}
}

// WithHeaders sets extra HTTP headers for the page request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Config) {
		c.Headers = headers
	}
}

// WithWaitFor makes a dynamic fetcher wait for selector before reading the page.
func WithWaitFor(selector string) Option {
	return func(c *Config) {
		c.WaitForSelector = selector
	}
}

// WithWait adds a fixed delay after the page has loaded (dynamic fetchers).
func WithWait(d time.Duration) Option {
	return func(c *Config) {
		c.WaitDuration = d
	}
}

// WithPipeline replaces the default extraction pipeline.
func WithPipeline(p *extract.Pipeline) Option {
	return func(c *Config) {
		c.Pipeline = p
	}
}

// WithOutputDir sets the directory the page is written to.
func WithOutputDir(dir string) Option {
	return func(c *Config) {
		c.OutputDir = dir
	}
}

// WithFonts sets the alternative font families offered on the page.
func WithFonts(fonts ...string) Option {
	return func(c *Config) {
		c.Fonts = fonts
	}
}

// WithPrettyHTML enables indentation of the generated HTML.
func WithPrettyHTML(enabled bool) Option {
	return func(c *Config) {
		c.PrettyHTML = enabled
	}
}
