package fetcher

import (
	"context"
	"errors"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/orgpage/internal/logger"
)

// StaticConfig holds configuration for the static fetcher.
type StaticConfig struct {
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int // bytes; 0 means unlimited
}

// StaticFetcher issues plain HTTP GET requests through Colly.
// It implements the Fetcher interface.
type StaticFetcher struct {
	config StaticConfig
}

// NewStatic creates a new static fetcher.
func NewStatic(cfg StaticConfig) *StaticFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &StaticFetcher{config: cfg}
}

// Fetch retrieves the resource at targetURL. Any network error, timeout or
// non-2xx status is returned as a *FetchError.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	// Create a new collector for each request
	userAgent := coalesce(opts.UserAgent, f.config.UserAgent)
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
		colly.MaxBodySize(f.config.MaxBodySize),
		colly.AllowURLRevisit(),
	)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	c.SetRequestTimeout(timeout)
	logger.Debug("static fetch starting", "url", targetURL, "user_agent", userAgent, "timeout", timeout)

	if len(opts.Headers) > 0 {
		c.OnRequest(func(r *colly.Request) {
			for k, v := range opts.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.Body = r.Body
		if r.Request != nil && r.Request.URL != nil {
			result.URL = r.Request.URL.String()
		}
		logger.Debug("static fetch response received",
			"status", r.StatusCode,
			"content_type", result.ContentType,
			"body_size", len(r.Body))
	})

	var fetchErr *FetchError
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = &FetchError{URL: targetURL, Err: err}
		if r != nil {
			fetchErr.StatusCode = r.StatusCode
			result.StatusCode = r.StatusCode
		}
		logger.Debug("static fetch error", "url", targetURL, "status", result.StatusCode, "error", err)
	})

	if err := c.Visit(targetURL); err != nil {
		if fetchErr != nil {
			return result, fetchErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(err, ctxErr)
		}
		return result, &FetchError{URL: targetURL, Err: err}
	}
	if fetchErr != nil {
		return result, fetchErr
	}

	logger.Debug("static fetch complete", "url", result.URL)
	return result, nil
}

// Close releases resources.
func (f *StaticFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return "static"
}
