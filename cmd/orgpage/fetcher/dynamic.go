package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/orgpage/internal/logger"
	"github.com/jmylchreest/orgpage/pkg/fetcher"
)

// DynamicFetcher renders pages in a headless browser before returning the
// resulting DOM. It implements fetcher.Fetcher.
type DynamicFetcher struct {
	config    Config
	allocCtx  context.Context
	cancelCtx context.CancelFunc
}

// NewDynamicFetcher creates a new dynamic fetcher. The browser is started
// lazily on the first Fetch.
func NewDynamicFetcher(cfg Config) (*DynamicFetcher, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1280, 1024),
		chromedp.UserAgent(cfg.UserAgent),
	)

	chromePath := cfg.ChromePath
	if chromePath == "" {
		chromePath = FindChromePath()
	}
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	logger.Debug("dynamic fetcher created", "chrome", chromePath, "timeout", cfg.Timeout)

	return &DynamicFetcher{
		config:    cfg,
		allocCtx:  allocCtx,
		cancelCtx: cancelAlloc,
	}, nil
}

// Fetch navigates to targetURL and returns the rendered document.
func (f *DynamicFetcher) Fetch(ctx context.Context, targetURL string, opts fetcher.Options) (fetcher.Content, error) {
	result := fetcher.Content{
		URL:         targetURL,
		FetchedAt:   time.Now(),
		ContentType: "text/html; charset=utf-8",
	}

	browserCtx, cancelBrowser := chromedp.NewContext(f.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)
	defer cancelBrowser()

	// Stop the browser when the caller's context is cancelled.
	stop := context.AfterFunc(ctx, cancelBrowser)
	defer stop()

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	// The first document response carries the status code.
	var (
		mu       sync.Mutex
		status   int
		finalURL string
	)
	chromedp.ListenTarget(timeoutCtx, func(ev any) {
		e, ok := ev.(*network.EventResponseReceived)
		if !ok || e.Type != network.ResourceTypeDocument {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if status == 0 {
			status = int(e.Response.Status)
			finalURL = e.Response.URL
		}
	})

	var html string
	actions := []chromedp.Action{network.Enable()}
	if len(opts.Headers) > 0 {
		headers := make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			headers[k] = v
		}
		actions = append(actions, network.SetExtraHTTPHeaders(headers))
	}
	actions = append(actions, chromedp.Navigate(targetURL))

	waitFor := opts.WaitForSelector
	if waitFor == "" {
		waitFor = "body"
	}
	actions = append(actions, chromedp.WaitReady(waitFor))
	if opts.WaitDuration > 0 {
		actions = append(actions, chromedp.Sleep(opts.WaitDuration))
	}
	actions = append(actions, chromedp.OuterHTML("html", &html))

	logger.Debug("chromedp executing actions", "url", targetURL, "action_count", len(actions), "timeout", timeout)

	err := chromedp.Run(timeoutCtx, actions...)

	mu.Lock()
	result.StatusCode = status
	if finalURL != "" {
		result.URL = finalURL
	}
	mu.Unlock()

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Join(err, ctxErr)
		}
		return result, &fetcher.FetchError{URL: targetURL, StatusCode: result.StatusCode, Err: err}
	}

	if result.StatusCode >= 400 {
		return result, &fetcher.FetchError{
			URL:        targetURL,
			StatusCode: result.StatusCode,
			Err:        errors.New("unexpected status"),
		}
	}
	if result.StatusCode == 0 {
		result.StatusCode = 200
	}
	result.Body = []byte(html)

	logger.Debug("dynamic fetch complete", "url", result.URL, "status", result.StatusCode, "body_size", len(html))
	return result, nil
}

// Close releases browser resources.
func (f *DynamicFetcher) Close() error {
	if f.cancelCtx != nil {
		f.cancelCtx()
	}
	return nil
}

// Type returns the fetcher type.
func (f *DynamicFetcher) Type() string {
	return "dynamic"
}
