// Package assets downloads binary resources (logos, font files) referenced
// by an organization page and stores them on disk.
package assets

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/orgpage/internal/logger"
	"github.com/jmylchreest/orgpage/pkg/fetcher"
)

// DefaultName is used when a URL has no usable path basename.
const DefaultName = "asset"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// ErrUnsupportedURL is returned for URLs that cannot be downloaded, such as
// inline data: URLs.
var ErrUnsupportedURL = errors.New("unsupported asset URL")

// WriteError reports a failure to persist a downloaded asset.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FileName derives a filesystem-safe name from the last path segment of
// rawURL. Characters outside [A-Za-z0-9._-] become underscores.
func FileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DefaultName
	}
	name := u.Path[strings.LastIndex(u.Path, "/")+1:]
	if name == "" || name == "." || name == ".." {
		return DefaultName
	}
	return unsafeChars.ReplaceAllString(name, "_")
}

// Retriever downloads assets through a fetcher.
type Retriever struct {
	fetcher fetcher.Fetcher
	opts    fetcher.Options
}

// NewRetriever creates a retriever that fetches through f.
func NewRetriever(f fetcher.Fetcher, opts fetcher.Options) *Retriever {
	return &Retriever{fetcher: f, opts: opts}
}

// Download fetches rawURL and writes it into dir under FileName(rawURL),
// creating dir if needed, and returns the written path. Fetch failures are
// returned as the fetcher reports them; disk failures as *WriteError.
func (r *Retriever) Download(ctx context.Context, rawURL, dir string) (string, error) {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(rawURL)), "data:") {
		return "", fmt.Errorf("%w: inline data URL", ErrUnsupportedURL)
	}

	content, err := r.fetcher.Fetch(ctx, rawURL, r.opts)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &WriteError{Path: dir, Err: err}
	}

	path := filepath.Join(dir, FileName(rawURL))
	if err := os.WriteFile(path, content.Body, 0644); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}

	logger.Debug("asset saved", "url", rawURL, "path", path, "size", humanize.Bytes(uint64(len(content.Body))))
	return path, nil
}
