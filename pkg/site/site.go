// Package site lays out and writes the generated page on disk.
package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yosssi/gohtml"

	"github.com/jmylchreest/orgpage/internal/logger"
)

// File and directory names inside the output directory.
const (
	IndexFile = "index.html"
	StyleFile = "styles.css"
	AssetsDir = "assets"

	fontsDir  = "fonts"
	imagesDir = "images"
	dirPerm   = 0755
	filePerm  = 0644
)

// WriteError reports a file of the page that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Layout resolves paths inside an output directory.
type Layout struct {
	Root string
}

// NewLayout returns the layout rooted at dir.
func NewLayout(dir string) Layout {
	return Layout{Root: dir}
}

// FontsDir is where downloaded font files go.
func (l Layout) FontsDir() string { return filepath.Join(l.Root, AssetsDir, fontsDir) }

// ImagesDir is where downloaded images go.
func (l Layout) ImagesDir() string { return filepath.Join(l.Root, AssetsDir, imagesDir) }

// IndexPath is the page file.
func (l Layout) IndexPath() string { return filepath.Join(l.Root, IndexFile) }

// StylePath is the stylesheet file.
func (l Layout) StylePath() string { return filepath.Join(l.Root, StyleFile) }

// Rel returns path relative to the root with forward slashes, for use in
// page links. Paths outside the root are returned unchanged.
func (l Layout) Rel(path string) string {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Writer persists a rendered page.
type Writer struct {
	layout Layout
	pretty bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithPretty reformats the HTML with indentation before writing.
func WithPretty(pretty bool) Option {
	return func(w *Writer) {
		w.pretty = pretty
	}
}

// NewWriter creates a writer for the given layout.
func NewWriter(layout Layout, opts ...Option) *Writer {
	w := &Writer{layout: layout}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write stores the page HTML and stylesheet, creating the output directory
// if needed. It returns the written paths.
func (w *Writer) Write(html, css string) (htmlPath, cssPath string, err error) {
	if err := os.MkdirAll(w.layout.Root, dirPerm); err != nil {
		return "", "", &WriteError{Path: w.layout.Root, Err: err}
	}

	if w.pretty {
		html = gohtml.Format(html)
	}

	htmlPath = w.layout.IndexPath()
	if err := os.WriteFile(htmlPath, []byte(html), filePerm); err != nil {
		return "", "", &WriteError{Path: htmlPath, Err: err}
	}

	cssPath = w.layout.StylePath()
	if err := os.WriteFile(cssPath, []byte(css), filePerm); err != nil {
		return "", "", &WriteError{Path: cssPath, Err: err}
	}

	logger.Debug("page written", "html", htmlPath, "css", cssPath, "pretty", w.pretty)
	return htmlPath, cssPath, nil
}
