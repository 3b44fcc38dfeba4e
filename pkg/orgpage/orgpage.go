package orgpage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/orgpage/internal/logger"
	"github.com/jmylchreest/orgpage/pkg/assets"
	"github.com/jmylchreest/orgpage/pkg/document"
	"github.com/jmylchreest/orgpage/pkg/extract"
	"github.com/jmylchreest/orgpage/pkg/fetcher"
	"github.com/jmylchreest/orgpage/pkg/fonts"
	"github.com/jmylchreest/orgpage/pkg/org"
	"github.com/jmylchreest/orgpage/pkg/render"
	"github.com/jmylchreest/orgpage/pkg/site"
)

// ErrPrimaryFetch is returned when the organization page itself cannot be
// retrieved. Nothing is written in that case.
var ErrPrimaryFetch = errors.New("primary page fetch failed")

// Omission records an optional piece of output that was left out.
type Omission struct {
	Item string // "font detection", "font" or "logo"
	URL  string
	Err  error
}

func (o Omission) String() string {
	if o.URL == "" {
		return fmt.Sprintf("%s: %v", o.Item, o.Err)
	}
	return fmt.Sprintf("%s %s: %v", o.Item, o.URL, o.Err)
}

// Extraction is the outcome of fetching and extracting one page.
type Extraction struct {
	URL           string                 `json:"url" yaml:"url"`
	FetchedAt     time.Time              `json:"fetched_at" yaml:"fetched_at"`
	Record        org.Record             `json:"record" yaml:"record"`
	Contributions []extract.Contribution `json:"contributions" yaml:"contributions"`
}

// Result represents a generated page.
type Result struct {
	Extraction
	Font          *fonts.Detection
	LocalLogo     string // written logo path, "" when omitted
	FontFile      string // written font path, "" when omitted
	HTMLPath      string
	CSSPath       string
	Omitted       []Omission
	FetchDuration time.Duration
}

// Generator fetches an organization page, extracts its record and writes
// a standalone page for it.
type Generator struct {
	page     fetcher.Fetcher
	static   fetcher.Fetcher
	pipeline *extract.Pipeline
	config   Config
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	static := fetcher.NewStatic(fetcher.StaticConfig{
		UserAgent:   cfg.UserAgent,
		Timeout:     cfg.Timeout,
		MaxBodySize: cfg.MaxBodySize,
	})

	page := cfg.Fetcher
	if page == nil {
		page = static
	}

	pipeline := cfg.Pipeline
	if pipeline == nil {
		pipeline = extract.DefaultPipeline()
	}

	return &Generator{
		page:     page,
		static:   static,
		pipeline: pipeline,
		config:   cfg,
	}
}

func (g *Generator) fetchOptions() fetcher.Options {
	return fetcher.Options{
		UserAgent: g.config.UserAgent,
		Timeout:   g.config.Timeout,
	}
}

func (g *Generator) pageOptions() fetcher.Options {
	opts := g.fetchOptions()
	opts.Headers = g.config.Headers
	opts.WaitForSelector = g.config.WaitForSelector
	opts.WaitDuration = g.config.WaitDuration
	return opts
}

// Extract fetches pageURL and runs the extraction pipeline without
// retrieving assets or writing anything.
func (g *Generator) Extract(ctx context.Context, pageURL string) (*Extraction, error) {
	ext, _, err := g.extract(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ext, nil
}

func (g *Generator) extract(ctx context.Context, pageURL string) (*Extraction, *document.Document, error) {
	logger.Debug("fetching page", "url", pageURL, "fetcher", g.page.Type())

	content, err := g.page.Fetch(ctx, pageURL, g.pageOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrPrimaryFetch, err)
	}

	base := content.URL
	if base == "" {
		base = pageURL
	}
	doc, err := document.Parse(content.Body, content.ContentType, base)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse page: %w", err)
	}

	res := g.pipeline.Run(doc)
	logger.Debug("extraction complete", "pipeline", g.pipeline.Name(), "name", res.Record.Name)

	return &Extraction{
		URL:           pageURL,
		FetchedAt:     content.FetchedAt,
		Record:        res.Record,
		Contributions: res.Contributions,
	}, doc, nil
}

// Generate fetches pageURL, extracts the organization record, detects the
// site font, downloads the font file and logo, and writes the page into
// the output directory. Only a failed page fetch is fatal; other failures
// are listed in Result.Omitted.
func (g *Generator) Generate(ctx context.Context, pageURL string) (*Result, error) {
	fetchStart := time.Now()
	ext, doc, err := g.extract(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Extraction:    *ext,
		FetchDuration: time.Since(fetchStart),
	}
	layout := site.NewLayout(g.config.OutputDir)
	retriever := assets.NewRetriever(g.static, g.fetchOptions())

	det, found, failures := fonts.NewDetector(g.static, g.fetchOptions()).Find(ctx, doc)
	for _, err := range failures {
		result.omit("font detection", "", err)
	}
	if found {
		result.Font = &det
		result.Record.DetectedFont = org.PreferFirst(result.Record.DetectedFont, det.Family)
		if det.URL != "" {
			path, err := retriever.Download(ctx, det.URL, layout.FontsDir())
			if err != nil {
				result.omit("font", det.URL, err)
			} else {
				result.FontFile = path
			}
		}
	} else {
		logger.Info("no font detected", "url", pageURL)
	}

	if logo := result.Record.Logo; logo != "" {
		path, err := retriever.Download(ctx, logo, layout.ImagesDir())
		if err != nil {
			result.omit("logo", logo, err)
		} else {
			result.LocalLogo = path
		}
	}

	page := render.Page{
		Record:    result.Record,
		SourceURL: pageURL,
		Fonts:     g.config.Fonts,
	}
	if result.LocalLogo != "" {
		page.LogoFile = layout.Rel(result.LocalLogo)
	}
	if result.FontFile != "" {
		page.FontFile = layout.Rel(result.FontFile)
	}

	html, css, err := render.Render(page)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}

	writer := site.NewWriter(layout, site.WithPretty(g.config.PrettyHTML))
	result.HTMLPath, result.CSSPath, err = writer.Write(html, css)
	if err != nil {
		return nil, fmt.Errorf("failed to write page: %w", err)
	}

	logger.Info("page generated", "url", pageURL, "html", result.HTMLPath, "omitted", len(result.Omitted))
	return result, nil
}

func (r *Result) omit(item, url string, err error) {
	logger.Warn("omitted from output", "item", item, "url", url, "error", err)
	r.Omitted = append(r.Omitted, Omission{Item: item, URL: url, Err: err})
}

// Close releases the fetchers the Generator created. A fetcher supplied
// with WithFetcher is left to the caller.
func (g *Generator) Close() error {
	return g.static.Close()
}

// Summary describes what was found and what was omitted, one item per line.
func (r *Result) Summary() string {
	var b strings.Builder
	rec := r.Record

	line := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "%-13s %s\n", label+":", value)
	}

	line("Name", rec.Name)
	line("Description", rec.Description)
	line("Address", rec.Address)
	line("Phones", strings.Join(rec.Phones, ", "))
	line("Emails", strings.Join(rec.Emails, ", "))
	line("Logo", rec.Logo)
	line("Font", rec.DetectedFont)
	line("Local logo", r.LocalLogo)
	line("Font file", r.FontFile)
	line("Page", r.HTMLPath)
	line("Stylesheet", r.CSSPath)

	for _, c := range r.Contributions {
		line("Stage "+c.Stage, strings.Join(c.Fields, ", "))
	}
	for _, o := range r.Omitted {
		line("Omitted", o.String())
	}
	return b.String()
}
