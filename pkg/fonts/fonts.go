// Package fonts discovers the typeface an organization's site uses by
// scanning its stylesheets.
package fonts

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jmylchreest/orgpage/internal/logger"
	"github.com/jmylchreest/orgpage/pkg/document"
	"github.com/jmylchreest/orgpage/pkg/fetcher"
)

var (
	fontFaceRe   = regexp.MustCompile(`(?is)@font-face\s*\{[^}]*\}`)
	faceFamilyRe = regexp.MustCompile(`(?i)font-family\s*:\s*["']?([^;"'}]+)["']?`)
	faceSrcRe    = regexp.MustCompile(`(?i)src\s*:\s*[^;]*?url\(\s*["']?([^)"']+)["']?\s*\)`)
	googleFontRe = regexp.MustCompile(`fonts\.googleapis\.com/css2\?family=([^:&')"]+)`)
	bodyFamilyRe = regexp.MustCompile(`(?is)(?:^|[^\w-])body\s*\{[^}]*font-family\s*:\s*([^;}]*)`)
	anyFamilyRe  = regexp.MustCompile(`(?i)font-family\s*:\s*["']?([A-Za-z0-9 \-]+)["']?`)
)

// Values that name no typeface.
var cssKeywords = map[string]bool{
	"inherit": true,
	"initial": true,
	"unset":   true,
	"revert":  true,
	"var":     true,
}

// Face is a detected font family and, when declared by @font-face, the
// URL of its font file.
type Face struct {
	Family string `json:"family" yaml:"family"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Detect inspects css and returns the first font it can identify, trying
// in order: the first @font-face rule, a Google Fonts css2 import, the
// body rule's font-family, and any font-family declaration. The returned
// URL is as written in the stylesheet.
func Detect(css string) (Face, bool) {
	for _, block := range fontFaceRe.FindAllString(css, -1) {
		m := faceFamilyRe.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		face := Face{Family: strings.TrimSpace(m[1])}
		if src := faceSrcRe.FindStringSubmatch(block); src != nil {
			face.URL = strings.TrimSpace(src[1])
		}
		if face.Family != "" {
			return face, true
		}
	}

	if m := googleFontRe.FindStringSubmatch(css); m != nil {
		return Face{Family: strings.ReplaceAll(m[1], "+", " ")}, true
	}

	if m := bodyFamilyRe.FindStringSubmatch(css); m != nil {
		if family := firstFamily(m[1]); family != "" {
			return Face{Family: family}, true
		}
	}

	for _, m := range anyFamilyRe.FindAllStringSubmatch(css, -1) {
		if family := strings.TrimSpace(m[1]); usable(family) {
			return Face{Family: family}, true
		}
	}

	return Face{}, false
}

// firstFamily returns the first entry of a font-family value list.
func firstFamily(value string) string {
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
	first, _, _ := strings.Cut(value, ",")
	first = strings.Trim(strings.TrimSpace(first), `"'`)
	if !usable(first) || strings.HasPrefix(strings.ToLower(first), "var(") {
		return ""
	}
	return first
}

func usable(family string) bool {
	return family != "" && !cssKeywords[strings.ToLower(family)]
}

// Stylesheets returns the absolute URLs of the document's linked stylesheets
// in document order.
func Stylesheets(doc *document.Document) []string {
	var hrefs []string
	for _, link := range doc.All(`link[rel~="stylesheet"][href]`) {
		if href := doc.Resolve(link.Attr("href")); href != "" {
			hrefs = append(hrefs, href)
		}
	}
	return hrefs
}

// Detection is a face together with the stylesheet it was found in.
type Detection struct {
	Face
	Stylesheet string `json:"stylesheet,omitempty" yaml:"stylesheet,omitempty"` // "" for inline <style>
}

// Detector fetches a page's stylesheets and runs Detect over them.
type Detector struct {
	fetcher fetcher.Fetcher
	opts    fetcher.Options
}

// NewDetector creates a detector that retrieves stylesheets through f.
func NewDetector(f fetcher.Fetcher, opts fetcher.Options) *Detector {
	return &Detector{fetcher: f, opts: opts}
}

// Find scans linked stylesheets in order, then inline <style> blocks, and
// stops at the first that yields a font. The face URL is resolved against
// the stylesheet it came from. Stylesheets that cannot be fetched are
// skipped and reported in failures.
func (d *Detector) Find(ctx context.Context, doc *document.Document) (det Detection, found bool, failures []error) {
	for _, href := range Stylesheets(doc) {
		content, err := d.fetcher.Fetch(ctx, href, d.opts)
		if err != nil {
			logger.Debug("stylesheet fetch failed", "url", href, "error", err)
			failures = append(failures, fmt.Errorf("stylesheet %s: %w", href, err))
			continue
		}
		face, ok := Detect(content.Text())
		if !ok {
			logger.Debug("no font in stylesheet", "url", href)
			continue
		}
		face.URL = resolve(content.URL, face.URL)
		logger.Debug("font detected", "family", face.Family, "url", face.URL, "stylesheet", href)
		return Detection{Face: face, Stylesheet: href}, true, failures
	}

	for _, css := range doc.InlineStyles() {
		if face, ok := Detect(css); ok {
			face.URL = resolve(doc.BaseURL(), face.URL)
			logger.Debug("font detected in inline style", "family", face.Family, "url", face.URL)
			return Detection{Face: face}, true, failures
		}
	}

	return Detection{}, false, failures
}

// resolve makes ref absolute against the stylesheet URL base.
func resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(strings.ToLower(ref), "data:") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil || u.IsAbs() {
		return u.String()
	}
	return b.ResolveReference(u).String()
}
