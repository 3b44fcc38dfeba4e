package extract

import (
	"strings"

	"github.com/jmylchreest/orgpage/pkg/document"
	"github.com/jmylchreest/orgpage/pkg/org"
)

const (
	siteNameSelector      = `meta[property="og:site_name"]`
	brandSelector         = ".site-title, .logo a, .brand, header .logo"
	descriptionSelector   = `meta[name="description"]`
	ogDescriptionSelector = `meta[property="og:description"]`
	ogImageSelector       = `meta[property="og:image"]`
	iconSelector          = `link[rel~="icon"]`
	addressItemSelector   = `[itemprop="address"], [itemtype*="PostalAddress"]`
)

// contactSelectors are classes commonly used for contact, footer and
// address blocks.
var contactSelectors = []string{
	".contact",
	".contacts",
	".contacts-list",
	".site-footer",
	".footer",
	".header .contacts",
	".phone",
	".phones",
	".tel",
	".address",
	".logo",
	".company",
	".organization",
}

// Markup fills the fields still empty after structured data from meta
// tags, semantic elements and well-known contact blocks.
type Markup struct{}

// Name returns the stage identifier.
func (Markup) Name() string { return "markup" }

// Apply implements Stage.
func (Markup) Apply(doc *document.Document, rec org.Record) org.Record {
	rec.Name = org.PreferFirst(
		rec.Name,
		doc.Attr(siteNameSelector, "content"),
		firstText(doc, "title"),
		firstText(doc, "h1"),
		firstText(doc, brandSelector),
	)

	rec.Description = org.PreferFirst(
		rec.Description,
		doc.Attr(descriptionSelector, "content"),
		doc.Attr(ogDescriptionSelector, "content"),
	)

	rec.Logo = org.PreferFirst(
		rec.Logo,
		doc.Resolve(doc.Attr(ogImageSelector, "content")),
		doc.Resolve(doc.Attr(iconSelector, "href")),
		logoImage(doc),
	)

	if rec.Address == "" {
		rec.Address = firstText(doc, addressItemSelector)
	}

	for _, selector := range contactSelectors {
		for _, el := range doc.All(selector) {
			text := el.Text()
			rec.Phones = org.AppendUnique(rec.Phones, PhoneMatcher.FindAll(text)...)
			rec.Emails = org.AppendUnique(rec.Emails, EmailMatcher.FindAll(text)...)
			if rec.Address == "" && looksLikeAddress(text) {
				rec.Address = text
			}
		}
	}

	return rec
}

func firstText(doc *document.Document, selector string) string {
	el, ok := doc.First(selector)
	if !ok {
		return ""
	}
	return el.Text()
}

// logoImage returns the first image whose alt text or source mentions "logo".
func logoImage(doc *document.Document) string {
	for _, img := range doc.All("img") {
		src := img.Attr("src")
		if src == "" {
			continue
		}
		if strings.Contains(strings.ToLower(img.Attr("alt")), "logo") ||
			strings.Contains(strings.ToLower(src), "logo") {
			return doc.Resolve(src)
		}
	}
	return ""
}
