package extract

import (
	"net/url"
	"strings"

	"github.com/jmylchreest/orgpage/pkg/document"
	"github.com/jmylchreest/orgpage/pkg/org"
)

// FreeText scans the page's visible text with the phone, email and address
// matchers. It has the lowest precedence: phones and emails are appended in
// sorted order when not already known, and the address is only used when
// no earlier stage found one. tel: and mailto: link targets come last; a
// tel: target is skipped when a known phone has the same digits.
type FreeText struct{}

// Name returns the stage identifier.
func (FreeText) Name() string { return "free-text" }

// Apply implements Stage.
func (FreeText) Apply(doc *document.Document, rec org.Record) org.Record {
	text := doc.Text()

	rec.Phones = org.AppendUnique(rec.Phones, PhoneMatcher.FindSet(text)...)
	rec.Emails = org.AppendUnique(rec.Emails, EmailMatcher.FindSet(text)...)
	if rec.Address == "" {
		rec.Address = AddressMatcher.FindFirst(text)
	}

	rec.Phones = appendTelLinks(doc, rec.Phones)
	rec.Emails = org.AppendUnique(rec.Emails, mailtoLinks(doc)...)
	return rec
}

// appendTelLinks adds tel: link targets whose digits are not already
// present in phones under another formatting.
func appendTelLinks(doc *document.Document, phones []string) []string {
	known := make(map[string]bool, len(phones))
	for _, p := range phones {
		known[phoneDigits(p)] = true
	}

	var extra []string
	for _, a := range doc.All(`a[href^="tel:"]`) {
		phone := linkTarget(a.Attr("href"), "tel:")
		digits := phoneDigits(phone)
		if len(digits) < 7 || known[digits] {
			continue
		}
		known[digits] = true
		extra = append(extra, phone)
	}
	return org.AppendUnique(phones, extra...)
}

func mailtoLinks(doc *document.Document) []string {
	var emails []string
	for _, a := range doc.All(`a[href^="mailto:"]`) {
		email, _, _ := strings.Cut(linkTarget(a.Attr("href"), "mailto:"), "?")
		if EmailMatcher.Matches(email) {
			emails = append(emails, email)
		}
	}
	return emails
}

func linkTarget(href, scheme string) string {
	target := strings.TrimSpace(strings.TrimPrefix(href, scheme))
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}
	return target
}

func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
