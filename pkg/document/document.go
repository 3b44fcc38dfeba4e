// Package document parses fetched HTML into a queryable tree.
//
// Extraction stages depend only on the query surface exposed here (find
// elements by selector, read linked-data blocks, get normalized visible
// text, resolve references against the page base URL); the concrete parser
// stays an implementation detail of this package.
package document

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// Elements whose text is never rendered.
var hiddenElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
}

// Document is a parsed HTML page.
type Document struct {
	doc  *goquery.Document
	base *url.URL

	text     string
	textDone bool
}

// Parse decodes body to UTF-8 (using the Content-Type charset or the
// document's meta prescan when the body is not already UTF-8) and parses it.
// pageURL is the address the body was fetched from; a <base href> in the
// document takes precedence over it for resolving references.
func Parse(body []byte, contentType, pageURL string) (*Document, error) {
	data, err := toUTF8(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	d := &Document{doc: doc}
	if pageURL != "" {
		base, err := url.Parse(pageURL)
		if err != nil {
			return nil, fmt.Errorf("invalid page URL %q: %w", pageURL, err)
		}
		d.base = base
	}
	if href := strings.TrimSpace(doc.Find("base[href]").First().AttrOr("href", "")); href != "" {
		if resolved := d.Resolve(href); resolved != "" {
			d.base, _ = url.Parse(resolved)
		}
	}
	return d, nil
}

// ParseString parses an already-decoded HTML string.
func ParseString(htmlText, pageURL string) (*Document, error) {
	return Parse([]byte(htmlText), "text/html; charset=utf-8", pageURL)
}

func toUTF8(body []byte, contentType string) ([]byte, error) {
	if utf8.Valid(body) {
		return body, nil
	}
	enc, _, _ := charset.DetermineEncoding(body, contentType)
	return enc.NewDecoder().Bytes(body)
}

// BaseURL returns the URL relative references are resolved against.
func (d *Document) BaseURL() string {
	if d.base == nil {
		return ""
	}
	return d.base.String()
}

// Resolve converts ref to an absolute URL using the document base.
// It returns "" for blank or unparseable references.
func (d *Document) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if d.base == nil || u.IsAbs() {
		return u.String()
	}
	return d.base.ResolveReference(u).String()
}

// First returns the first element matching selector.
func (d *Document) First(selector string) (Element, bool) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return Element{}, false
	}
	return Element{sel: sel}, true
}

// All returns every element matching selector in document order.
func (d *Document) All(selector string) []Element {
	var out []Element
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, Element{sel: s})
	})
	return out
}

// Attr returns the trimmed attribute of the first element matching
// selector, or "" when there is no such element or attribute.
func (d *Document) Attr(selector, name string) string {
	el, ok := d.First(selector)
	if !ok {
		return ""
	}
	return el.Attr(name)
}

// LinkedData returns the raw contents of every embedded JSON-LD block.
func (d *Document) LinkedData() []string {
	var blocks []string
	d.doc.Find("script[type]").Each(func(_ int, s *goquery.Selection) {
		typ := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
		if !strings.HasPrefix(typ, "application/ld+json") {
			return
		}
		if raw := strings.TrimSpace(s.Text()); raw != "" {
			blocks = append(blocks, raw)
		}
	})
	return blocks
}

// InlineStyles returns the contents of every <style> element.
func (d *Document) InlineStyles() []string {
	var styles []string
	d.doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		if css := strings.TrimSpace(s.Text()); css != "" {
			styles = append(styles, css)
		}
	})
	return styles
}

// Text returns the visible text of the page body: markup stripped,
// non-rendered elements skipped, text nodes separated by single spaces.
// Only <body> is read, so <title> and other <head> content never appear.
func (d *Document) Text() string {
	if !d.textDone {
		body := d.doc.Find("body")
		if body.Length() == 0 {
			body = d.doc.Selection
		}
		d.text = visibleText(body.Nodes)
		d.textDone = true
	}
	return d.text
}

// Element is a single node of a Document.
type Element struct {
	sel *goquery.Selection
}

// Text returns the element's visible text, whitespace-normalized.
func (e Element) Text() string {
	if e.sel == nil {
		return ""
	}
	return visibleText(e.sel.Nodes)
}

// Attr returns the trimmed value of the named attribute, or "".
func (e Element) Attr(name string) string {
	if e.sel == nil {
		return ""
	}
	return strings.TrimSpace(e.sel.AttrOr(name, ""))
}

func visibleText(nodes []*html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if hiddenElements[n.DataAtom] {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
