package extract

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jmylchreest/orgpage/internal/logger"
	"github.com/jmylchreest/orgpage/pkg/document"
	"github.com/jmylchreest/orgpage/pkg/org"
)

const organizationType = "Organization"

// postalAddressFields are joined in this order to build a single address line.
var postalAddressFields = []string{
	"streetAddress",
	"postalCode",
	"addressLocality",
	"addressRegion",
	"addressCountry",
}

// StructuredData reads Organization nodes from embedded JSON-LD blocks.
// Malformed blocks are skipped; every Organization node in the document
// contributes, with the first non-empty scalar winning.
type StructuredData struct{}

// Name returns the stage identifier.
func (StructuredData) Name() string { return "structured-data" }

// Apply implements Stage.
func (StructuredData) Apply(doc *document.Document, rec org.Record) org.Record {
	for i, raw := range doc.LinkedData() {
		if !gjson.Valid(raw) {
			logger.Debug("skipping malformed linked-data block", "index", i, "size", len(raw))
			continue
		}
		for _, node := range linkedDataNodes(gjson.Parse(raw)) {
			if !isOrganization(node) {
				continue
			}
			rec = org.Merge(rec, organizationRecord(doc, node))
		}
	}
	return rec
}

// linkedDataNodes flattens a decoded block into its object nodes, expanding
// top-level arrays and @graph containers.
func linkedDataNodes(v gjson.Result) []gjson.Result {
	var nodes []gjson.Result
	switch {
	case v.IsArray():
		for _, item := range v.Array() {
			nodes = append(nodes, linkedDataNodes(item)...)
		}
	case v.IsObject():
		nodes = append(nodes, v)
		if graph := v.Map()["@graph"]; graph.IsArray() {
			nodes = append(nodes, linkedDataNodes(graph)...)
		}
	}
	return nodes
}

func isOrganization(node gjson.Result) bool {
	t := node.Map()["@type"]
	if t.IsArray() {
		items := t.Array()
		if len(items) == 0 {
			return false
		}
		t = items[0]
	}
	return strings.EqualFold(stringValue(t), organizationType)
}

func organizationRecord(doc *document.Document, node gjson.Result) org.Record {
	var phones []string
	contact := node.Get("contactPoint")
	if contact.IsArray() {
		for _, c := range contact.Array() {
			phones = append(phones, stringValues(c.Get("telephone"))...)
		}
	} else if contact.IsObject() {
		phones = append(phones, stringValues(contact.Get("telephone"))...)
	}
	phones = append(phones, stringValues(node.Get("telephone"))...)

	var emails []string
	for _, e := range stringValues(node.Get("email")) {
		emails = append(emails, strings.TrimPrefix(e, "mailto:"))
	}

	logo := org.PreferFirst(imageURL(node.Get("logo")), imageURL(node.Get("image")))

	return org.Record{
		Name:        stringValue(node.Get("name")),
		Description: stringValue(node.Get("description")),
		Phones:      phones,
		Emails:      emails,
		Address:     postalAddress(node.Get("address")),
		Logo:        doc.Resolve(logo),
	}
}

// imageURL accepts a URL string, an ImageObject with url, or a list of either.
func imageURL(v gjson.Result) string {
	switch {
	case v.IsArray():
		for _, item := range v.Array() {
			if u := imageURL(item); u != "" {
				return u
			}
		}
		return ""
	case v.IsObject():
		return org.PreferFirst(stringValue(v.Get("url")), stringValue(v.Get("contentUrl")))
	default:
		return stringValue(v)
	}
}

// postalAddress joins the non-empty PostalAddress subfields with ", ".
// A plain string address is returned as is.
func postalAddress(v gjson.Result) string {
	if v.IsArray() {
		items := v.Array()
		if len(items) == 0 {
			return ""
		}
		v = items[0]
	}
	if !v.IsObject() {
		return stringValue(v)
	}

	var parts []string
	for _, field := range postalAddressFields {
		part := v.Get(field)
		if part.IsObject() {
			part = part.Get("name")
		}
		if s := stringValue(part); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// stringValue returns the trimmed text of a string or number, or "".
func stringValue(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str)
	case gjson.Number:
		return v.Raw
	default:
		return ""
	}
}

// stringValues returns every non-empty string of a scalar or list value.
func stringValues(v gjson.Result) []string {
	var out []string
	if v.IsArray() {
		for _, item := range v.Array() {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := stringValue(v); s != "" {
		out = append(out, s)
	}
	return out
}
