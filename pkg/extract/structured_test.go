package extract

import (
	"slices"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/jmylchreest/orgpage/pkg/org"
)

func ldPage(blocks ...string) string {
	html := "<html><head>"
	for _, b := range blocks {
		html += `<script type="application/ld+json">` + b + `</script>`
	}
	return html + "</head><body></body></html>"
}

func TestStructuredData_Apply_Organization(t *testing.T) {
	doc := parse(t, ldPage(`{
		"@context": "https://schema.org",
		"@type": "Organization",
		"name": "  Acme Corp  ",
		"description": "Widgets",
		"logo": "/logo.png",
		"telephone": "+1 555 0100",
		"contactPoint": {"telephone": "+1 555 0199"},
		"email": "mailto:info@acme.example"
	}`), "https://acme.example/about/")

	rec := StructuredData{}.Apply(doc, org.Record{})

	if rec.Name != "Acme Corp" {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.Description != "Widgets" {
		t.Errorf("Description = %q", rec.Description)
	}
	if rec.Logo != "https://acme.example/logo.png" {
		t.Errorf("Logo = %q", rec.Logo)
	}
	if !slices.Equal(rec.Phones, []string{"+1 555 0199", "+1 555 0100"}) {
		t.Errorf("Phones = %q", rec.Phones)
	}
	if !slices.Equal(rec.Emails, []string{"info@acme.example"}) {
		t.Errorf("Emails = %q", rec.Emails)
	}
}

func TestStructuredData_Apply_IgnoresOtherTypes(t *testing.T) {
	doc := parse(t, ldPage(
		`{"@type": "WebSite", "name": "Site"}`,
		`{"@type": ["LocalBusiness", "Organization"], "name": "Shop"}`,
	), "")

	rec := StructuredData{}.Apply(doc, org.Record{})

	if !rec.IsEmpty() {
		t.Errorf("expected empty record, got %+v", rec)
	}
}

func TestStructuredData_Apply_Graph(t *testing.T) {
	doc := parse(t, ldPage(`{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebPage", "name": "Home"},
			{"@type": "Organization", "name": "Graph Org", "image": ["https://img.example/a.png"]}
		]
	}`), "")

	rec := StructuredData{}.Apply(doc, org.Record{})

	if rec.Name != "Graph Org" {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.Logo != "https://img.example/a.png" {
		t.Errorf("Logo = %q", rec.Logo)
	}
}

func TestStructuredData_Apply_FirstNodeWins(t *testing.T) {
	doc := parse(t, ldPage(
		`{"@type": "Organization", "name": "First", "email": "a@example.org"}`,
		`{"@type": "Organization", "name": "Second", "description": "From second", "email": "b@example.org"}`,
	), "")

	rec := StructuredData{}.Apply(doc, org.Record{})

	if rec.Name != "First" {
		t.Errorf("Name = %q, want First", rec.Name)
	}
	if rec.Description != "From second" {
		t.Errorf("Description = %q", rec.Description)
	}
	if !slices.Equal(rec.Emails, []string{"a@example.org", "b@example.org"}) {
		t.Errorf("Emails = %q", rec.Emails)
	}
}

func TestStructuredData_Apply_SkipsMalformedBlock(t *testing.T) {
	doc := parse(t, readTestdata(t, "malformed.html"), "")

	rec := StructuredData{}.Apply(doc, org.Record{})

	if rec.Name != "Second Block" {
		t.Errorf("Name = %q", rec.Name)
	}
}

func TestStructuredData_Apply_KeepsExistingScalars(t *testing.T) {
	doc := parse(t, ldPage(`{"@type": "Organization", "name": "Ignored", "telephone": "+7 000 000 00 00"}`), "")

	rec := StructuredData{}.Apply(doc, org.Record{Name: "Kept", Phones: []string{"+7 111 111 11 11"}})

	if rec.Name != "Kept" {
		t.Errorf("Name = %q", rec.Name)
	}
	if !slices.Equal(rec.Phones, []string{"+7 111 111 11 11", "+7 000 000 00 00"}) {
		t.Errorf("Phones = %q", rec.Phones)
	}
}

func TestPostalAddress(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			name: "all fields in order",
			json: `{"address": {"addressCountry": "RU", "streetAddress": "ул. Ленина, 1", "addressLocality": "Москва", "postalCode": "101000", "addressRegion": "МО"}}`,
			want: "ул. Ленина, 1, 101000, Москва, МО, RU",
		},
		{
			name: "missing fields skipped",
			json: `{"address": {"streetAddress": "Main St 5", "addressLocality": "Springfield"}}`,
			want: "Main St 5, Springfield",
		},
		{
			name: "numeric postal code",
			json: `{"address": {"streetAddress": "Main St 5", "postalCode": 12345}}`,
			want: "Main St 5, 12345",
		},
		{
			name: "plain string",
			json: `{"address": "  1 Infinite Loop  "}`,
			want: "1 Infinite Loop",
		},
		{
			name: "list uses first entry",
			json: `{"address": [{"streetAddress": "A"}, {"streetAddress": "B"}]}`,
			want: "A",
		},
		{
			name: "missing",
			json: `{}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := postalAddress(gjson.Get(tt.json, "address"))
			if got != tt.want {
				t.Errorf("postalAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}
