package extract

import (
	"slices"
	"testing"

	"github.com/jmylchreest/orgpage/pkg/org"
)

func TestFreeText_Apply_SortedPhones(t *testing.T) {
	html := `<html><body><p>Бесплатно: 8-800-555-35-35.</p><p>Офис: +7 (495) 123-45-67.</p></body></html>`

	rec := FreeText{}.Apply(parse(t, html, ""), org.Record{})

	want := []string{"+7 (495) 123-45-67", "8-800-555-35-35"}
	if !slices.Equal(rec.Phones, want) {
		t.Errorf("Phones = %q, want %q", rec.Phones, want)
	}
}

func TestFreeText_Apply_AppendsAfterExisting(t *testing.T) {
	html := `<html><body>Почта: b@example.org, a@example.org, b@example.org</body></html>`
	prev := org.Record{Emails: []string{"z@example.org", "b@example.org"}}

	rec := FreeText{}.Apply(parse(t, html, ""), prev)

	want := []string{"z@example.org", "b@example.org", "a@example.org"}
	if !slices.Equal(rec.Emails, want) {
		t.Errorf("Emails = %q, want %q", rec.Emails, want)
	}
}

func TestFreeText_Apply_IgnoresHiddenText(t *testing.T) {
	html := `<html><body>
<script>var phone = "+7 900 000 00 00";</script>
<style>.x{color:red}</style>
<!-- hidden@example.org -->
<p>visible@example.org</p>
</body></html>`

	rec := FreeText{}.Apply(parse(t, html, ""), org.Record{})

	if len(rec.Phones) != 0 {
		t.Errorf("Phones = %q, want none", rec.Phones)
	}
	if !slices.Equal(rec.Emails, []string{"visible@example.org"}) {
		t.Errorf("Emails = %q", rec.Emails)
	}
}

func TestFreeText_Apply_AddressOnlyWhenEmpty(t *testing.T) {
	html := `<html><body><p>Мы находимся: г. Москва, ул. Ленина, д. 10</p></body></html>`

	t.Run("empty", func(t *testing.T) {
		rec := FreeText{}.Apply(parse(t, html, ""), org.Record{})
		if rec.Address == "" {
			t.Error("expected an address from page text")
		}
	})

	t.Run("already set", func(t *testing.T) {
		rec := FreeText{}.Apply(parse(t, html, ""), org.Record{Address: "Earlier"})
		if rec.Address != "Earlier" {
			t.Errorf("Address = %q, want Earlier", rec.Address)
		}
	})
}

func TestFreeText_Apply_DoesNotMutateInput(t *testing.T) {
	html := `<html><body>one@example.org two@example.org</body></html>`
	prev := org.Record{Emails: make([]string, 0, 8)}
	prev.Emails = append(prev.Emails, "zero@example.org")

	_ = FreeText{}.Apply(parse(t, html, ""), prev)

	if !slices.Equal(prev.Emails, []string{"zero@example.org"}) {
		t.Errorf("input modified: %q", prev.Emails)
	}
	if got := prev.Emails[:2][1]; got != "" {
		t.Errorf("backing array modified: %q", got)
	}
}

func TestFreeText_Apply_TelAndMailtoLinks(t *testing.T) {
	html := `<html><body>
<div class="contacts">+7 (495) 123-45-67</div>
<a href="tel:+74951234567">call</a>
<a href="tel:+7%20800%20100-20-30">free</a>
<a href="tel:112">short</a>
<a href="mailto:sales@example.org?subject=Hi">write</a>
<a href="mailto:not-an-email">bad</a>
</body></html>`

	rec := FreeText{}.Apply(parse(t, html, ""), org.Record{})

	wantPhones := []string{"+7 (495) 123-45-67", "+7 800 100-20-30"}
	if !slices.Equal(rec.Phones, wantPhones) {
		t.Errorf("Phones = %q, want %q", rec.Phones, wantPhones)
	}
	if !slices.Equal(rec.Emails, []string{"sales@example.org"}) {
		t.Errorf("Emails = %q", rec.Emails)
	}
}
