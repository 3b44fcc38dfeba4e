package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Matcher finds candidate values of one kind in free text.
type Matcher struct {
	name    string
	pattern *regexp.Regexp
}

// NewMatcher compiles pattern into a named matcher.
func NewMatcher(name, pattern string) *Matcher {
	return &Matcher{name: name, pattern: regexp.MustCompile(pattern)}
}

// Name returns the matcher identifier.
func (m *Matcher) Name() string {
	return m.name
}

// FindAll returns every match in document order, duplicates included.
func (m *Matcher) FindAll(text string) []string {
	return m.pattern.FindAllString(text, -1)
}

// FindFirst returns the first match trimmed, or "" when there is none.
func (m *Matcher) FindFirst(text string) string {
	return strings.TrimSpace(m.pattern.FindString(text))
}

// FindSet returns the distinct matches sorted lexicographically.
func (m *Matcher) FindSet(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range m.FindAll(text) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Matches reports whether text contains a match.
func (m *Matcher) Matches(text string) bool {
	return m.pattern.MatchString(text)
}

var (
	// PhoneMatcher matches a digit-led run of at least eight characters made
	// of digits, hyphens, spaces and parentheses, optionally prefixed by "+".
	PhoneMatcher = NewMatcher("phone", `\+?\d[\d\-\s()]{6,}\d`)

	// EmailMatcher matches the loose name@domain.tld shape.
	EmailMatcher = NewMatcher("email", `[\w.-]+@[\w.-]+\.\w+`)

	// AddressMatcher matches 10-120 characters of Cyrillic text, digits and
	// punctuation ending at a word boundary, a street-type marker, and up to
	// 80 characters of trailing context up to a newline or comma.
	//
	// RE2 word boundaries are ASCII-only, so the boundary before the marker
	// is written as the trailing separator of the leading run.
	AddressMatcher = NewMatcher("address",
		`(?i)[А-ЯЁа-яё0-9.,\- ]{9,119}[.,\- ](?:ул\.|улица|проспект|пр\.)[^\n,]{0,80}`)
)

// addressMarkers are the substrings that make a contact block look like a
// postal address.
var addressMarkers = []string{"ул.", "улица", "проспект", "пр.", "дом", "д."}

// minAddressBlockLen is the length a contact block must exceed, in
// characters, before it is taken as an address.
const minAddressBlockLen = 20

// looksLikeAddress reports whether a contact block's text should be
// adopted as an address.
func looksLikeAddress(text string) bool {
	if len([]rune(text)) <= minAddressBlockLen {
		return false
	}
	lower := strings.ToLower(text)
	for _, marker := range addressMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
