// Package org defines the canonical organization record produced by the
// extraction pipeline and the merge rules shared by every extraction stage.
package org

import (
	"slices"
	"strings"
)

// Record is the canonical organization metadata extracted from a page.
// Stages treat it as a value: they return an updated copy rather than
// mutating the record they were given.
type Record struct {
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Phones       []string `json:"phones" yaml:"phones"`
	Emails       []string `json:"emails" yaml:"emails"`
	Address      string   `json:"address,omitempty" yaml:"address,omitempty"`
	Logo         string   `json:"logo,omitempty" yaml:"logo,omitempty"`
	DetectedFont string   `json:"detected_font,omitempty" yaml:"detected_font,omitempty"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	r.Phones = slices.Clone(r.Phones)
	r.Emails = slices.Clone(r.Emails)
	return r
}

// IsEmpty reports whether no field has been populated.
func (r Record) IsEmpty() bool {
	return r.Name == "" && r.Description == "" && r.Address == "" && r.Logo == "" &&
		len(r.Phones) == 0 && len(r.Emails) == 0
}

// PreferFirst returns the first value that is non-empty after trimming.
// It is the tie-break rule for every scalar field: pass the current value
// first so that higher-precedence decisions are never overwritten.
func PreferFirst(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// AppendUnique appends each candidate not already present in list (exact
// match), preserving the order in which candidates are given. Blank
// candidates are ignored. The input slice is never modified.
func AppendUnique(list []string, candidates ...string) []string {
	out := slices.Clone(list)
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Merge layers next over prev: scalar fields already set in prev are kept,
// empty ones are filled from next, and list entries of next not yet in prev
// are appended in order.
func Merge(prev, next Record) Record {
	return Record{
		Name:         PreferFirst(prev.Name, next.Name),
		Description:  PreferFirst(prev.Description, next.Description),
		Phones:       AppendUnique(prev.Phones, next.Phones...),
		Emails:       AppendUnique(prev.Emails, next.Emails...),
		Address:      PreferFirst(prev.Address, next.Address),
		Logo:         PreferFirst(prev.Logo, next.Logo),
		DetectedFont: PreferFirst(prev.DetectedFont, next.DetectedFont),
	}
}

// Normalize trims every entry, drops entries that become empty and removes
// duplicates, keeping the first occurrence. Applying it twice yields the
// same result as applying it once.
func Normalize(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Finalize applies the final list pass to phones and emails and trims the
// scalar fields. The returned record is what downstream stages consume.
func Finalize(r Record) Record {
	r = r.Clone()
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Address = strings.TrimSpace(r.Address)
	r.Logo = strings.TrimSpace(r.Logo)
	r.Phones = Normalize(r.Phones)
	r.Emails = Normalize(r.Emails)
	return r
}
