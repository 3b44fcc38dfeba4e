// Package extract implements the layered organization extraction engine.
//
// Three stages contribute to a single org.Record in strict precedence order:
// embedded JSON-LD, markup heuristics, and free-text pattern matching.
// Scalar fields keep the first non-empty value any stage supplies; phones
// and emails accumulate across stages without duplicates.
package extract

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/orgpage/internal/logger"
	"github.com/jmylchreest/orgpage/pkg/document"
	"github.com/jmylchreest/orgpage/pkg/org"
)

// Stage is one extraction layer. Apply receives the record produced by the
// higher-precedence stages and returns an updated copy; it must not mutate
// its input.
type Stage interface {
	// Name returns the stage identifier.
	Name() string

	// Apply extracts candidates from doc and layers them onto rec.
	Apply(doc *document.Document, rec org.Record) org.Record
}

// Contribution lists the fields a stage filled during a run.
type Contribution struct {
	Stage  string   `json:"stage" yaml:"stage"`
	Fields []string `json:"fields" yaml:"fields"`
}

// Result is the finalized record plus per-stage contributions.
type Result struct {
	Record        org.Record
	Contributions []Contribution
}

// Pipeline runs stages in order, threading one record through them.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline; earlier stages take precedence.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// DefaultPipeline returns structured data > markup > free text.
func DefaultPipeline() *Pipeline {
	return NewPipeline(StructuredData{}, Markup{}, FreeText{})
}

// Run extracts an organization record from doc.
func (p *Pipeline) Run(doc *document.Document) Result {
	var (
		rec           org.Record
		contributions []Contribution
	)

	for _, stage := range p.stages {
		next := org.Merge(rec, stage.Apply(doc, rec.Clone()))
		fields := diff(rec, next)
		logger.Debug("extraction stage complete", "stage", stage.Name(), "fields", fields)
		contributions = append(contributions, Contribution{Stage: stage.Name(), Fields: fields})
		rec = next
	}

	return Result{
		Record:        org.Finalize(rec),
		Contributions: contributions,
	}
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name())
	}
	return "pipeline(" + strings.Join(names, "->") + ")"
}

// diff describes which fields changed between two records.
func diff(before, after org.Record) []string {
	var fields []string
	scalar := func(name, b, a string) {
		if b != a {
			fields = append(fields, name)
		}
	}
	list := func(name string, b, a []string) {
		if n := len(a) - len(b); n > 0 {
			fields = append(fields, fmt.Sprintf("%s+%d", name, n))
		}
	}

	scalar("name", before.Name, after.Name)
	scalar("description", before.Description, after.Description)
	list("phones", before.Phones, after.Phones)
	list("emails", before.Emails, after.Emails)
	scalar("address", before.Address, after.Address)
	scalar("logo", before.Logo, after.Logo)
	return fields
}
