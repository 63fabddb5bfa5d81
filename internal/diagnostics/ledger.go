// Package diagnostics records, per field and per source, whether each
// extraction attempt succeeded or failed.
package diagnostics

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

const (
	reportHeader = "--- Scraper Diagnostics Report ---"
	reportFooter = "----------------------------------"
)

type outcome struct {
	source  string
	success bool
	cause   error
}

type fieldEntry struct {
	field    plugin.Field
	outcomes []outcome
}

// Ledger accumulates extraction outcomes. It is safe for concurrent use.
// Fields and sources keep their first-insertion order; recording the same
// (field, source) pair again replaces its outcome in place.
type Ledger struct {
	mu     sync.Mutex
	fields []*fieldEntry
	byKey  map[plugin.Field]*fieldEntry
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{byKey: make(map[plugin.Field]*fieldEntry)}
}

// FieldSummary buckets the sources of one field by outcome.
type FieldSummary struct {
	Field     string   `json:"field"`
	Successes []string `json:"successes"`
	Failures  []string `json:"failures"`
}

// Failure is one failed attempt with its original cause.
type Failure struct {
	Field  plugin.Field
	Source string
	Cause  error
}

// RecordSuccess notes that source produced a value for field.
func (l *Ledger) RecordSuccess(source string, field plugin.Field) {
	l.record(field, outcome{source: source, success: true})
}

// RecordFailure notes that source failed to produce field.
func (l *Ledger) RecordFailure(source string, field plugin.Field, cause error) {
	l.record(field, outcome{source: source, cause: cause})
}

func (l *Ledger) record(field plugin.Field, o outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.byKey[field]
	if !ok {
		entry = &fieldEntry{field: field}
		l.byKey[field] = entry
		l.fields = append(l.fields, entry)
	}
	for i := range entry.outcomes {
		if entry.outcomes[i].source == o.source {
			entry.outcomes[i] = o
			return
		}
	}
	entry.outcomes = append(entry.outcomes, o)
}

// Summary returns one entry per recorded field in first-insertion order.
func (l *Ledger) Summary() []FieldSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]FieldSummary, 0, len(l.fields))
	for _, entry := range l.fields {
		s := FieldSummary{Field: entry.field.String(), Successes: []string{}, Failures: []string{}}
		for _, o := range entry.outcomes {
			if o.success {
				s.Successes = append(s.Successes, o.source)
			} else {
				s.Failures = append(s.Failures, o.source)
			}
		}
		out = append(out, s)
	}
	return out
}

// Failures lists every failed attempt that carries a cause.
func (l *Ledger) Failures() []Failure {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Failure
	for _, entry := range l.fields {
		for _, o := range entry.outcomes {
			if !o.success && o.cause != nil {
				out = append(out, Failure{Field: entry.field, Source: o.source, Cause: o.cause})
			}
		}
	}
	return out
}

// Records flattens Failures for JSON output.
func (l *Ledger) Records() []plugin.FailureRecord {
	failures := l.Failures()
	out := make([]plugin.FailureRecord, len(failures))
	for i, f := range failures {
		out[i] = plugin.FailureRecord{Field: f.Field.String(), Source: f.Source, Cause: f.Cause.Error()}
	}
	return out
}

// Report writes a human-readable dump of every outcome to w.
func (l *Ledger) Report(w io.Writer) error {
	l.mu.Lock()
	var b strings.Builder
	b.WriteString(reportHeader + "\n")
	for _, entry := range l.fields {
		fmt.Fprintf(&b, "Field: %s\n", entry.field)
		for _, o := range entry.outcomes {
			if o.success {
				fmt.Fprintf(&b, "  ✅ %s\n", o.source)
			} else {
				fmt.Fprintf(&b, "  ❌ %s: %v\n", o.source, o.cause)
			}
		}
	}
	b.WriteString(reportFooter + "\n")
	l.mu.Unlock()

	_, err := io.WriteString(w, b.String())
	return err
}
