// Package plugin defines the public interfaces for the recipe scraper.
// External tools can import this package to write custom field extractors,
// post-processors, site overrides, loaders, or output writers without
// forking the project.
package plugin

import (
	"context"
	"encoding/json"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ---------- Core Data Types ----------

// Page is one loaded HTML document together with its parsed tree.
type Page struct {
	URL          string            `json:"url"`
	Source       string            `json:"source"`
	HTML         string            `json:"-"`
	Doc          *goquery.Document `json:"-"`
	LoadedAt     time.Time         `json:"loaded_at"`
	LoadDuration time.Duration     `json:"load_duration"`
	LoaderUsed   string            `json:"loader_used"`
	Size         int               `json:"size"`
}

// ScrapeResult holds the outcome of scraping a single page in a batch run.
type ScrapeResult struct {
	Source   string          `json:"source"`
	URL      string          `json:"url"`
	Recipe   json.RawMessage `json:"recipe,omitempty"`
	Failures []FailureRecord `json:"failures,omitempty"`
	Error    string          `json:"error,omitempty"`
	Cached   bool            `json:"cached"`
	Duration time.Duration   `json:"duration"`
}

// FailureRecord is one failed extraction attempt, flattened for output.
type FailureRecord struct {
	Field  string `json:"field"`
	Source string `json:"source"`
	Cause  string `json:"cause"`
}

// RunSummary is the final aggregated output of a batch run.
type RunSummary struct {
	RunID         string         `json:"run_id"`
	Root          string         `json:"root"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    time.Time      `json:"finished_at"`
	Duration      time.Duration  `json:"duration"`
	TotalPages    int            `json:"total_pages"`
	TotalErrors   int            `json:"total_errors"`
	CacheHits     int            `json:"cache_hits"`
	FailureFields map[string]int `json:"failure_fields"`
	Results       []ScrapeResult `json:"results"`
}

// ---------- Event Types ----------

// RunEvent represents a real-time event emitted by the batch runner.
type RunEvent struct {
	Type    EventType
	Source  string
	Result  *ScrapeResult
	Error   error
	Stats   *RunStats
	Message string
}

// EventType identifies the kind of event.
type EventType int

const (
	EventPageQueued EventType = iota
	EventPageStarted
	EventPageDone
	EventPageError
	EventRunStarted
	EventRunFinished
)

// RunStats holds real-time batch statistics.
type RunStats struct {
	PagesQueued   int            `json:"pages_queued"`
	PagesScraped  int            `json:"pages_scraped"`
	PagesErrored  int            `json:"pages_errored"`
	CacheHits     int            `json:"cache_hits"`
	FailureFields map[string]int `json:"failure_fields"`
	Elapsed       time.Duration  `json:"elapsed"`
	PagesPerSec   float64        `json:"pages_per_sec"`
}

// ---------- Plugin Interfaces ----------

// Extractor resolves values for the fields it declares.
type Extractor interface {
	// Name identifies the plugin in diagnostics (e.g., "SchemaOrgPlugin").
	Name() string

	// Priority orders plugins; higher runs first.
	Priority() int

	// Supports reports whether the plugin can extract field.
	Supports(field Field) bool

	// Extract returns the value for field, or an error that the engine records.
	Extract(ctx context.Context, field Field) (any, error)
}

// PostProcessor transforms a resolved field value.
type PostProcessor interface {
	Name() string
	Priority() int
	ShouldProcess(field Field) bool
	Process(ctx context.Context, field Field, value any) (any, error)
}

// OverrideFunc replaces or refines the value produced by the plugin chain.
// prev is nil when no plugin produced a value.
type OverrideFunc func(ctx context.Context, page *Page, prev any) (any, error)

// Site is a per-host override table.
type Site struct {
	// Name is recorded in diagnostics for override outcomes.
	Name string
	// Host is the canonical host, without "www.".
	Host      string
	Overrides map[Field]OverrideFunc
}

// Override returns the override for field, if any.
func (s *Site) Override(field Field) (OverrideFunc, bool) {
	if s == nil || s.Overrides == nil {
		return nil, false
	}
	fn, ok := s.Overrides[field]
	return fn, ok
}

// Loader defines how pages are read into memory.
type Loader interface {
	// Name returns a human-readable identifier for this loader.
	Name() string

	// Load reads the document at source and parses it.
	Load(ctx context.Context, source string) (*Page, error)

	// Close releases any resources held by the loader.
	Close() error
}

// OutputWriter defines how batch results are persisted.
type OutputWriter interface {
	// Name returns a human-readable identifier for this writer.
	Name() string

	// WriteResult writes a single page's result (called incrementally).
	WriteResult(result *ScrapeResult) error

	// Finalize writes the final summary and closes resources.
	Finalize(summary *RunSummary) error
}
