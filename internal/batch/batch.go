// Package batch scrapes many local documents concurrently, emitting
// progress events and writing every result to an output writer.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ramkansal/recipe-scrapers/internal/cache"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
	"github.com/ramkansal/recipe-scrapers/pkg/scraper"
)

// Config holds everything a batch run needs.
type Config struct {
	// Root is a directory searched with Glob, or a single file.
	Root string
	Glob string
	// Parallelism bounds the number of documents scraped at once.
	Parallelism int
	// FallbackURL is used for documents without a canonical link or og:url.
	FallbackURL string

	Options scraper.Options

	// CacheVariant is folded into cache keys next to the options
	// fingerprint, e.g. a digest of the site definitions file.
	CacheVariant string

	Loader  plugin.Loader
	Store   cache.Store
	Writer  plugin.OutputWriter
	Logger  zerolog.Logger
}

// Runner executes one batch run.
type Runner struct {
	config Config
	runID  string
	log    zerolog.Logger
	events chan plugin.RunEvent

	stats     plugin.RunStats
	statsMu   sync.Mutex
	startTime time.Time

	stopped bool
	stopMu  sync.Mutex
}

// New creates a runner. Loader is required.
func New(config Config) (*Runner, error) {
	if config.Loader == nil {
		return nil, errors.New("batch: a loader is required")
	}
	if config.Parallelism <= 0 {
		config.Parallelism = 1
	}
	if config.Glob == "" {
		config.Glob = "*.html"
	}
	runID := uuid.New().String()
	return &Runner{
		config: config,
		runID:  runID,
		log:    config.Logger.With().Str("component", "batch").Str("run_id", runID).Logger(),
		events: make(chan plugin.RunEvent, 1000),
		stats: plugin.RunStats{
			FailureFields: make(map[string]int),
		},
	}, nil
}

// RunID identifies this run in logs and the summary.
func (r *Runner) RunID() string { return r.runID }

// Events returns the progress stream. It is closed when Run returns.
func (r *Runner) Events() <-chan plugin.RunEvent { return r.events }

// Stop makes Run skip documents that have not started yet.
func (r *Runner) Stop() {
	r.stopMu.Lock()
	defer r.stopMu.Unlock()
	r.stopped = true
}

func (r *Runner) isStopped() bool {
	r.stopMu.Lock()
	defer r.stopMu.Unlock()
	return r.stopped
}

// Run scrapes every matching document and blocks until all are done.
// Per-document failures are reported in the results, not returned.
func (r *Runner) Run(ctx context.Context) (*plugin.RunSummary, error) {
	defer close(r.events)
	r.startTime = time.Now()

	sources, err := r.sources()
	if err != nil {
		return nil, err
	}
	r.statsMu.Lock()
	r.stats.PagesQueued = len(sources)
	r.statsMu.Unlock()

	r.emit(plugin.RunEvent{
		Type:    plugin.EventRunStarted,
		Source:  r.config.Root,
		Message: fmt.Sprintf("Scraping %d documents from %s", len(sources), r.config.Root),
	})
	r.log.Info().Int("documents", len(sources)).Msg("batch started")

	results := make([]plugin.ScrapeResult, len(sources))
	done := make([]bool, len(sources))

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.config.Parallelism)
	for i, src := range sources {
		if r.isStopped() || ctx.Err() != nil {
			break
		}
		r.emit(plugin.RunEvent{Type: plugin.EventPageQueued, Source: src})

		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = r.process(ctx, src)
			done[i] = true
		}()
	}
	wg.Wait()

	summary := r.buildSummary(results, done)
	if r.config.Writer != nil {
		if err := r.config.Writer.Finalize(summary); err != nil {
			r.emit(plugin.RunEvent{
				Type:    plugin.EventPageError,
				Error:   err,
				Message: "Failed to write output: " + err.Error(),
			})
			return summary, errors.Wrap(err, "finalize output")
		}
	}

	r.emit(plugin.RunEvent{
		Type:    plugin.EventRunFinished,
		Stats:   r.getStats(),
		Message: fmt.Sprintf("Batch complete. %d scraped, %d errors.", summary.TotalPages, summary.TotalErrors),
	})
	r.log.Info().Int("scraped", summary.TotalPages).Int("errors", summary.TotalErrors).
		Int("cache_hits", summary.CacheHits).Dur("elapsed", summary.Duration).Msg("batch finished")
	return summary, ctx.Err()
}

// sources lists the documents under Root in lexical order.
func (r *Runner) sources() ([]string, error) {
	info, err := os.Stat(r.config.Root)
	if err != nil {
		return nil, errors.Wrapf(err, "batch root %s", r.config.Root)
	}
	if !info.IsDir() {
		return []string{r.config.Root}, nil
	}
	matches, err := filepath.Glob(filepath.Join(r.config.Root, r.config.Glob))
	if err != nil {
		return nil, errors.Wrapf(err, "glob %s", r.config.Glob)
	}
	sort.Strings(matches)
	return matches, nil
}

// process loads and scrapes a single document.
func (r *Runner) process(ctx context.Context, src string) plugin.ScrapeResult {
	start := time.Now()
	r.emit(plugin.RunEvent{Type: plugin.EventPageStarted, Source: src})

	result := plugin.ScrapeResult{Source: src}
	fail := func(err error) plugin.ScrapeResult {
		result.Error = err.Error()
		result.Duration = time.Since(start)
		r.record(&result)
		r.emit(plugin.RunEvent{
			Type:    plugin.EventPageError,
			Source:  src,
			Result:  &result,
			Error:   err,
			Message: fmt.Sprintf("Error scraping %s: %v", src, err),
		})
		r.log.Debug().Err(err).Str("source", src).Msg("document failed")
		return result
	}

	page, err := r.config.Loader.Load(ctx, src)
	if err != nil {
		return fail(err)
	}
	if page.URL == "" {
		page.URL = r.config.FallbackURL
	}
	result.URL = page.URL

	key := cache.Key(page.URL, page.HTML, r.config.Options.Fingerprint(), r.config.CacheVariant)
	if r.config.Store != nil {
		cached, ok, err := r.config.Store.Get(ctx, key)
		if err != nil {
			r.log.Warn().Err(err).Str("source", src).Msg("cache read failed")
		}
		if ok {
			cached.Source = src
			cached.Cached = true
			cached.Duration = time.Since(start)
			r.record(cached)
			r.emit(plugin.RunEvent{Type: plugin.EventPageDone, Source: src, Result: cached, Stats: r.getStats()})
			return *cached
		}
	}

	s, err := scraper.NewFromPage(page, r.config.Options)
	if err != nil {
		return fail(err)
	}
	obj, scrapeErr := s.ToObject(ctx)
	result.Failures = s.Diagnostics().Records()
	if scrapeErr != nil {
		return fail(scrapeErr)
	}
	recipe, err := json.Marshal(obj)
	if err != nil {
		return fail(errors.Wrap(err, "encode recipe"))
	}
	result.Recipe = recipe
	result.Duration = time.Since(start)

	if r.config.Store != nil {
		if err := r.config.Store.Set(ctx, key, &result); err != nil {
			r.log.Warn().Err(err).Str("source", src).Msg("cache write failed")
		}
	}
	r.record(&result)
	r.emit(plugin.RunEvent{Type: plugin.EventPageDone, Source: src, Result: &result, Stats: r.getStats()})
	return result
}

// record writes the result and folds it into the stats.
func (r *Runner) record(result *plugin.ScrapeResult) {
	if r.config.Writer != nil {
		if err := r.config.Writer.WriteResult(result); err != nil {
			r.log.Warn().Err(err).Str("source", result.Source).Msg("write result failed")
		}
	}

	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	if result.Error != "" {
		r.stats.PagesErrored++
	} else {
		r.stats.PagesScraped++
	}
	if result.Cached {
		r.stats.CacheHits++
	}
	for _, f := range result.Failures {
		r.stats.FailureFields[f.Field]++
	}
	elapsed := time.Since(r.startTime)
	r.stats.Elapsed = elapsed
	if elapsed.Seconds() > 0 {
		r.stats.PagesPerSec = float64(r.stats.PagesScraped+r.stats.PagesErrored) / elapsed.Seconds()
	}
}

// emit sends an event without blocking; events are dropped when the
// consumer falls behind.
func (r *Runner) emit(event plugin.RunEvent) {
	select {
	case r.events <- event:
	default:
	}
}

// getStats returns a copy of the current stats.
func (r *Runner) getStats() *plugin.RunStats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()

	statsCopy := r.stats
	fields := make(map[string]int, len(r.stats.FailureFields))
	for k, v := range r.stats.FailureFields {
		fields[k] = v
	}
	statsCopy.FailureFields = fields
	return &statsCopy
}

func (r *Runner) buildSummary(results []plugin.ScrapeResult, done []bool) *plugin.RunSummary {
	stats := r.getStats()
	finished := make([]plugin.ScrapeResult, 0, len(results))
	for i, res := range results {
		if done[i] {
			finished = append(finished, res)
		}
	}
	return &plugin.RunSummary{
		RunID:         r.runID,
		Root:          r.config.Root,
		StartedAt:     r.startTime,
		FinishedAt:    time.Now(),
		Duration:      time.Since(r.startTime),
		TotalPages:    stats.PagesScraped,
		TotalErrors:   stats.PagesErrored,
		CacheHits:     stats.CacheHits,
		FailureFields: stats.FailureFields,
		Results:       finished,
	}
}
