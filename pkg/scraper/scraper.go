// Package scraper is the public entry point: it turns one HTML document into
// a recipe record by running the extraction engine over every field.
package scraper

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ramkansal/recipe-scrapers/internal/diagnostics"
	"github.com/ramkansal/recipe-scrapers/internal/engine"
	"github.com/ramkansal/recipe-scrapers/internal/extractor"
	"github.com/ramkansal/recipe-scrapers/internal/logging"
	"github.com/ramkansal/recipe-scrapers/internal/parsing"
	"github.com/ramkansal/recipe-scrapers/internal/schemaorg"
	"github.com/ramkansal/recipe-scrapers/internal/sites"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// GenericName attributes override outcomes when no site module applies.
const GenericName = "GenericScraper"

// Scraper extracts a recipe from one document. Scrape caches its record, so
// a Scraper is meant to be used for a single page.
type Scraper struct {
	page     *plugin.Page
	host     string
	site     *plugin.Site
	opts     Options
	log      zerolog.Logger
	ledger   *diagnostics.Ledger
	registry *extractor.Registry
	engine   *engine.Engine

	mu     sync.Mutex
	record *plugin.RecipeData
}

// New parses html and prepares the plugin chain for pageURL. It fails when
// the URL has no host or, with RequireSite, when no site module matches.
func New(html, pageURL string, opts Options) (*Scraper, error) {
	start := time.Now()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(err, "parse html")
	}
	return NewFromPage(&plugin.Page{
		URL:          pageURL,
		Source:       pageURL,
		HTML:         html,
		Doc:          doc,
		LoadedAt:     start,
		LoadDuration: time.Since(start),
		LoaderUsed:   "string",
		Size:         len(html),
	}, opts)
}

// NewFromPage builds a scraper for an already loaded page.
func NewFromPage(page *plugin.Page, opts Options) (*Scraper, error) {
	if page == nil || page.Doc == nil {
		return nil, errors.New("page has no document")
	}
	host, err := parsing.HostName(page.URL)
	if err != nil {
		return nil, errors.Wrap(err, "page url")
	}
	site, err := resolveSite(host, opts)
	if err != nil {
		return nil, err
	}

	name := GenericName
	if site != nil && site.Name != "" {
		name = site.Name
	}
	log := logging.Console(opts.LogLevel)
	if opts.Logger != nil {
		log = *opts.Logger
	}
	log = log.With().Str("component", "scraper").Str("scraper", name).Str("host", host).Logger()

	return newScraper(page, host, site, name, opts, log), nil
}

func resolveSite(host string, opts Options) (*plugin.Site, error) {
	if opts.Site != nil {
		return opts.Site, nil
	}
	lookup := opts.Sites
	if lookup == nil {
		lookup = sites.Lookup
	}
	if s, ok := lookup(host); ok {
		return s, nil
	}
	if opts.RequireSite {
		return nil, errors.Mark(errors.Newf("%s is not currently supported", host), plugin.ErrUnsupportedSite)
	}
	return nil, nil
}

func newScraper(page *plugin.Page, host string, site *plugin.Site, name string, opts Options, log zerolog.Logger) *Scraper {
	ledger := diagnostics.New()
	registry := extractor.Compose(
		[]plugin.Extractor{
			schemaorg.NewPlugin(page.Doc, log),
			extractor.NewOpenGraphPlugin(page.Doc),
			extractor.NewDocumentPlugin(page.Doc, page.URL, opts.LinksEnabled, log),
		},
		[]plugin.PostProcessor{extractor.NewHTMLStripper()},
		opts.ExtraExtractors,
		opts.ExtraPostProcessors,
	)

	log.Debug().Strs("extractors", registry.Names()).Msg("scraper ready")
	return &Scraper{
		page:     page,
		host:     host,
		site:     site,
		opts:     opts,
		log:      log,
		ledger:   ledger,
		registry: registry,
		engine:   engine.New(name, registry.Extractors(), ledger, log),
	}
}

// Extract resolves one field: engine first, then every post-processor that
// accepts the field. A failing post-processor is recorded and skipped.
func (s *Scraper) Extract(ctx context.Context, field plugin.Field) (any, error) {
	var override engine.Override
	if fn, ok := s.site.Override(field); ok {
		override = func(ctx context.Context, prev any) (any, error) {
			return fn(ctx, s.page, prev)
		}
	}

	value, err := s.engine.Extract(ctx, field, override)
	if err != nil {
		return nil, err
	}

	for _, pp := range s.registry.PostProcessors() {
		if !pp.ShouldProcess(field) {
			continue
		}
		v, err := pp.Process(ctx, field, value)
		switch {
		case err != nil:
			s.log.Debug().Err(err).Str("processor", pp.Name()).Stringer("field", field).Msg("post-processor failed")
			s.ledger.RecordFailure(pp.Name(), field, err)
		case !plugin.CheckValue(field, v):
			s.ledger.RecordFailure(pp.Name(), field, plugin.Invalid(field, v))
		default:
			value = v
		}
	}
	return value, nil
}

// Scrape extracts every field into a record. The record is computed once;
// later calls return the cached value.
func (s *Scraper) Scrape(ctx context.Context) (*plugin.RecipeData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record != nil {
		return s.record, nil
	}

	fields := plugin.AllFields()
	values := make([]any, len(fields))

	if s.opts.ParallelFields {
		g, gctx := errgroup.WithContext(ctx)
		for i, f := range fields {
			g.Go(func() error {
				v, err := s.Extract(gctx, f)
				values[i] = v
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, f := range fields {
			v, err := s.Extract(ctx, f)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
	}

	record := &plugin.RecipeData{}
	for i, f := range fields {
		if err := record.Set(f, values[i]); err != nil {
			return nil, err
		}
	}
	s.record = record
	s.log.Info().Int("failures", len(s.ledger.Failures())).Msg("recipe scraped")
	return record, nil
}

// ToObject scrapes (or reuses the cached record) and returns its
// serializable form.
func (s *Scraper) ToObject(ctx context.Context) (*plugin.RecipeObject, error) {
	record, err := s.Scrape(ctx)
	if err != nil {
		return nil, err
	}
	return record.ToObject(), nil
}

// Diagnostics returns the ledger of every extraction attempt so far.
func (s *Scraper) Diagnostics() *diagnostics.Ledger { return s.ledger }

// Host returns the site module's host, or the page's hostname.
func (s *Scraper) Host() string {
	if s.site != nil && s.site.Host != "" {
		return s.site.Host
	}
	return s.host
}

// Site returns the applied override table, or nil for generic scraping.
func (s *Scraper) Site() *plugin.Site { return s.site }

// Extractors returns the names of the composed extractor chain.
func (s *Scraper) Extractors() []string { return s.registry.Names() }
