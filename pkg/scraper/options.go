package scraper

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ramkansal/recipe-scrapers/internal/logging"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// LogLevel is the verbosity of a scraper's logger.
type LogLevel = logging.Level

const (
	LogWarn    = logging.LevelWarn
	LogVerbose = logging.LevelVerbose
	LogDebug   = logging.LevelDebug
	LogInfo    = logging.LevelInfo
	LogError   = logging.LevelError
)

// SiteLookup finds the override table for a host.
type SiteLookup func(host string) (*plugin.Site, bool)

// Options configures a Scraper. The zero value scrapes generically with the
// built-in site catalog and logs warnings to stderr.
type Options struct {
	// ExtraExtractors are composed with the built-in plugins by priority.
	ExtraExtractors []plugin.Extractor
	// ExtraPostProcessors are composed with the HTML stripper by priority.
	ExtraPostProcessors []plugin.PostProcessor

	// LinksEnabled turns on anchor collection for the links field.
	LinksEnabled bool

	LogLevel LogLevel
	// Logger replaces the default console logger; LogLevel is then ignored.
	Logger *zerolog.Logger

	// ParallelFields extracts all fields concurrently in Scrape.
	ParallelFields bool

	// Site forces an override table instead of looking one up by host.
	Site *plugin.Site
	// Sites resolves the override table when Site is nil. Defaults to the
	// built-in catalog.
	Sites SiteLookup
	// RequireSite makes New fail for hosts without a site module.
	RequireSite bool
}

// Fingerprint describes the options that change the scraped record: links,
// site requirements, a forced site and extra plugins. Loggers, concurrency
// and the Sites lookup are not part of it.
func (o Options) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "links=%t;require_site=%t", o.LinksEnabled, o.RequireSite)
	if o.Site != nil {
		fmt.Fprintf(&b, ";site=%s@%s", o.Site.Name, o.Site.Host)
	}
	for _, ext := range o.ExtraExtractors {
		fmt.Fprintf(&b, ";extractor=%s/%d", ext.Name(), ext.Priority())
	}
	for _, pp := range o.ExtraPostProcessors {
		fmt.Fprintf(&b, ";post=%s/%d", pp.Name(), pp.Priority())
	}
	return b.String()
}
