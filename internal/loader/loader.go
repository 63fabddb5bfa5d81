// Package loader reads local HTML documents into pages. Documents are read
// through a colly collector backed by a file:// transport; the scraper never
// fetches over the network.
package loader

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"github.com/gocolly/colly/v2"

	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// Config holds configuration for the file loader.
type Config struct {
	// MaxBodySize caps the document size in bytes. Zero keeps colly's default.
	MaxBodySize int
	// Timeout bounds a single read.
	Timeout time.Duration
}

// FileLoader reads documents from the local filesystem.
type FileLoader struct {
	collector *colly.Collector
}

// New creates a colly-backed loader restricted to file:// URLs.
func New(cfg Config) *FileLoader {
	t := &http.Transport{}
	t.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))

	c := colly.NewCollector(colly.AllowURLRevisit())
	c.WithTransport(t)
	c.IgnoreRobotsTxt = true
	if cfg.MaxBodySize > 0 {
		c.MaxBodySize = cfg.MaxBodySize
	}
	if cfg.Timeout > 0 {
		c.SetRequestTimeout(cfg.Timeout)
	}
	return &FileLoader{collector: c}
}

func (l *FileLoader) Name() string { return "file" }

// Load reads the document at source, a filesystem path or file:// URL. The
// page URL is taken from the document's canonical link or og:url; callers
// that know the real URL overwrite it.
func (l *FileLoader) Load(ctx context.Context, source string) (*plugin.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := fileURL(source)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	page := &plugin.Page{
		Source:     source,
		LoaderUsed: l.Name(),
		LoadedAt:   start,
	}

	// Clone the collector for this read so callbacks do not pile up.
	c := l.collector.Clone()
	c.Context = ctx

	var (
		body    []byte
		loadErr error
	)
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		loadErr = err
	})

	if err := c.Visit(target); err != nil {
		return nil, errors.Wrapf(err, "load %s", source)
	}
	c.Wait()
	page.LoadDuration = time.Since(start)
	if loadErr != nil {
		return nil, errors.Wrapf(loadErr, "load %s", source)
	}

	if err := fill(page, body); err != nil {
		return nil, err
	}
	return page, nil
}

// Parse builds a page from an in-memory document, e.g. one read from stdin.
func Parse(source string, body []byte) (*plugin.Page, error) {
	page := &plugin.Page{Source: source, LoaderUsed: "memory", LoadedAt: time.Now()}
	if err := fill(page, body); err != nil {
		return nil, err
	}
	page.LoadDuration = time.Since(page.LoadedAt)
	return page, nil
}

func fill(page *plugin.Page, body []byte) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "parse %s", page.Source)
	}
	page.HTML = string(body)
	page.Doc = doc
	page.Size = len(body)
	page.URL = DocumentURL(doc)
	return nil
}

func (l *FileLoader) Close() error { return nil }

// DocumentURL returns the absolute canonical or og:url of doc, or "".
func DocumentURL(doc *goquery.Document) string {
	candidates := []string{
		doc.Find(`link[rel="canonical"]`).First().AttrOr("href", ""),
		doc.Find(`meta[property="og:url"]`).First().AttrOr("content", ""),
	}
	for _, raw := range candidates {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err == nil && u.IsAbs() && u.Host != "" {
			return u.String()
		}
	}
	return ""
}

func fileURL(source string) (string, error) {
	if strings.HasPrefix(source, "file://") {
		return source, nil
	}
	if strings.Contains(source, "://") {
		return "", errors.Newf("unsupported source %q: only local files can be loaded", source)
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", source)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
