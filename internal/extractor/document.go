package extractor

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/ramkansal/recipe-scrapers/internal/parsing"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// FallbackLanguage is reported when the document declares no language.
const FallbackLanguage = "en"

// DocumentPlugin reads page-level fields from the markup and the page URL:
// canonical URL, language, outbound links and host. It runs last so that
// structured data always takes precedence.
type DocumentPlugin struct {
	doc          *goquery.Document
	pageURL      string
	linksEnabled bool
	log          zerolog.Logger
}

func NewDocumentPlugin(doc *goquery.Document, pageURL string, linksEnabled bool, log zerolog.Logger) *DocumentPlugin {
	return &DocumentPlugin{
		doc:          doc,
		pageURL:      pageURL,
		linksEnabled: linksEnabled,
		log:          log.With().Str("component", "document").Logger(),
	}
}

func (p *DocumentPlugin) Name() string  { return "DocumentPlugin" }
func (p *DocumentPlugin) Priority() int { return 10 }

func (p *DocumentPlugin) Supports(field plugin.Field) bool {
	switch field {
	case plugin.FieldCanonicalURL, plugin.FieldLanguage, plugin.FieldLinks, plugin.FieldHost:
		return true
	}
	return false
}

func (p *DocumentPlugin) Extract(_ context.Context, field plugin.Field) (any, error) {
	switch field {
	case plugin.FieldCanonicalURL:
		return p.canonicalURL()
	case plugin.FieldLanguage:
		return p.language(), nil
	case plugin.FieldLinks:
		return p.links(), nil
	case plugin.FieldHost:
		host, err := parsing.HostName(p.pageURL)
		if err != nil {
			return nil, plugin.Invalid(field, p.pageURL)
		}
		return host, nil
	}
	return nil, plugin.Unsupported(field)
}

// canonicalURL resolves link[rel=canonical] against the page URL, falling
// back to the page URL itself.
func (p *DocumentPlugin) canonicalURL() (string, error) {
	base, err := parsing.ParseURL(p.pageURL)
	if err != nil {
		return "", plugin.Invalid(plugin.FieldCanonicalURL, p.pageURL)
	}
	if p.doc != nil {
		if href, ok := p.doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
			if resolved := resolveURL(base, strings.TrimSpace(href)); resolved != "" {
				return resolved, nil
			}
		}
	}
	return base.String(), nil
}

// language reads html[lang], then the content-language header meta.
func (p *DocumentPlugin) language() string {
	var lang string
	if p.doc != nil {
		lang = strings.TrimSpace(p.doc.Find("html").AttrOr("lang", ""))
		if lang == "" {
			p.doc.Find("meta[http-equiv]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if !strings.EqualFold(s.AttrOr("http-equiv", ""), "content-language") {
					return true
				}
				lang = strings.TrimSpace(strings.Split(s.AttrOr("content", ""), ",")[0])
				return false
			})
		}
	}
	if lang == "" {
		p.log.Warn().Str("fallback", FallbackLanguage).Msg("could not determine language")
		return FallbackLanguage
	}
	if tag, err := language.Parse(lang); err == nil {
		return tag.String()
	}
	return lang
}

// links returns absolute http(s) anchors in document order, one per href.
func (p *DocumentPlugin) links() []plugin.Link {
	links := []plugin.Link{}
	if !p.linksEnabled || p.doc == nil {
		return links
	}
	base, _ := parsing.ParseURL(p.pageURL)

	seen := make(map[string]bool)
	p.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "tel:") {
			return
		}

		resolved := resolveURL(base, href)
		if !strings.HasPrefix(resolved, "http") || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, plugin.Link{Href: resolved, Text: parsing.NormalizeString(s.Text())})
	})
	return links
}

// resolveURL resolves a potentially relative URL against a base URL.
func resolveURL(base *url.URL, raw string) string {
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
