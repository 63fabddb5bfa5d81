package extractor

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// OpenGraphPlugin reads the og:image and og:site_name meta tags.
type OpenGraphPlugin struct {
	doc *goquery.Document
}

func NewOpenGraphPlugin(doc *goquery.Document) *OpenGraphPlugin {
	return &OpenGraphPlugin{doc: doc}
}

func (p *OpenGraphPlugin) Name() string  { return "OpenGraphPlugin" }
func (p *OpenGraphPlugin) Priority() int { return 60 }

func (p *OpenGraphPlugin) Supports(field plugin.Field) bool {
	return field == plugin.FieldImage || field == plugin.FieldSiteName
}

func (p *OpenGraphPlugin) Extract(_ context.Context, field plugin.Field) (any, error) {
	switch field {
	case plugin.FieldImage:
		image := p.meta(`meta[property="og:image"][content]`)
		if !strings.HasPrefix(image, "http") {
			return nil, plugin.Missing(field)
		}
		return image, nil
	case plugin.FieldSiteName:
		name := p.meta(`meta[property="og:site_name"]`)
		if name == "" {
			name = p.meta(`meta[name="og:site_name"]`)
		}
		if name == "" {
			return nil, plugin.Missing(field)
		}
		return name, nil
	}
	return nil, plugin.Unsupported(field)
}

func (p *OpenGraphPlugin) meta(selector string) string {
	if p.doc == nil {
		return ""
	}
	content, _ := p.doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
