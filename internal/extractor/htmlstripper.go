package extractor

import (
	"context"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/ramkansal/recipe-scrapers/internal/parsing"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// HTMLStripper removes markup and decodes entities left in text fields by
// sources that embed HTML in structured data.
type HTMLStripper struct{}

func NewHTMLStripper() *HTMLStripper { return &HTMLStripper{} }

func (p *HTMLStripper) Name() string  { return "HtmlStripper" }
func (p *HTMLStripper) Priority() int { return 100 }

func (p *HTMLStripper) ShouldProcess(field plugin.Field) bool {
	switch field {
	case plugin.FieldTitle, plugin.FieldInstructions, plugin.FieldIngredients:
		return true
	}
	return false
}

func (p *HTMLStripper) Process(_ context.Context, _ plugin.Field, value any) (any, error) {
	switch v := value.(type) {
	case string:
		return StripHTML(v), nil
	case *plugin.List:
		return stripList(v), nil
	case plugin.IngredientList:
		return plugin.IngredientList{List: stripList(v.List)}, nil
	case plugin.IngredientGroups:
		out := plugin.NewIngredientGroups()
		for pair := v.Groups.Oldest(); pair != nil; pair = pair.Next() {
			name := StripHTML(pair.Key)
			if name == "" {
				name = plugin.DefaultGroupName
			}
			group := out.Group(name)
			for _, item := range pair.Value.Items() {
				if s := StripHTML(item); s != "" {
					group.Add(s)
				}
			}
		}
		return out, nil
	}
	return value, nil
}

func stripList(l *plugin.List) *plugin.List {
	out := plugin.NewList()
	for _, item := range l.Items() {
		if s := StripHTML(item); s != "" {
			out.Add(s)
		}
	}
	return out
}

// StripHTML drops tags and comments from s and decodes entities. Text that
// holds no markup is returned trimmed.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return parsing.NormalizeString(b.String())
			}
			return strings.TrimSpace(s)
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if isBlockTag(string(name)) {
				b.WriteByte(' ')
			}
		}
	}
}

func isBlockTag(name string) bool {
	switch name {
	case "br", "p", "div", "li", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}
