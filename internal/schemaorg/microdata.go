package schemaorg

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ramkansal/recipe-scrapers/internal/parsing"
)

const recipeScopeSelector = `[itemtype*="schema.org/Recipe"], [itemtype*="Recipe"]`

var itemTypeRe = regexp.MustCompile(`schema\.org/(\w+)`)

// scanMicrodata converts every element matching selector into an Entity.
// Properties of nested item scopes are folded one level deep into an object
// under the nesting property; they never leak into the outer object.
func scanMicrodata(doc *goquery.Document, selector string) []Entity {
	var out []Entity
	doc.Find(selector).Each(func(_ int, root *goquery.Selection) {
		obj := Entity{}
		if t := schemaType(root); t != "" {
			obj["@type"] = t
		}

		root.Find("[itemprop]").Each(func(_ int, prop *goquery.Selection) {
			if prop.ParentsUntilSelection(root).Filter("[itemtype]").Length() > 0 {
				return
			}
			names := strings.Fields(prop.AttrOr("itemprop", ""))
			if len(names) == 0 {
				return
			}

			var value any
			if _, nested := prop.Attr("itemtype"); nested {
				child := Entity{}
				if t := schemaType(prop); t != "" {
					child["@type"] = t
				}
				prop.Find("[itemprop]").Each(func(_ int, inner *goquery.Selection) {
					if v := elementValue(inner); v != "" {
						for _, n := range strings.Fields(inner.AttrOr("itemprop", "")) {
							addProperty(child, n, v)
						}
					}
				})
				value = child
			} else if v := elementValue(prop); v != "" {
				value = v
			}
			if value == nil {
				return
			}
			for _, n := range names {
				addProperty(obj, n, value)
			}
		})

		if len(obj) > 1 || (len(obj) == 1 && obj["@type"] == nil) {
			out = append(out, obj)
		}
	})
	return out
}

func schemaType(s *goquery.Selection) string {
	itemType := strings.TrimSpace(s.AttrOr("itemtype", ""))
	if itemType == "" {
		return ""
	}
	if m := itemTypeRe.FindStringSubmatch(itemType); m != nil {
		return m[1]
	}
	parts := strings.Split(strings.TrimRight(itemType, "/"), "/")
	return parts[len(parts)-1]
}

// elementValue reads a property value the way microdata defines it per element.
func elementValue(s *goquery.Selection) string {
	if content, ok := s.Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	switch {
	case s.Is("time"):
		if dt := strings.TrimSpace(s.AttrOr("datetime", "")); dt != "" {
			return dt
		}
	case s.Is("img"), s.Is("source"):
		return strings.TrimSpace(s.AttrOr("src", ""))
	case s.Is("a"), s.Is("link"):
		return strings.TrimSpace(s.AttrOr("href", ""))
	}
	return parsing.NormalizeString(s.Text())
}

// addProperty sets key, turning repeated keys into arrays.
func addProperty(obj Entity, key string, value any) {
	switch cur := obj[key].(type) {
	case nil:
		obj[key] = value
	case []any:
		obj[key] = append(cur, value)
	default:
		obj[key] = []any{cur, value}
	}
}
