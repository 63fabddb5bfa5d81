// Package ingredients rebuilds ingredient groups from a page's markup and
// reconciles them with an already extracted flat list.
package ingredients

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/ramkansal/recipe-scrapers/internal/parsing"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// Selectors names the group heading and ingredient item elements.
type Selectors struct {
	Heading string `yaml:"heading"`
	Item    string `yaml:"item"`
}

func (s Selectors) empty() bool {
	return s.Heading == "" || s.Item == ""
}

// selectorFamily lists heading and item candidates for one recipe card plugin.
type selectorFamily struct {
	name     string
	headings []string
	items    []string
}

// defaultFamilies covers WP Recipe Maker and Tasty Recipes cards.
var defaultFamilies = []selectorFamily{
	{
		name:     "wprm",
		headings: []string{".wprm-recipe-ingredient-group h4", ".wprm-recipe-group-name"},
		items:    []string{".wprm-recipe-ingredient", ".wprm-recipe-ingredients li"},
	},
	{
		name:     "tasty",
		headings: []string{".tasty-recipes-ingredients-body p strong", ".tasty-recipes-ingredients h4"},
		items:    []string{".tasty-recipes-ingredients-body ul li", ".tasty-recipes-ingredients ul li"},
	},
}

// findSelectors returns the first pair that matches at least one element
// each. Explicit selectors are never replaced by the defaults.
func findSelectors(doc *goquery.Document, sel Selectors) (Selectors, bool) {
	matches := func(s Selectors) bool {
		return doc.Find(s.Heading).Length() > 0 && doc.Find(s.Item).Length() > 0
	}
	if !sel.empty() {
		return sel, matches(sel)
	}
	for _, fam := range defaultFamilies {
		for _, h := range fam.headings {
			for _, it := range fam.items {
				if cand := (Selectors{Heading: h, Item: it}); matches(cand) {
					return cand, true
				}
			}
		}
	}
	return Selectors{}, false
}

// Group partitions list by the headings found in doc. Each DOM item is
// mapped to its closest string in list, so the returned groups always hold
// the caller's text. When no selector pair matches, list is returned flat.
// Zero-value sel falls back to the built-in card selectors.
func Group(doc *goquery.Document, list *plugin.List, sel Selectors) (plugin.Ingredients, error) {
	flat := plugin.IngredientList{List: list}
	if doc == nil {
		return flat, nil
	}
	sel, ok := findSelectors(doc, sel)
	if !ok {
		return flat, nil
	}

	found := plugin.NewList()
	doc.Find(sel.Item).Each(func(_ int, s *goquery.Selection) {
		if text := parsing.NormalizeString(s.Text()); text != "" {
			found.Add(text)
		}
	})
	if found.Len() != list.Len() {
		return nil, &plugin.GroupingError{Found: found.Len(), Expected: list.Len()}
	}

	candidates := list.Items()
	groups := plugin.NewIngredientGroups()
	current := ""

	doc.Find(sel.Heading + ", " + sel.Item).Each(func(_ int, s *goquery.Selection) {
		if s.Is(sel.Heading) {
			current = parsing.NormalizeString(s.Text())
			if current == "" {
				current = plugin.DefaultGroupName
			}
			groups.Group(current)
			return
		}

		text := parsing.NormalizeString(s.Text())
		if text == "" {
			return
		}
		heading := current
		if heading == "" {
			heading = plugin.DefaultGroupName
		}
		groups.Group(heading).Add(BestMatch(text, candidates))
	})
	return groups, nil
}
