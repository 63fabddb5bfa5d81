package sites

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"github.com/ramkansal/recipe-scrapers/internal/ingredients"
	"github.com/ramkansal/recipe-scrapers/internal/parsing"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// ErrNothingToGroup is returned by grouping overrides when the plugin chain
// produced no flat ingredient list.
var ErrNothingToGroup = errors.New("no ingredients found to group")

// GroupIngredients regroups a flat ingredient list using sel.
func GroupIngredients(sel ingredients.Selectors) plugin.OverrideFunc {
	return func(_ context.Context, page *plugin.Page, prev any) (any, error) {
		flat, ok := prev.(plugin.IngredientList)
		if !ok || flat.List.Len() == 0 {
			return nil, ErrNothingToGroup
		}
		return ingredients.Group(page.Doc, flat.List, sel)
	}
}

// SelectInstructions reads one step per element matched by selector, after
// removing elements matched by remove. With no match the previous value is kept.
func SelectInstructions(selector, remove string) plugin.OverrideFunc {
	return func(_ context.Context, page *plugin.Page, prev any) (any, error) {
		steps := plugin.NewList()
		page.Doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			clone := s.Clone()
			if remove != "" {
				clone.Find(remove).Remove()
			}
			if text := parsing.NormalizeString(clone.Text()); text != "" {
				steps.Add(text)
			}
		})
		if steps.Len() > 0 {
			return steps, nil
		}
		return keepPrevious(plugin.FieldInstructions, prev)
	}
}

// SplitInstructionBlock reads the elements matched by selector as one block
// of text and splits it into steps on paragraphs, else on sentence ends.
// Child paragraphs and list items count as paragraphs.
func SplitInstructionBlock(selector, remove string) plugin.OverrideFunc {
	return func(_ context.Context, page *plugin.Page, prev any) (any, error) {
		var paragraphs []string
		page.Doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			clone := s.Clone()
			if remove != "" {
				clone.Find(remove).Remove()
			}
			children := clone.Find("p, li")
			if children.Length() == 0 {
				paragraphs = append(paragraphs, clone.Text())
				return
			}
			children.Each(func(_ int, c *goquery.Selection) {
				paragraphs = append(paragraphs, c.Text())
			})
		})

		steps := plugin.NewList()
		for _, step := range parsing.SplitInstructions(strings.Join(paragraphs, "\n\n")) {
			steps.Add(parsing.NormalizeString(step))
		}
		if steps.Len() > 0 {
			return steps, nil
		}
		return keepPrevious(plugin.FieldInstructions, prev)
	}
}

// SelectText returns the normalized text of the first element matched by
// selector, keeping the previous value when there is none.
func SelectText(field plugin.Field, selector string) plugin.OverrideFunc {
	return func(_ context.Context, page *plugin.Page, prev any) (any, error) {
		if text := parsing.NormalizeString(page.Doc.Find(selector).First().Text()); text != "" {
			return text, nil
		}
		return keepPrevious(field, prev)
	}
}

// Constant always returns value.
func Constant(value any) plugin.OverrideFunc {
	return func(context.Context, *plugin.Page, any) (any, error) {
		return value, nil
	}
}

func keepPrevious(field plugin.Field, prev any) (any, error) {
	if prev == nil {
		return nil, plugin.Missing(field)
	}
	return prev, nil
}
