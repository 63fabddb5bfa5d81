package schemaorg

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// Priority ranks structured data above every heuristic extractor.
const Priority = 90

// Plugin exposes a Resolver as a plugin.Extractor.
type Plugin struct {
	fields map[plugin.Field]func() (any, error)
}

// NewPlugin resolves doc's structured data and returns the extractor.
func NewPlugin(doc *goquery.Document, log zerolog.Logger) *Plugin {
	r := NewResolver(doc, log)
	return &Plugin{
		fields: map[plugin.Field]func() (any, error){
			plugin.FieldSiteName:            wrap(r.SiteName),
			plugin.FieldLanguage:            wrap(r.Language),
			plugin.FieldTitle:               wrap(r.Title),
			plugin.FieldAuthor:              wrap(r.Author),
			plugin.FieldDescription:         wrap(r.Description),
			plugin.FieldImage:               wrap(r.Image),
			plugin.FieldIngredients:         wrap(r.Ingredients),
			plugin.FieldInstructions:        wrap(r.Instructions),
			plugin.FieldCategory:            wrap(r.Category),
			plugin.FieldYields:              wrap(r.Yields),
			plugin.FieldTotalTime:           wrap(r.TotalTime),
			plugin.FieldCookTime:            wrap(r.CookTime),
			plugin.FieldPrepTime:            wrap(r.PrepTime),
			plugin.FieldCuisine:             wrap(r.Cuisine),
			plugin.FieldCookingMethod:       wrap(r.CookingMethod),
			plugin.FieldRatings:             wrap(r.Ratings),
			plugin.FieldRatingsCount:        wrap(r.RatingsCount),
			plugin.FieldNutrients:           wrap(r.Nutrients),
			plugin.FieldKeywords:            wrap(r.Keywords),
			plugin.FieldDietaryRestrictions: wrap(r.DietaryRestrictions),
		},
	}
}

func wrap[T any](fn func() (T, error)) func() (any, error) {
	return func() (any, error) {
		v, err := fn()
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func (p *Plugin) Name() string  { return "SchemaOrgPlugin" }
func (p *Plugin) Priority() int { return Priority }

func (p *Plugin) Supports(field plugin.Field) bool {
	_, ok := p.fields[field]
	return ok
}

func (p *Plugin) Extract(_ context.Context, field plugin.Field) (any, error) {
	fn, ok := p.fields[field]
	if !ok {
		return nil, plugin.Unsupported(field)
	}
	return fn()
}
