package sites

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ramkansal/recipe-scrapers/internal/ingredients"
	"github.com/ramkansal/recipe-scrapers/internal/parsing"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

func builtinSites() []*plugin.Site {
	return []*plugin.Site{
		newSite("AllRecipes", "allrecipes.com", nil),
		newSite("NYTimes", "cooking.nytimes.com", map[plugin.Field]plugin.OverrideFunc{
			// class names carry generated suffixes, so match on substrings
			plugin.FieldIngredients: GroupIngredients(ingredients.Selectors{
				Heading: `h3[class*="ingredientgroup_name"]`,
				Item:    `li[class*="ingredient"]`,
			}),
		}),
		newSite("BBCGoodFood", "bbcgoodfood.com", map[plugin.Field]plugin.OverrideFunc{
			plugin.FieldIngredients: GroupIngredients(ingredients.Selectors{
				Heading: ".recipe__ingredients h3",
				Item:    ".recipe__ingredients li",
			}),
		}),
		newSite("SimplyRecipes", "simplyrecipes.com", map[plugin.Field]plugin.OverrideFunc{
			plugin.FieldInstructions: SelectInstructions("div.structured-project__steps ol li", "img, picture, figure"),
		}),
		newSite("Epicurious", "epicurious.com", map[plugin.Field]plugin.OverrideFunc{
			plugin.FieldAuthor: SelectText(plugin.FieldAuthor, `a[itemprop="author"]`),
		}),
		newSite("AmericasTestKitchen", "americastestkitchen.com", map[plugin.Field]plugin.OverrideFunc{
			plugin.FieldIngredients:  atkIngredients,
			plugin.FieldInstructions: atkInstructions,
			plugin.FieldSiteName:     Constant("America's Test Kitchen"),
		}),
	}
}

// ---------- America's Test Kitchen ----------

// atkPageData is the subset of the Next.js page payload carrying the recipe.
type atkPageData struct {
	Props struct {
		PageProps struct {
			Data *atkRecipe `json:"data"`
		} `json:"pageProps"`
	} `json:"props"`
}

type atkRecipe struct {
	TotalCookTime    float64 `json:"totalCookTime"`
	Headnote         string  `json:"headnote"`
	IngredientGroups []struct {
		Fields struct {
			Title string          `json:"title"`
			Items []atkIngredient `json:"recipeIngredientItems"`
		} `json:"fields"`
	} `json:"ingredientGroups"`
	Instructions []struct {
		Fields struct {
			Content string `json:"content"`
		} `json:"fields"`
	} `json:"instructions"`
}

type atkIngredient struct {
	Fields struct {
		Qty         string  `json:"qty"`
		PostText    string  `json:"postText"`
		Measurement *string `json:"measurement"`
		Ingredient  struct {
			Fields struct {
				Title string `json:"title"`
			} `json:"fields"`
		} `json:"ingredient"`
	} `json:"fields"`
}

func (i atkIngredient) String() string {
	f := i.Fields
	measurement := ""
	if f.Measurement != nil {
		measurement = *f.Measurement
	}
	var parts []string
	for _, frag := range []string{f.Qty, measurement, f.Ingredient.Fields.Title, f.PostText} {
		if frag = strings.TrimRight(frag, " \t\n"); frag != "" {
			parts = append(parts, frag)
		}
	}
	return strings.Replace(strings.TrimRight(strings.Join(parts, " "), " "), " ,", ",", 1)
}

func atkData(page *plugin.Page) (*atkRecipe, error) {
	raw := page.Doc.Find(`script[type="application/json"]`).First().Text()
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("page data script not found")
	}
	var payload atkPageData
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, errors.Wrap(err, "decode page data")
	}
	if payload.Props.PageProps.Data == nil {
		return nil, errors.New("page data has no recipe")
	}
	return payload.Props.PageProps.Data, nil
}

// atkIngredients reads ingredients from the page payload. A single group is
// returned flat. Without a payload the DOM grouping is attempted instead.
func atkIngredients(ctx context.Context, page *plugin.Page, prev any) (any, error) {
	data, err := atkData(page)
	if err != nil {
		return GroupIngredients(ingredients.Selectors{
			Heading: `[class*="RecipeIngredientGroups_group"] > span`,
			Item:    `[class*="RecipeIngredient"] label`,
		})(ctx, page, prev)
	}

	if len(data.IngredientGroups) == 1 {
		list := plugin.NewList()
		for _, it := range data.IngredientGroups[0].Fields.Items {
			list.Add(it.String())
		}
		return plugin.IngredientList{List: list}, nil
	}

	groups := plugin.NewIngredientGroups()
	for _, g := range data.IngredientGroups {
		title := g.Fields.Title
		if title == "" {
			title = plugin.DefaultGroupName
		}
		group := groups.Group(title)
		for _, it := range g.Fields.Items {
			group.Add(it.String())
		}
	}
	return groups, nil
}

// atkInstructions prefixes the steps with the recipe headnote, if any.
func atkInstructions(_ context.Context, page *plugin.Page, prev any) (any, error) {
	data, err := atkData(page)
	if err != nil {
		if prev != nil {
			return prev, nil
		}
		return nil, errors.Wrap(err, "extract instructions")
	}

	steps := plugin.NewList()
	if note := parsing.NormalizeString(data.Headnote); note != "" {
		steps.Add("Note: " + note)
	}
	for _, in := range data.Instructions {
		if s := parsing.NormalizeString(in.Fields.Content); s != "" {
			steps.Add(s)
		}
	}
	return steps, nil
}
