package schemaorg

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func jsonLDPage(blocks ...string) string {
	var b strings.Builder
	b.WriteString("<html><head>")
	for _, block := range blocks {
		b.WriteString(`<script type="application/ld+json">`)
		b.WriteString(block)
		b.WriteString("</script>")
	}
	b.WriteString("</head><body></body></html>")
	return b.String()
}

func newResolver(t *testing.T, blocks ...string) *Resolver {
	t.Helper()
	return NewResolver(mustDoc(t, jsonLDPage(blocks...)), zerolog.Nop())
}

const graphRecipe = `{
  "@context": "https://schema.org",
  "@graph": [
    {"@type": "WebSite", "@id": "https://example.com/#website", "name": "Example Kitchen"},
    {"@type": "Organization", "@id": "https://example.com/#org", "name": "Example Media"},
    {"@type": "Person", "@id": "https://example.com/#jane", "name": "Jane  Doe"},
    {"@type": "AggregateRating", "@id": "https://example.com/#rating", "ratingValue": "4.567", "ratingCount": "1,234"},
    {
      "@type": "Recipe",
      "name": " Lemon   Cake ",
      "description": "A bright cake.",
      "inLanguage": "en-US",
      "author": {"@id": "https://example.com/#jane"},
      "publisher": {"@id": "https://example.com/#org"},
      "image": [{"@type": "ImageObject", "url": "https://example.com/cake.jpg"}],
      "recipeIngredient": ["2 cups flour", ["1 cup sugar"], "2 cups flour", "1 lemon ((zested))"],
      "recipeInstructions": [
        {"@type": "HowToSection", "name": "Batter", "itemListElement": [
          {"@type": "HowToStep", "name": "Mix", "text": "Mix the dry ingredients."},
          {"@type": "HowToStep", "name": "Whisk eggs", "text": "Add the eggs."}
        ]},
        "Bake for 30 minutes."
      ],
      "recipeCategory": "Dessert, Cake",
      "recipeCuisine": ["American", "American"],
      "keywords": "lemon, , cake",
      "recipeYield": ["8", "8 servings"],
      "prepTime": "PT15M",
      "cookTime": "PT30M",
      "aggregateRating": {"@id": "https://example.com/#rating"},
      "nutrition": {"@type": "NutritionInformation", "sodiumContent": "120 mg", "calories": "310 kcal"},
      "suitableForDiet": ["https://schema.org/VegetarianDiet", {"@id": "http://schema.org/LowSaltDiet"}],
      "cookingMethod": "Baking"
    }
  ]
}`

func TestResolver_GraphFields(t *testing.T) {
	r := newResolver(t, graphRecipe)

	tests := []struct {
		name string
		got  func() (any, error)
		want any
	}{
		{"title", wrap(r.Title), "Lemon Cake"},
		{"description", wrap(r.Description), "A bright cake."},
		{"language", wrap(r.Language), "en-US"},
		{"author", wrap(r.Author), "Jane Doe"},
		{"siteName", wrap(r.SiteName), "Example Media"},
		{"image", wrap(r.Image), "https://example.com/cake.jpg"},
		{"yields", wrap(r.Yields), "8 servings"},
		{"prepTime", wrap(r.PrepTime), 15},
		{"cookTime", wrap(r.CookTime), 30},
		{"totalTime", wrap(r.TotalTime), 45},
		{"ratings", wrap(r.Ratings), 4.57},
		{"ratingsCount", wrap(r.RatingsCount), 1234},
		{"cookingMethod", wrap(r.CookingMethod), "Baking"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.got()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_GraphLists(t *testing.T) {
	r := newResolver(t, graphRecipe)

	ing, err := r.Ingredients()
	require.NoError(t, err)
	flat, ok := ing.(plugin.IngredientList)
	require.True(t, ok)
	assert.Equal(t, []string{"2 cups flour", "1 cup sugar", "1 lemon (zested)"}, flat.List.Items())

	instructions, err := r.Instructions()
	require.NoError(t, err)
	assert.Equal(t, []string{"Batter", "Mix the dry ingredients.", "Whisk eggs", "Add the eggs.", "Bake for 30 minutes."}, instructions.Items())

	category, err := r.Category()
	require.NoError(t, err)
	assert.Equal(t, []string{"Dessert", "Cake"}, category.Items())

	cuisine, err := r.Cuisine()
	require.NoError(t, err)
	assert.Equal(t, []string{"American"}, cuisine.Items())

	keywords, err := r.Keywords()
	require.NoError(t, err)
	assert.Equal(t, []string{"lemon", "cake"}, keywords.Items())

	diets, err := r.DietaryRestrictions()
	require.NoError(t, err)
	assert.Equal(t, []string{"VegetarianDiet", "LowSaltDiet"}, diets.Items())

	nutrients, err := r.Nutrients()
	require.NoError(t, err)
	var keys []string
	for pair := nutrients.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"calories", "sodiumContent"}, keys)
	v, _ := nutrients.Get("calories")
	assert.Equal(t, "310 kcal", v)
}

func TestResolver_MissingAndInvalid(t *testing.T) {
	r := newResolver(t, `{"@type": "Recipe", "name": "", "image": "/relative.jpg", "suitableForDiet": "PaleoDiet", "cookTime": "soon"}`)

	_, err := r.Title()
	assert.True(t, errors.Is(err, plugin.ErrExtractionFailed))
	assert.EqualError(t, err, "missing required field: title")

	_, err = r.Image()
	assert.EqualError(t, err, `invalid value for "image": /relative.jpg`)

	_, err = r.DietaryRestrictions()
	assert.EqualError(t, err, `invalid value for "dietaryRestrictions": PaleoDiet`)

	_, err = r.CookTime()
	assert.EqualError(t, err, `invalid value for "cookTime": soon`)

	_, err = r.TotalTime()
	assert.EqualError(t, err, "missing required field: totalTime")

	_, err = r.Ingredients()
	assert.EqualError(t, err, "missing required field: ingredients")

	_, err = r.Instructions()
	assert.EqualError(t, err, "missing required field: instructions")
}

func TestResolver_Durations(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  int
	}{
		{"total stated", `{"@type": "Recipe", "totalTime": "PT1H5M"}`, 65},
		{"zero total falls back", `{"@type": "Recipe", "totalTime": "PT0M", "cookTime": "PT20M"}`, 20},
		{"numeric", `{"@type": "Recipe", "totalTime": 42}`, 42},
		{"range uses max", `{"@type": "Recipe", "totalTime": {"@type": "QuantitativeValue", "minValue": "PT10M", "maxValue": "PT25M"}}`, 25},
		{"prep only", `{"@type": "Recipe", "prepTime": "PT10M"}`, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newResolver(t, tt.block).TotalTime()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_LaterRecipeWins(t *testing.T) {
	r := newResolver(t,
		`{"@type": "Recipe", "name": "First", "description": "kept"}`,
		`[{"@type": ["Recipe", "NewsArticle"], "name": "Second"}]`,
	)
	title, err := r.Title()
	require.NoError(t, err)
	assert.Equal(t, "Second", title)

	desc, err := r.Description()
	require.NoError(t, err)
	assert.Equal(t, "kept", desc)
}

func TestResolver_WebPageMainEntity(t *testing.T) {
	r := newResolver(t, `{"@type": "WebPage", "mainEntity": {"@type": "schema:Recipe", "name": "Nested"}}`)
	title, err := r.Title()
	require.NoError(t, err)
	assert.Equal(t, "Nested", title)
}

func TestResolver_WebsiteNameFallback(t *testing.T) {
	r := newResolver(t, `{"@graph": [{"@type": "WebSite", "name": "Site"}, {"@type": "Recipe", "name": "x"}]}`)
	name, err := r.SiteName()
	require.NoError(t, err)
	assert.Equal(t, "Site", name)
}

func TestResolver_AuthorForms(t *testing.T) {
	tests := []struct {
		block string
		want  string
	}{
		{`{"@type": "Recipe", "author": "Chef Bob"}`, "Chef Bob"},
		{`{"@type": "Recipe", "author": [{"@type": "Person", "name": "A"}, {"@type": "Person", "name": "B"}]}`, "A"},
		{`[{"@type": "Person", "url": "https://x/p", "name": "By Url"}, {"@type": "Recipe", "author": {"url": "https://x/p"}}]`, "By Url"},
	}
	for _, tt := range tests {
		got, err := newResolver(t, tt.block).Author()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestResolver_MalformedBlocksAreSkipped(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{not json</script>
<script type="Application/LD+JSON"><!-- {"@type": "Recipe", "name": "Wrapped"}; --></script>
<script type="application/ld+json">"just a string"</script>
</head></html>`
	r := NewResolver(mustDoc(t, html), zerolog.Nop())
	title, err := r.Title()
	require.NoError(t, err)
	assert.Equal(t, "Wrapped", title)
}

func TestResolver_CommentMarkersInsideValues(t *testing.T) {
	r := newResolver(t, `{"@type": "Recipe",
  "description": "Whisk eggs --> fold in flour. Keep <!-- this --> text.",
  "recipeInstructions": ["Step one --> step two", "Serve ]]> warm"]}`)

	description, err := r.Description()
	require.NoError(t, err)
	assert.Equal(t, "Whisk eggs --> fold in flour. Keep <!-- this --> text.", description)

	instructions, err := r.Instructions()
	require.NoError(t, err)
	assert.Equal(t, []string{"Step one --> step two", "Serve ]]> warm"}, instructions.Items())
}

func TestResolver_RatingFormats(t *testing.T) {
	tests := []struct {
		value   string
		want    float64
		invalid bool
	}{
		{`"4.25"`, 4.25, false},
		{`4`, 4, false},
		{`"3,5"`, 3.5, false},
		{`"4½"`, 4.5, false},
		{`"4 1/2"`, 4.5, false},
		{`"great"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := newResolver(t, `{"@type": "Recipe", "aggregateRating": {"@type": "AggregateRating", "ratingValue": `+tt.value+`}}`)
			got, err := r.Ratings()
			if tt.invalid {
				assert.True(t, errors.Is(err, plugin.ErrExtractionFailed))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestUnwrapJSONLD(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"comment", `<!-- {"a": 1}; -->`, `{"a": 1}`},
		{"cdata", "//<![CDATA[\n{\"a\": 1}\n//]]>", `{"a": 1}`},
		{"bare cdata", `<![CDATA[{"a": "-->"}]]>`, `{"a": "-->"}`},
		{"untouched", `{"a": "<!-- x -->"}`, `{"a": "<!-- x -->"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unwrapJSONLD(tt.raw))
		})
	}
}

func TestResolver_Microdata(t *testing.T) {
	html := `<html><body>
<div itemscope itemtype="https://schema.org/Recipe">
  <h1 itemprop="name">Micro   Soup</h1>
  <meta itemprop="totalTime" content="PT40M">
  <img itemprop="image" src="https://example.com/soup.jpg">
  <span itemprop="author" itemscope itemtype="https://schema.org/Person">
    <span itemprop="name">Sam Cook</span>
  </span>
  <div itemprop="aggregateRating" itemscope itemtype="https://schema.org/AggregateRating">
    <span itemprop="ratingValue">4.2</span>
    <span itemprop="reviewCount">17</span>
  </div>
  <ul>
    <li itemprop="recipeIngredient">1 onion</li>
    <li itemprop="recipeIngredient">2 carrots</li>
  </ul>
  <time itemprop="cookTime" datetime="PT25M">25 minutes</time>
</div>
</body></html>`
	r := NewResolver(mustDoc(t, html), zerolog.Nop())

	title, err := r.Title()
	require.NoError(t, err)
	assert.Equal(t, "Micro Soup", title)

	author, err := r.Author()
	require.NoError(t, err)
	assert.Equal(t, "Sam Cook", author)

	total, err := r.TotalTime()
	require.NoError(t, err)
	assert.Equal(t, 40, total)

	cook, err := r.CookTime()
	require.NoError(t, err)
	assert.Equal(t, 25, cook)

	count, err := r.RatingsCount()
	require.NoError(t, err)
	assert.Equal(t, 17, count)

	ing, err := r.Ingredients()
	require.NoError(t, err)
	assert.Equal(t, []string{"1 onion", "2 carrots"}, ing.(plugin.IngredientList).List.Items())

	_, leaked := r.Graph().Recipe["ratingValue"]
	assert.False(t, leaked, "nested scope properties must stay nested")
}

func TestTextValue(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		props []string
		want  string
	}{
		{"string", "  a  b ", nil, "a b"},
		{"number", 4.5, nil, "4.5"},
		{"whole number", float64(12), nil, "12"},
		{"array", []any{"first", "second"}, nil, "first"},
		{"object name", map[string]any{"name": "N", "@id": "I"}, nil, "N"},
		{"object id", map[string]any{"@id": "I"}, nil, "I"},
		{"custom props", map[string]any{"url": "U", "name": "N"}, []string{"url"}, "U"},
		{"miss", map[string]any{"other": 1}, nil, ""},
		{"nil", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TextValue(tt.in, tt.props...))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, TypeRecipe, Classify(map[string]any{"@type": "http://schema.org/Recipe"}))
	assert.Equal(t, TypeOrganization, Classify(map[string]any{"@type": "NewsMediaOrganization"}))
	assert.Equal(t, TypeThing, Classify(map[string]any{"@type": "ImageObject"}))
	assert.Equal(t, EntityType(""), Classify(map[string]any{"name": "untyped"}))
	assert.Equal(t, EntityType(""), Classify("string"))
}

func TestPlugin_Dispatch(t *testing.T) {
	p := NewPlugin(mustDoc(t, jsonLDPage(graphRecipe)), zerolog.Nop())
	ctx := context.Background()

	assert.Equal(t, "SchemaOrgPlugin", p.Name())
	assert.Equal(t, 90, p.Priority())
	assert.True(t, p.Supports(plugin.FieldTitle))
	assert.False(t, p.Supports(plugin.FieldCanonicalURL))

	v, err := p.Extract(ctx, plugin.FieldTitle)
	require.NoError(t, err)
	assert.Equal(t, "Lemon Cake", v)

	_, err = p.Extract(ctx, plugin.FieldLinks)
	assert.True(t, errors.Is(err, plugin.ErrUnsupportedField))

	for _, f := range plugin.AllFields() {
		if !p.Supports(f) {
			continue
		}
		v, err := p.Extract(ctx, f)
		require.NoError(t, err, f.String())
		assert.True(t, plugin.CheckValue(f, v), f.String())
	}
}
