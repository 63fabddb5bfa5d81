package ingredients

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
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

const wprmHTML = `<div class="wprm-recipe-ingredients-container">
  <div class="wprm-recipe-ingredient-group">
    <h4 class="wprm-recipe-group-name">For the   crust</h4>
    <ul class="wprm-recipe-ingredients">
      <li class="wprm-recipe-ingredient">1 ½ cups graham-cracker crumbs</li>
      <li class="wprm-recipe-ingredient">5 tbsp butter, melted</li>
    </ul>
  </div>
  <div class="wprm-recipe-ingredient-group">
    <h4 class="wprm-recipe-group-name">For the filling</h4>
    <ul class="wprm-recipe-ingredients">
      <li class="wprm-recipe-ingredient">16 oz cream   cheese</li>
      <li class="wprm-recipe-ingredient">2 eggs</li>
    </ul>
  </div>
</div>`

func groupItems(t *testing.T, ing plugin.Ingredients) map[string][]string {
	t.Helper()
	groups, ok := ing.(plugin.IngredientGroups)
	require.True(t, ok, "expected grouped ingredients, got %T", ing)
	out := map[string][]string{}
	for pair := groups.Groups.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value.Items()
	}
	return out
}

func TestGroup_DefaultSelectors(t *testing.T) {
	list := plugin.NewList(
		"1 1/2 cups graham cracker crumbs",
		"5 tbsp butter, melted",
		"16 oz cream cheese",
		"2 eggs",
	)

	got, err := Group(mustDoc(t, wprmHTML), list, Selectors{})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"For the crust":   {"1 1/2 cups graham cracker crumbs", "5 tbsp butter, melted"},
		"For the filling": {"16 oz cream cheese", "2 eggs"},
	}, groupItems(t, got))
	assert.Equal(t, list.Len(), got.Count())

	groups := got.(plugin.IngredientGroups)
	assert.Equal(t, "For the crust", groups.Groups.Oldest().Key)
}

func TestGroup_PartitionsInput(t *testing.T) {
	list := plugin.NewList("1 ½ cups graham-cracker crumbs", "5 tbsp butter, melted", "16 oz cream cheese", "2 eggs")

	got, err := Group(mustDoc(t, wprmHTML), list, Selectors{})
	require.NoError(t, err)

	seen := map[string]int{}
	for _, items := range groupItems(t, got) {
		for _, it := range items {
			seen[it]++
		}
	}
	assert.Len(t, seen, list.Len())
	for _, it := range list.Items() {
		assert.Equal(t, 1, seen[it], it)
	}
}

func TestGroup_ItemsBeforeHeadingUseDefaultGroup(t *testing.T) {
	html := `<div class="box">
  <li class="item">salt</li>
  <h3 class="head"></h3>
  <li class="item">pepper</li>
  <h3 class="head">Sauce</h3>
  <li class="item">tomato</li>
</div>`
	list := plugin.NewList("salt", "pepper", "tomato")

	got, err := Group(mustDoc(t, html), list, Selectors{Heading: ".head", Item: ".item"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		plugin.DefaultGroupName: {"salt", "pepper"},
		"Sauce":                 {"tomato"},
	}, groupItems(t, got))
}

func TestGroup_CountMismatch(t *testing.T) {
	list := plugin.NewList("only one")

	_, err := Group(mustDoc(t, wprmHTML), list, Selectors{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, plugin.ErrGroupingMismatch))
	assert.EqualError(t, err, "found 4 grouped ingredients but was expecting to find 1")
}

func TestGroup_NoSelectorsLeavesListFlat(t *testing.T) {
	list := plugin.NewList("a", "b")

	tests := []struct {
		name string
		html string
		sel  Selectors
	}{
		{"no card markup", "<ul><li>a</li><li>b</li></ul>", Selectors{}},
		{"custom selectors missing", wprmHTML, Selectors{Heading: ".nope", Item: ".wprm-recipe-ingredient"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Group(mustDoc(t, tt.html), list, tt.sel)
			require.NoError(t, err)
			flat, ok := got.(plugin.IngredientList)
			require.True(t, ok)
			assert.Equal(t, []string{"a", "b"}, flat.List.Items())
		})
	}
}

func TestGroup_TastyFallback(t *testing.T) {
	html := `<div class="tasty-recipes-ingredients">
  <h4>Dough</h4>
  <ul><li>flour</li><li>water</li></ul>
  <h4>Topping</h4>
  <ul><li>cheese</li></ul>
</div>`
	got, err := Group(mustDoc(t, html), plugin.NewList("flour", "water", "cheese"), Selectors{})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"Dough":   {"flour", "water"},
		"Topping": {"cheese"},
	}, groupItems(t, got))
}

func TestScoreSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"night", "night", 1},
		{"night", "nacht", 0.25},
		{"a", "ab", 0},
		{"", "", 1},
		{"ab", "cd", 0},
		{"½ cup", "½ cup", 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ScoreSimilarity(tt.a, tt.b), 1e-9, "%q vs %q", tt.a, tt.b)
	}
}

func TestBestMatch(t *testing.T) {
	candidates := []string{"2 cups flour", "1 tsp salt", "2 cups flower"}

	assert.Equal(t, "1 tsp salt", BestMatch("1 teaspoon salt", candidates))
	assert.Equal(t, "2 cups flour", BestMatch("2 cups flour", candidates))
	assert.Equal(t, "x", BestMatch("zzz", []string{"x", "y"}), "ties keep the first candidate")
	assert.Equal(t, "", BestMatch("anything", nil))
}
