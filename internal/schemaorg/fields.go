package schemaorg

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ramkansal/recipe-scrapers/internal/parsing"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// knownDiets is the RestrictedDiet enumeration.
var knownDiets = map[string]bool{
	"DiabeticDiet":   true,
	"GlutenFreeDiet": true,
	"HalalDiet":      true,
	"HinduDiet":      true,
	"KosherDiet":     true,
	"LowCalorieDiet": true,
	"LowFatDiet":     true,
	"LowLactoseDiet": true,
	"LowSaltDiet":    true,
	"VeganDiet":      true,
	"VegetarianDiet": true,
}

var (
	digitRe    = regexp.MustCompile(`\d`)
	dietURIRe  = regexp.MustCompile(`^https?://schema\.org/`)
	parenFixer = strings.NewReplacer("((", "(", "))", ")")
)

// ---------- Text fields ----------

func (r *Resolver) SiteName() (string, error) {
	if pub := r.organization(r.recipe()["publisher"]); pub != nil {
		if name := TextValue(pub, "name", "alternateName"); name != "" {
			return name, nil
		}
	}
	if r.graph.WebsiteName == "" {
		return "", plugin.Missing(plugin.FieldSiteName)
	}
	return r.graph.WebsiteName, nil
}

func (r *Resolver) Language() (string, error) {
	return r.requiredText(plugin.FieldLanguage, "inLanguage")
}

func (r *Resolver) Title() (string, error) {
	return r.requiredText(plugin.FieldTitle, "name")
}

func (r *Resolver) Description() (string, error) {
	return r.requiredText(plugin.FieldDescription, "description")
}

func (r *Resolver) CookingMethod() (string, error) {
	return r.requiredText(plugin.FieldCookingMethod, "cookingMethod")
}

// Author returns the first author's name. Authors given by reference are
// looked up in the Person index; a bare string is taken as the name.
func (r *Resolver) Author() (string, error) {
	author := r.recipe()["author"]
	if arr, ok := author.([]any); ok && len(arr) > 0 {
		author = arr[0]
	}

	var name string
	switch a := author.(type) {
	case string:
		name = a
	default:
		if e, ok := asEntity(a); ok {
			if person, ok := r.graph.People[e.Key()]; ok {
				e = person
			}
			name = TextValue(e["name"])
		}
	}

	name = parsing.NormalizeString(name)
	if name == "" {
		return "", plugin.Missing(plugin.FieldAuthor)
	}
	return name, nil
}

// Image returns the first image URL; values not starting with http are invalid.
func (r *Resolver) Image() (string, error) {
	image := TextValue(r.recipe()["image"], "url", "contentUrl")
	if image == "" {
		return "", plugin.Missing(plugin.FieldImage)
	}
	if !strings.HasPrefix(image, "http") {
		return "", plugin.Invalid(plugin.FieldImage, image)
	}
	return image, nil
}

// Yields returns the recipe yield, canonicalized when it carries a number.
func (r *Resolver) Yields() (string, error) {
	yields := TextValue(firstOf(r.recipe(), "recipeYield", "yield"))
	if yields == "" {
		return "", plugin.Missing(plugin.FieldYields)
	}
	if digitRe.MatchString(yields) {
		if parsed, err := parsing.ParseYields(yields); err == nil {
			return parsed, nil
		}
	}
	return yields, nil
}

// ---------- Lists ----------

// Ingredients reads recipeIngredient, else ingredients, flattened one level.
func (r *Resolver) Ingredients() (plugin.Ingredients, error) {
	raw := firstOf(r.recipe(), "recipeIngredient", "ingredients")
	if raw == nil {
		return nil, plugin.Missing(plugin.FieldIngredients)
	}
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case string:
		// single microdata property
		items = []any{v}
	default:
		return nil, plugin.Invalid(plugin.FieldIngredients, raw)
	}

	list := plugin.NewList()
	for _, item := range flatten(items) {
		if s := parenFixer.Replace(TextValue(item)); s != "" {
			list.Add(s)
		}
	}
	if list.Len() == 0 {
		return nil, plugin.Missing(plugin.FieldIngredients)
	}
	return plugin.IngredientList{List: list}, nil
}

func (r *Resolver) Instructions() (*plugin.List, error) {
	list := plugin.NewList()
	for _, s := range instructionLines(r.recipe()["recipeInstructions"]) {
		if s != "" {
			list.Add(s)
		}
	}
	if list.Len() == 0 {
		return nil, plugin.Missing(plugin.FieldInstructions)
	}
	return list, nil
}

func (r *Resolver) Category() (*plugin.List, error) {
	return r.requiredList(plugin.FieldCategory, "recipeCategory")
}

func (r *Resolver) Cuisine() (*plugin.List, error) {
	return r.requiredList(plugin.FieldCuisine, "recipeCuisine")
}

func (r *Resolver) Keywords() (*plugin.List, error) {
	return r.requiredList(plugin.FieldKeywords, "keywords")
}

// DietaryRestrictions accepts RestrictedDiet values as bare names, schema.org
// URIs, typed objects or @id references. Any unknown diet fails the field.
func (r *Resolver) DietaryRestrictions() (*plugin.List, error) {
	raw := r.recipe()["suitableForDiet"]
	if empty(raw) {
		return nil, plugin.Missing(plugin.FieldDietaryRestrictions)
	}
	values, ok := raw.([]any)
	if !ok {
		values = []any{raw}
	}

	list := plugin.NewList()
	for _, v := range values {
		var term string
		switch d := v.(type) {
		case string:
			term = d
		default:
			if e, ok := asEntity(d); ok {
				term = TextValue(e, "@id", "name")
			}
		}
		term = dietURIRe.ReplaceAllString(strings.TrimSpace(term), "")
		if !knownDiets[term] {
			return nil, plugin.Invalid(plugin.FieldDietaryRestrictions, v)
		}
		list.Add(term)
	}
	return list, nil
}

// ---------- Durations ----------

func (r *Resolver) CookTime() (int, error) {
	return r.requiredMinutes(plugin.FieldCookTime, "cookTime")
}

func (r *Resolver) PrepTime() (int, error) {
	return r.requiredMinutes(plugin.FieldPrepTime, "prepTime")
}

// TotalTime uses totalTime when set and non-zero, else prepTime + cookTime.
func (r *Resolver) TotalTime() (int, error) {
	total, ok, err := r.minutes(plugin.FieldTotalTime, "totalTime")
	if err != nil {
		return 0, err
	}
	if ok && total > 0 {
		return total, nil
	}

	prep, prepOK, _ := r.minutes(plugin.FieldPrepTime, "prepTime")
	cook, cookOK, _ := r.minutes(plugin.FieldCookTime, "cookTime")
	if (prepOK && prep > 0) || (cookOK && cook > 0) {
		return prep + cook, nil
	}
	return 0, plugin.Missing(plugin.FieldTotalTime)
}

// minutes parses a duration property. ok is false when the property is absent.
func (r *Resolver) minutes(field plugin.Field, key string) (int, bool, error) {
	raw := r.recipe()[key]
	if empty(raw) {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		r.log.Warn().Str("key", key).Float64("value", v).Msg("duration field is a number")
		return int(math.Round(v)), true, nil
	case string:
		m, err := parsing.ParseMinutes(v)
		if err != nil {
			return 0, false, plugin.Invalid(field, v)
		}
		return m, true, nil
	}

	if e, ok := asEntity(raw); ok {
		if maxValue, ok := e["maxValue"]; ok {
			m, err := parsing.ParseMinutes(TextValue(maxValue))
			if err != nil {
				return 0, false, plugin.Invalid(field, maxValue)
			}
			return m, true, nil
		}
	}
	return 0, false, plugin.Invalid(field, raw)
}

func (r *Resolver) requiredMinutes(field plugin.Field, key string) (int, error) {
	m, ok, err := r.minutes(field, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, plugin.Missing(field)
	}
	return m, nil
}

// ---------- Ratings ----------

// Ratings returns the aggregate rating value rounded to two decimals.
// Fractional values such as "4½" are accepted.
func (r *Resolver) Ratings() (float64, error) {
	rating := r.aggregateRating()
	if rating == nil {
		return 0, plugin.Missing(plugin.FieldRatings)
	}
	text := TextValue(rating["ratingValue"])
	if text == "" {
		return 0, plugin.Missing(plugin.FieldRatings)
	}
	v, err := parsing.ParseFraction(strings.ReplaceAll(text, ",", "."))
	if err != nil {
		return 0, plugin.Invalid(plugin.FieldRatings, text)
	}
	return math.Round(v*100) / 100, nil
}

// RatingsCount returns ratingCount, else reviewCount, floored.
func (r *Resolver) RatingsCount() (int, error) {
	rating := r.aggregateRating()
	if rating == nil {
		return 0, plugin.Missing(plugin.FieldRatingsCount)
	}
	text := TextValue(firstOf(rating, "ratingCount", "reviewCount"))
	if text == "" {
		return 0, plugin.Missing(plugin.FieldRatingsCount)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil || v < 0 {
		return 0, plugin.Invalid(plugin.FieldRatingsCount, text)
	}
	return int(math.Floor(v)), nil
}

func (r *Resolver) aggregateRating() Entity {
	e, ok := asEntity(r.recipe()["aggregateRating"])
	if !ok {
		return nil
	}
	if indexed, ok := r.graph.Ratings[e.ID()]; ok {
		return indexed
	}
	if Classify(e) == TypeAggregateRating || e["ratingValue"] != nil {
		return e
	}
	return nil
}

// ---------- Nutrients ----------

// Nutrients copies the nutrition object's keys, sorted, skipping @-keys.
func (r *Resolver) Nutrients() (*plugin.Mapping, error) {
	raw := r.recipe()["nutrition"]
	if raw == nil {
		return nil, plugin.Missing(plugin.FieldNutrients)
	}
	e, ok := asEntity(raw)
	if !ok {
		return nil, plugin.Invalid(plugin.FieldNutrients, raw)
	}

	keys := make([]string, 0, len(e))
	for k := range e {
		if k != "" && !strings.HasPrefix(k, "@") && !empty(e[k]) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	m := plugin.NewMapping()
	for _, k := range keys {
		m.Set(k, TextValue(e[k]))
	}
	return m, nil
}

// ---------- helpers ----------

func (r *Resolver) requiredText(field plugin.Field, key string) (string, error) {
	text := TextValue(r.recipe()[key])
	if text == "" {
		return "", plugin.Missing(field)
	}
	return text, nil
}

func (r *Resolver) requiredList(field plugin.Field, key string) (*plugin.List, error) {
	raw := r.recipe()[key]
	if empty(raw) {
		return nil, plugin.Missing(field)
	}
	return ValueToList(raw), nil
}

// organization resolves a publisher value, following @id references.
func (r *Resolver) organization(v any) Entity {
	if arr, ok := v.([]any); ok && len(arr) > 0 {
		v = arr[0]
	}
	e, ok := asEntity(v)
	if !ok {
		return nil
	}
	if indexed, ok := r.graph.Organizations[e.ID()]; ok {
		return indexed
	}
	if Classify(e) == TypeOrganization {
		return e
	}
	return nil
}

func flatten(items []any) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		if nested, ok := it.([]any); ok {
			out = append(out, nested...)
			continue
		}
		out = append(out, it)
	}
	return out
}

// instructionLines flattens strings, HowToStep and HowToSection values.
// A step's name is kept only when its text does not already start with it.
func instructionLines(v any) []string {
	if s, ok := v.(string); ok {
		return []string{parsing.NormalizeString(s)}
	}
	items, ok := v.([]any)
	if !ok {
		if v == nil {
			return nil
		}
		items = []any{v}
	}

	var lines []string
	for _, item := range flatten(items) {
		if s, ok := item.(string); ok {
			lines = append(lines, parsing.NormalizeString(s))
			continue
		}
		e, ok := asEntity(item)
		if !ok {
			continue
		}
		name := TextValue(e, "name")
		text := TextValue(e, "text")

		switch Classify(e) {
		case TypeHowToStep:
			if name != "" && text != "" && !strings.HasPrefix(text, strings.TrimSuffix(name, ".")) {
				lines = append(lines, name)
			}
			if text != "" {
				lines = append(lines, text)
			}
		case TypeHowToSection:
			if name != "" {
				lines = append(lines, name)
			}
			if children, ok := e["itemListElement"]; ok {
				lines = append(lines, instructionLines(children)...)
			}
		default:
			if text != "" {
				lines = append(lines, text)
			}
		}
	}
	return lines
}
