package plugin

import (
	"github.com/cockroachdb/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// RecipeData is the canonical typed record, one slot per Field.
type RecipeData struct {
	Author              string
	CanonicalURL        string
	Category            *List
	CookTime            *int
	CookingMethod       *string
	Cuisine             *List
	Description         string
	DietaryRestrictions *List
	Equipment           *List
	Host                string
	Image               string
	Ingredients         Ingredients
	Instructions        *List
	Keywords            *List
	Language            string
	Links               []Link
	Nutrients           *Mapping
	PrepTime            *int
	Ratings             float64
	RatingsCount        int
	Reviews             *Mapping
	SiteName            *string
	Title               string
	TotalTime           *int
	Yields              string
}

// Set stores v into the slot for field after checking its type.
func (r *RecipeData) Set(field Field, v any) error {
	if !CheckValue(field, v) {
		return errors.Wrapf(Invalid(field, v), "set %s", field)
	}
	switch field {
	case FieldAuthor:
		r.Author = v.(string)
	case FieldCanonicalURL:
		r.CanonicalURL = v.(string)
	case FieldCategory:
		r.Category = v.(*List)
	case FieldCookTime:
		r.CookTime = optionalInt(v)
	case FieldCookingMethod:
		r.CookingMethod = optionalString(v)
	case FieldCuisine:
		r.Cuisine = v.(*List)
	case FieldDescription:
		r.Description = v.(string)
	case FieldDietaryRestrictions:
		r.DietaryRestrictions = v.(*List)
	case FieldEquipment:
		r.Equipment = v.(*List)
	case FieldHost:
		r.Host = v.(string)
	case FieldImage:
		r.Image = v.(string)
	case FieldIngredients:
		r.Ingredients = v.(Ingredients)
	case FieldInstructions:
		r.Instructions = v.(*List)
	case FieldKeywords:
		r.Keywords = v.(*List)
	case FieldLanguage:
		r.Language = v.(string)
	case FieldLinks:
		r.Links = v.([]Link)
	case FieldNutrients:
		r.Nutrients = v.(*Mapping)
	case FieldPrepTime:
		r.PrepTime = optionalInt(v)
	case FieldRatings:
		r.Ratings = v.(float64)
	case FieldRatingsCount:
		r.RatingsCount = v.(int)
	case FieldReviews:
		r.Reviews = v.(*Mapping)
	case FieldSiteName:
		r.SiteName = optionalString(v)
	case FieldTitle:
		r.Title = v.(string)
	case FieldTotalTime:
		r.TotalTime = optionalInt(v)
	case FieldYields:
		r.Yields = v.(string)
	default:
		return Unsupported(field)
	}
	return nil
}

func optionalInt(v any) *int {
	if v == nil {
		return nil
	}
	n := v.(int)
	return &n
}

func optionalString(v any) *string {
	if v == nil {
		return nil
	}
	s := v.(string)
	return &s
}

// RecipeObject is the serialized form of RecipeData: sets become arrays,
// mappings become objects and ingredients become an array or an object of arrays.
type RecipeObject struct {
	Author              string   `json:"author"`
	CanonicalURL        string   `json:"canonicalUrl"`
	Category            []string `json:"category"`
	CookTime            *int     `json:"cookTime"`
	CookingMethod       *string  `json:"cookingMethod"`
	Cuisine             []string `json:"cuisine"`
	Description         string   `json:"description"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	Equipment           []string `json:"equipment"`
	Host                string   `json:"host"`
	Image               string   `json:"image"`
	Ingredients         any      `json:"ingredients"`
	Instructions        []string `json:"instructions"`
	Keywords            []string `json:"keywords"`
	Language            string   `json:"language"`
	Links               []Link   `json:"links"`
	Nutrients           *Mapping `json:"nutrients"`
	PrepTime            *int     `json:"prepTime"`
	Ratings             float64  `json:"ratings"`
	RatingsCount        int      `json:"ratingsCount"`
	Reviews             *Mapping `json:"reviews"`
	SiteName            *string  `json:"siteName"`
	Title               string   `json:"title"`
	TotalTime           *int     `json:"totalTime"`
	Yields              string   `json:"yields"`
}

// ToObject converts the record into its serializable form.
func (r *RecipeData) ToObject() *RecipeObject {
	links := r.Links
	if links == nil {
		links = []Link{}
	}
	return &RecipeObject{
		Author:              r.Author,
		CanonicalURL:        r.CanonicalURL,
		Category:            r.Category.Items(),
		CookTime:            r.CookTime,
		CookingMethod:       r.CookingMethod,
		Cuisine:             r.Cuisine.Items(),
		Description:         r.Description,
		DietaryRestrictions: r.DietaryRestrictions.Items(),
		Equipment:           r.Equipment.Items(),
		Host:                r.Host,
		Image:               r.Image,
		Ingredients:         IngredientsToObject(r.Ingredients),
		Instructions:        r.Instructions.Items(),
		Keywords:            r.Keywords.Items(),
		Language:            r.Language,
		Links:               links,
		Nutrients:           copyMapping(r.Nutrients),
		PrepTime:            r.PrepTime,
		Ratings:             r.Ratings,
		RatingsCount:        r.RatingsCount,
		Reviews:             copyMapping(r.Reviews),
		SiteName:            r.SiteName,
		Title:               r.Title,
		TotalTime:           r.TotalTime,
		Yields:              r.Yields,
	}
}

// IngredientsToObject returns []string for the flat variant and an ordered
// group name to []string map for the grouped variant.
func IngredientsToObject(ing Ingredients) any {
	switch v := ing.(type) {
	case IngredientList:
		return v.List.Items()
	case IngredientGroups:
		out := orderedmap.New[string, []string]()
		for pair := v.Groups.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, pair.Value.Items())
		}
		return out
	default:
		return []string{}
	}
}

func copyMapping(m *Mapping) *Mapping {
	out := NewMapping()
	if m == nil {
		return out
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}
