package engine

import "github.com/ramkansal/recipe-scrapers/pkg/plugin"

// Default returns the documented default for an optional field. The second
// result is false for required fields. Absent defaults are a nil value.
func Default(field plugin.Field) (any, bool) {
	switch field {
	case plugin.FieldSiteName, plugin.FieldCookingMethod,
		plugin.FieldCookTime, plugin.FieldPrepTime, plugin.FieldTotalTime:
		return nil, true
	case plugin.FieldCategory, plugin.FieldCuisine, plugin.FieldEquipment,
		plugin.FieldDietaryRestrictions, plugin.FieldKeywords:
		return plugin.NewList(), true
	case plugin.FieldRatings:
		return 0.0, true
	case plugin.FieldRatingsCount:
		return 0, true
	case plugin.FieldReviews, plugin.FieldNutrients:
		return plugin.NewMapping(), true
	case plugin.FieldLinks:
		return []plugin.Link{}, true
	}
	return nil, false
}
