package plugin

import "strings"

// Field identifies one slot of the canonical recipe record.
type Field int

const (
	FieldAuthor Field = iota
	FieldCanonicalURL
	FieldCategory
	FieldCookTime
	FieldCookingMethod
	FieldCuisine
	FieldDescription
	FieldDietaryRestrictions
	FieldEquipment
	FieldHost
	FieldImage
	FieldIngredients
	FieldInstructions
	FieldKeywords
	FieldLanguage
	FieldLinks
	FieldNutrients
	FieldPrepTime
	FieldRatings
	FieldRatingsCount
	FieldReviews
	FieldSiteName
	FieldTitle
	FieldTotalTime
	FieldYields

	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldAuthor:              "author",
	FieldCanonicalURL:        "canonicalUrl",
	FieldCategory:            "category",
	FieldCookTime:            "cookTime",
	FieldCookingMethod:       "cookingMethod",
	FieldCuisine:             "cuisine",
	FieldDescription:         "description",
	FieldDietaryRestrictions: "dietaryRestrictions",
	FieldEquipment:           "equipment",
	FieldHost:                "host",
	FieldImage:               "image",
	FieldIngredients:         "ingredients",
	FieldInstructions:        "instructions",
	FieldKeywords:            "keywords",
	FieldLanguage:            "language",
	FieldLinks:               "links",
	FieldNutrients:           "nutrients",
	FieldPrepTime:            "prepTime",
	FieldRatings:             "ratings",
	FieldRatingsCount:        "ratingsCount",
	FieldReviews:             "reviews",
	FieldSiteName:            "siteName",
	FieldTitle:               "title",
	FieldTotalTime:           "totalTime",
	FieldYields:              "yields",
}

// String returns the record key of the field, e.g. "canonicalUrl".
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// AllFields returns every field in record order.
func AllFields() []Field {
	fields := make([]Field, fieldCount)
	for i := range fields {
		fields[i] = Field(i)
	}
	return fields
}

// ParseField looks a field up by its record key. Matching ignores case.
func ParseField(name string) (Field, bool) {
	for i, n := range fieldNames {
		if strings.EqualFold(n, name) {
			return Field(i), true
		}
	}
	return 0, false
}

// Kind describes the value type carried by a field.
type Kind int

const (
	KindText         Kind = iota // string
	KindOptionalText             // string or nil
	KindMinutes                  // int or nil
	KindNumber                   // float64
	KindCount                    // int, never negative
	KindList                     // *List
	KindIngredients              // Ingredients
	KindMapping                  // *Mapping
	KindLinks                    // []Link
)

// Kind reports the value type the field carries.
func (f Field) Kind() Kind {
	switch f {
	case FieldSiteName, FieldCookingMethod:
		return KindOptionalText
	case FieldCookTime, FieldPrepTime, FieldTotalTime:
		return KindMinutes
	case FieldRatings:
		return KindNumber
	case FieldRatingsCount:
		return KindCount
	case FieldCategory, FieldCuisine, FieldDietaryRestrictions, FieldEquipment, FieldInstructions, FieldKeywords:
		return KindList
	case FieldIngredients:
		return KindIngredients
	case FieldNutrients, FieldReviews:
		return KindMapping
	case FieldLinks:
		return KindLinks
	default:
		return KindText
	}
}

// CheckValue reports whether v has the Go type expected for field f.
// A nil value is accepted only for optional kinds.
func CheckValue(f Field, v any) bool {
	switch f.Kind() {
	case KindText:
		_, ok := v.(string)
		return ok
	case KindOptionalText:
		if v == nil {
			return true
		}
		_, ok := v.(string)
		return ok
	case KindMinutes:
		if v == nil {
			return true
		}
		_, ok := v.(int)
		return ok
	case KindNumber:
		_, ok := v.(float64)
		return ok
	case KindCount:
		n, ok := v.(int)
		return ok && n >= 0
	case KindList:
		l, ok := v.(*List)
		return ok && l != nil
	case KindIngredients:
		switch ing := v.(type) {
		case IngredientList:
			return ing.List != nil
		case IngredientGroups:
			return ing.Groups != nil
		}
		return false
	case KindMapping:
		m, ok := v.(*Mapping)
		return ok && m != nil
	case KindLinks:
		_, ok := v.([]Link)
		return ok
	}
	return false
}
