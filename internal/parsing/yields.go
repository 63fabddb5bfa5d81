package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	yieldNumberRe = regexp.MustCompile(`\d+(?:\.\d*)?`)
	yieldItemsRe  = regexp.MustCompile(`(?i)\b(?:sandwiches|tacquitos|makes|cups|appetizer|porzioni|cookies|(?:large |small )?buns)\b`)
)

// yieldTypes lists [singular, plural] unit keywords.
var yieldTypes = [][2]string{
	{"dozen", "dozen"},
	{"batch", "batches"},
	{"cake", "cakes"},
	{"sandwich", "sandwiches"},
	{"bun", "buns"},
	{"cookie", "cookies"},
	{"muffin", "muffins"},
	{"cupcake", "cupcakes"},
	{"loaf", "loaves"},
	{"pie", "pies"},
	{"cup", "cups"},
	{"pint", "pints"},
	{"gallon", "gallons"},
	{"ounce", "ounces"},
	{"pound", "pounds"},
	{"gram", "grams"},
	{"liter", "liters"},
	{"piece", "pieces"},
	{"layer", "layers"},
	{"scoop", "scoops"},
	{"bar", "bars"},
	{"patty", "patties"},
	{"hamburger bun", "hamburger buns"},
	{"pancake", "pancakes"},
	{"item", "items"},
}

// ParseYields canonicalizes a yield string to "<n> <unit>".
//
// The quantity is the first number in the text, so a range such as
// "4-6 servings" yields "4 servings". The unit is the longest known unit
// keyword found in the text (first listed wins on equal length), then
// "item(s)" for a few item words, else "serving(s)". Units are singular
// only when the quantity is exactly 1.
func ParseYields(value string) (string, error) {
	text := strings.TrimSpace(value)
	if text == "" {
		return "", errors.New("yield text is required")
	}

	quantity := yieldNumberRe.FindString(text)
	if quantity == "" {
		quantity = "0"
	}
	n, _ := strconv.ParseFloat(quantity, 64)

	lower := strings.ToLower(text)
	best, bestLen := "", 0
	for _, t := range yieldTypes {
		singular, plural := t[0], t[1]
		length := 0
		switch {
		case strings.Contains(lower, singular):
			length = len(singular)
		case strings.Contains(lower, plural):
			length = len(plural)
		}
		if length > bestLen {
			bestLen = length
			unit := plural
			if n == 1 {
				unit = singular
			}
			best = quantity + " " + unit
		}
	}
	if best != "" {
		return best, nil
	}

	suffix := ""
	if n != 1 {
		suffix = "s"
	}
	if yieldItemsRe.MatchString(text) {
		return quantity + " item" + suffix, nil
	}
	return quantity + " serving" + suffix, nil
}
