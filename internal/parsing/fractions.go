package parsing

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

var unicodeFractions = []struct {
	glyph string
	value float64
}{
	{"½", 0.5},
	{"⅓", 1.0 / 3},
	{"⅔", 2.0 / 3},
	{"¼", 0.25},
	{"¾", 0.75},
	{"⅕", 0.2},
	{"⅖", 0.4},
	{"⅗", 0.6},
	{"⅘", 0.8},
	{"⅙", 1.0 / 6},
	{"⅚", 5.0 / 6},
	{"⅛", 0.125},
	{"⅜", 0.375},
	{"⅝", 0.625},
	{"⅞", 0.875},
}

// ParseFraction reads quantities such as "½", "1⅔", "1 1/2", "3/4" or "2.5".
func ParseFraction(value string) (float64, error) {
	text := strings.TrimSpace(value)
	if text == "" {
		return 0, errors.New("empty fraction")
	}

	for _, f := range unicodeFractions {
		if whole, _, ok := strings.Cut(text, f.glyph); ok {
			whole = strings.TrimSpace(whole)
			if whole == "" {
				return f.value, nil
			}
			n, err := strconv.ParseFloat(whole, 64)
			if err != nil {
				return 0, errors.Newf("unrecognized fraction format: %s", text)
			}
			return n + f.value, nil
		}
	}

	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return n, nil
	}

	if whole, frac, ok := strings.Cut(text, " "); ok && strings.Contains(frac, "/") {
		w, err := strconv.ParseFloat(whole, 64)
		if err != nil {
			return 0, errors.Newf("unrecognized fraction format: %s", text)
		}
		f, err := simpleFraction(strings.TrimSpace(frac))
		if err != nil {
			return 0, err
		}
		return w + f, nil
	}

	if strings.Contains(text, "/") {
		return simpleFraction(text)
	}

	return 0, errors.Newf("unrecognized fraction format: %s", text)
}

func simpleFraction(text string) (float64, error) {
	num, den, _ := strings.Cut(text, "/")
	n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
	d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0, errors.Newf("unrecognized fraction format: %s", text)
	}
	return n / d, nil
}
