package schemaorg

import (
	"strconv"

	"github.com/ramkansal/recipe-scrapers/internal/parsing"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

var defaultTextProps = []string{"textValue", "name", "title", "@id"}

// TextValue canonicalizes a structured-data value to normalized text.
// Strings are used as is, numbers are formatted, arrays resolve their first
// element and objects yield the first string-valued key among props
// (textValue, name, title, @id by default). A total miss returns "".
func TextValue(v any, props ...string) string {
	if len(props) == 0 {
		props = defaultTextProps
	}
	var text string
	switch val := v.(type) {
	case string:
		text = val
	case float64:
		text = strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		text = strconv.Itoa(val)
	case []any:
		if len(val) > 0 {
			return TextValue(val[0], props...)
		}
	default:
		if e, ok := asEntity(v); ok {
			for _, p := range props {
				if s, ok := e[p].(string); ok {
					text = s
					break
				}
			}
		}
	}
	return parsing.NormalizeString(text)
}

// ValueToList turns an array of text values, or a comma-separated string,
// into an ordered set of unique non-empty strings.
func ValueToList(v any) *plugin.List {
	list := plugin.NewList()
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := TextValue(item); s != "" {
				list.Add(s)
			}
		}
	case string:
		for _, s := range parsing.SplitToList(TextValue(val), ",") {
			list.Add(s)
		}
	}
	return list
}

// empty reports whether a raw value carries nothing usable.
func empty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return parsing.NormalizeString(val) == ""
	case []any:
		return len(val) == 0
	}
	return false
}

// firstOf returns the first non-empty value among keys of e.
func firstOf(e Entity, keys ...string) any {
	for _, k := range keys {
		if v, ok := e[k]; ok && !empty(v) {
			return v
		}
	}
	return nil
}
