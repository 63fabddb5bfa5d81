package schemaorg

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

var (
	jsonLDOpeners = []string{"<!--", "//<![CDATA[", "<![CDATA["}
	jsonLDClosers = []string{"-->", "//]]>", "]]>"}
)

// scanJSONLD decodes every ld+json script and keeps graphs and typed nodes.
func scanJSONLD(doc *goquery.Document, log zerolog.Logger) []Entity {
	var blocks []Entity
	doc.Find("script[type]").Each(func(i int, s *goquery.Selection) {
		typ, _ := s.Attr("type")
		if !strings.EqualFold(strings.TrimSpace(typ), "application/ld+json") {
			return
		}
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		data, err := decodeJSONLD(raw)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("failed to parse JSON-LD")
			return
		}

		candidates := []any{data}
		if arr, ok := data.([]any); ok {
			candidates = arr
		}
		for _, c := range candidates {
			e, ok := asEntity(c)
			if !ok {
				continue
			}
			if _, isGraph := e.Graph(); isGraph || e.Typed() {
				blocks = append(blocks, e)
			}
		}
	})
	return blocks
}

// decodeJSONLD parses raw as is, and only when that fails retries with
// comment and CDATA wrappers and a trailing ";" removed from the ends.
func decodeJSONLD(raw string) (any, error) {
	var data any
	err := json.Unmarshal([]byte(raw), &data)
	if err == nil {
		return data, nil
	}
	unwrapped := unwrapJSONLD(raw)
	if unwrapped == raw {
		return nil, err
	}
	if err := json.Unmarshal([]byte(unwrapped), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func unwrapJSONLD(text string) string {
	for {
		prev := text
		text = strings.TrimSpace(text)
		for _, w := range jsonLDOpeners {
			text = strings.TrimSpace(strings.TrimPrefix(text, w))
		}
		for _, w := range jsonLDClosers {
			text = strings.TrimSpace(strings.TrimSuffix(text, w))
		}
		text = strings.TrimSpace(strings.TrimSuffix(text, ";"))
		if text == prev {
			return text
		}
	}
}
