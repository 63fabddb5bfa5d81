package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramkansal/recipe-scrapers/internal/sites"
	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
	"github.com/ramkansal/recipe-scrapers/pkg/scraper"
)

const recipeHTML = `<html><head><script type="application/ld+json">
{"@type": "Recipe", "name": "Chili", "author": "Kim", "description": "Hot.",
 "image": "https://example.com/c.jpg", "recipeIngredient": ["1 can beans", "2 chillies"],
 "recipeInstructions": "Cook slowly.", "recipeYield": "6"}
</script></head><body><a href="https://example.com/more">More</a></body></html>`

func newTestServer(t *testing.T, opts scraper.Options) *Server {
	t.Helper()
	return New(Config{MaxBodyBytes: 1 << 16, Options: opts}, zerolog.Nop())
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

type response struct {
	Recipe      map[string]any `json:"recipe"`
	Error       string         `json:"error"`
	Diagnostics struct {
		Summary []struct {
			Field     string   `json:"field"`
			Successes []string `json:"successes"`
		} `json:"summary"`
		Failures []plugin.FailureRecord `json:"failures"`
	} `json:"diagnostics"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var r response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	return r
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, scraper.Options{})
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","sites":6}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestScrape_OK(t *testing.T) {
	s := newTestServer(t, scraper.Options{})
	rec := do(t, s, http.MethodPost, "/v1/scrape", map[string]any{
		"url":   "https://example.com/chili",
		"html":  recipeHTML,
		"links": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	r := decode(t, rec)
	assert.Equal(t, "Chili", r.Recipe["title"])
	assert.Equal(t, "6 servings", r.Recipe["yields"])
	assert.Equal(t, []any{"1 can beans", "2 chillies"}, r.Recipe["ingredients"])
	assert.Equal(t, []any{map[string]any{"href": "https://example.com/more", "text": "More"}}, r.Recipe["links"])
	assert.NotEmpty(t, r.Diagnostics.Summary)
	assert.Empty(t, r.Error)
}

func TestScrape_MissingRequiredField(t *testing.T) {
	s := newTestServer(t, scraper.Options{})
	rec := do(t, s, http.MethodPost, "/v1/scrape", map[string]any{
		"url":  "https://example.com/none",
		"html": "<html><body>no recipe here</body></html>",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	r := decode(t, rec)
	assert.Equal(t, "no extractor found for field: author", r.Error)
	assert.Nil(t, r.Recipe)
	assert.NotEmpty(t, r.Diagnostics.Failures)
}

func TestScrape_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing html", map[string]any{"url": "https://example.com"}, http.StatusBadRequest},
		{"missing url", map[string]any{"html": "<p></p>"}, http.StatusBadRequest},
		{"bad url", map[string]any{"url": "not a url", "html": "<p></p>"}, http.StatusBadRequest},
	}
	s := newTestServer(t, scraper.Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/scrape", tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, decode(t, rec).Error)
		})
	}
}

func TestScrape_RequireSite(t *testing.T) {
	s := newTestServer(t, scraper.Options{RequireSite: true})
	rec := do(t, s, http.MethodPost, "/v1/scrape", map[string]any{
		"url":  "https://unknown.example/chili",
		"html": recipeHTML,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "unknown.example is not currently supported", decode(t, rec).Error)
}

func TestScrape_CustomCatalog(t *testing.T) {
	catalog := sites.NewCatalog(&plugin.Site{
		Name: "Chili House",
		Host: "chili.example",
		Overrides: map[plugin.Field]plugin.OverrideFunc{
			plugin.FieldSiteName: sites.Constant("Chili House"),
		},
	})
	s := New(Config{Catalog: catalog, Options: scraper.Options{RequireSite: true}}, zerolog.Nop())

	rec := do(t, s, http.MethodPost, "/v1/scrape", map[string]any{
		"url":  "https://www.chili.example/r/1",
		"html": recipeHTML,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Chili House", decode(t, rec).Recipe["siteName"])

	rec = do(t, s, http.MethodGet, "/v1/sites", nil)
	assert.JSONEq(t, `{"sites":[{"host":"chili.example","name":"Chili House"}]}`, rec.Body.String())
}

func TestBodySizeLimit(t *testing.T) {
	s := New(Config{MaxBodyBytes: 64}, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/v1/scrape", strings.NewReader(strings.Repeat("x", 128)))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
