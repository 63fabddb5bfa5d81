package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soup.html")
	html := `<html><head><link rel="canonical" href="https://example.com/soup"></head><body><h1>Soup</h1></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(html), 0o644))

	l := New(Config{})
	defer l.Close()

	page, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, page.Source)
	assert.Equal(t, "https://example.com/soup", page.URL)
	assert.Equal(t, "file", page.LoaderUsed)
	assert.Equal(t, len(html), page.Size)
	assert.Equal(t, "Soup", page.Doc.Find("h1").Text())

	again, err := l.Load(context.Background(), "file://"+filepath.ToSlash(path))
	require.NoError(t, err)
	assert.Equal(t, page.HTML, again.HTML)
}

func TestFileLoader_Errors(t *testing.T) {
	l := New(Config{})

	_, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)

	_, err = l.Load(context.Background(), "https://example.com/recipe")
	assert.ErrorContains(t, err, "only local files can be loaded")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Load(ctx, "whatever.html")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDocumentURL(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"canonical", `<link rel="canonical" href="https://a.com/r">`, "https://a.com/r"},
		{"og url", `<meta property="og:url" content="https://b.com/r">`, "https://b.com/r"},
		{"relative canonical falls through", `<link rel="canonical" href="/r"><meta property="og:url" content="https://c.com/r">`, "https://c.com/r"},
		{"none", `<p>nothing</p>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, DocumentURL(doc))
		})
	}
}

func TestParse(t *testing.T) {
	page, err := Parse("stdin", []byte(`<meta property="og:url" content="https://example.com/x"><p>hi</p>`))
	require.NoError(t, err)
	assert.Equal(t, "stdin", page.Source)
	assert.Equal(t, "memory", page.LoaderUsed)
	assert.Equal(t, "https://example.com/x", page.URL)
	assert.Equal(t, "hi", page.Doc.Find("p").Text())
}
