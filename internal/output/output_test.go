package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

func TestJSONWriter_Lines(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	require.NoError(t, w.WriteResult(&plugin.ScrapeResult{Source: "a.html", Recipe: json.RawMessage(`{"title":"A"}`)}))
	require.NoError(t, w.WriteResult(&plugin.ScrapeResult{Source: "b.html", Error: "boom"}))
	require.NoError(t, w.Finalize(&plugin.RunSummary{}))

	sc := bufio.NewScanner(&buf)
	var got []plugin.ScrapeResult
	for sc.Scan() {
		var r plugin.ScrapeResult
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		got = append(got, r)
	}
	require.Len(t, got, 2)
	assert.JSONEq(t, `{"title":"A"}`, string(got[0].Recipe))
	assert.Equal(t, "boom", got[1].Error)
}

func TestJSONFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	w, err := NewJSONFileWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteResult(&plugin.ScrapeResult{Source: "a.html"}))
	require.NoError(t, w.Finalize(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"source":"a.html"`)
}

func TestTextWriter_Report(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	w := NewTextWriter(path)

	require.NoError(t, w.WriteResult(&plugin.ScrapeResult{Source: "a.html", Duration: 1500 * time.Millisecond,
		Failures: []plugin.FailureRecord{{Field: "ratings"}}}))
	require.NoError(t, w.WriteResult(&plugin.ScrapeResult{Source: "b.html", Error: "no extractor found for field: title"}))
	require.NoError(t, w.WriteResult(&plugin.ScrapeResult{Source: "c.html", Cached: true}))
	require.NoError(t, w.Finalize(&plugin.RunSummary{
		RunID:         "run-1",
		Root:          "pages",
		TotalPages:    2,
		TotalErrors:   1,
		CacheHits:     1,
		Duration:      2 * time.Minute,
		FailureFields: map[string]int{"ratings": 1, "title": 3, "cuisine": 1},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	report := string(data)
	assert.Contains(t, report, "  [ok] a.html (1.5s) [failures:1]\n")
	assert.Contains(t, report, "  [err] b.html (0ms)\n      +-- no extractor found for field: title\n")
	assert.Contains(t, report, "  [cached] c.html (0ms)\n")
	assert.Contains(t, report, "Pages:  2 scraped, 1 errors, 1 cached")
	assert.Contains(t, report, "Time:   2m0s")
	assert.Contains(t, report, "Fields: title:3, cuisine:1, ratings:1")
}

type failingWriter struct{}

func (failingWriter) Name() string                           { return "broken" }
func (failingWriter) WriteResult(*plugin.ScrapeResult) error { return errors.New("disk full") }
func (failingWriter) Finalize(*plugin.RunSummary) error      { return nil }

func TestMulti(t *testing.T) {
	var buf bytes.Buffer
	m := Multi{failingWriter{}, NewJSONWriter(&buf)}

	err := m.WriteResult(&plugin.ScrapeResult{Source: "a.html"})
	assert.ErrorContains(t, err, "broken writer: disk full")
	assert.Contains(t, buf.String(), "a.html", "later writers still run")
	assert.NoError(t, m.Finalize(&plugin.RunSummary{}))
}

func TestFmtDur(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{2500 * time.Millisecond, "2.5s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FmtDur(tt.in))
		})
	}
}
