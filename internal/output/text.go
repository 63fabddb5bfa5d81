package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// TextWriter writes a plain-text batch report: one line per document,
// then a summary with the fields that failed most often.
type TextWriter struct {
	path  string
	lines []string
	mu    sync.Mutex
}

// NewTextWriter creates a new plain-text report writer.
func NewTextWriter(path string) *TextWriter {
	return &TextWriter{path: path}
}

func (w *TextWriter) Name() string { return "text" }

func (w *TextWriter) WriteResult(result *plugin.ScrapeResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	status := "ok"
	switch {
	case result.Error != "":
		status = "err"
	case result.Cached:
		status = "cached"
	}
	line := fmt.Sprintf("  [%s] %s (%s)", status, result.Source, FmtDur(result.Duration))
	if n := len(result.Failures); n > 0 {
		line += fmt.Sprintf(" [failures:%d]", n)
	}
	w.lines = append(w.lines, line)
	if result.Error != "" {
		w.lines = append(w.lines, "      +-- "+result.Error)
	}
	return nil
}

func (w *TextWriter) Finalize(summary *plugin.RunSummary) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var b strings.Builder

	b.WriteString("\n  RECIPE SCRAPERS batch report\n")
	b.WriteString("  " + strings.Repeat("-", 58) + "\n\n")

	b.WriteString(fmt.Sprintf("  Run:     %s\n", summary.RunID))
	b.WriteString(fmt.Sprintf("  Root:    %s\n", summary.Root))
	b.WriteString(fmt.Sprintf("  Started: %s\n\n", summary.StartedAt.Format(time.RFC1123)))

	// Lines are in completion order.
	for _, line := range w.lines {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n  " + strings.Repeat("-", 50) + "\n")
	b.WriteString("  Batch complete\n")
	b.WriteString(fmt.Sprintf("    Pages:  %d scraped, %d errors, %d cached\n", summary.TotalPages, summary.TotalErrors, summary.CacheHits))
	b.WriteString(fmt.Sprintf("    Time:   %s\n", FmtDur(summary.Duration)))
	if fields := FailureCounts(summary.FailureFields); fields != "" {
		b.WriteString("    Fields: " + fields + "\n")
	}
	b.WriteString("\n")

	return os.WriteFile(w.path, []byte(b.String()), 0o644)
}

// ---------- helpers ----------

// FailureCounts renders field failure counts, most frequent first.
func FailureCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return ""
	}
	fields := make([]string, 0, len(counts))
	for f := range counts {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		if counts[fields[i]] != counts[fields[j]] {
			return counts[fields[i]] > counts[fields[j]]
		}
		return fields[i] < fields[j]
	})
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s:%d", f, counts[f])
	}
	return strings.Join(parts, ", ")
}

// FmtDur renders a duration compactly (ms, s or m+s).
func FmtDur(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", m, s)
}
