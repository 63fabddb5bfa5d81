// Package output persists batch results as JSON lines and plain-text reports.
package output

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

// JSONWriter streams one JSON object per result.
type JSONWriter struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
}

// NewJSONWriter writes JSON lines to w. w is not closed by Finalize.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w)}
}

// NewJSONFileWriter creates path and writes JSON lines to it.
func NewJSONFileWriter(path string) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	return &JSONWriter{enc: json.NewEncoder(f), closer: f}, nil
}

func (w *JSONWriter) Name() string { return "json" }

func (w *JSONWriter) WriteResult(result *plugin.ScrapeResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return errors.Wrap(w.enc.Encode(result), "encode result")
}

func (w *JSONWriter) Finalize(*plugin.RunSummary) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// Multi fans results out to several writers. Every writer is called even
// when an earlier one fails; the errors are combined.
type Multi []plugin.OutputWriter

func (m Multi) Name() string { return "multi" }

func (m Multi) WriteResult(result *plugin.ScrapeResult) error {
	var errs error
	for _, w := range m {
		errs = errors.CombineErrors(errs, errors.Wrapf(w.WriteResult(result), "%s writer", w.Name()))
	}
	return errs
}

func (m Multi) Finalize(summary *plugin.RunSummary) error {
	var errs error
	for _, w := range m {
		errs = errors.CombineErrors(errs, errors.Wrapf(w.Finalize(summary), "%s writer", w.Name()))
	}
	return errs
}
