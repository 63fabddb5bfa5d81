package diagnostics

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramkansal/recipe-scrapers/pkg/plugin"
)

func TestLedger_RecordSuccess(t *testing.T) {
	l := New()
	l.RecordSuccess("SiteA", plugin.FieldTitle)

	assert.Equal(t, []FieldSummary{
		{Field: "title", Successes: []string{"SiteA"}, Failures: []string{}},
	}, l.Summary())
	assert.Empty(t, l.Failures())
}

func TestLedger_SuccessAndFailureSameField(t *testing.T) {
	l := New()
	cause := errors.New("fail")
	l.RecordSuccess("SiteA", plugin.FieldTitle)
	l.RecordFailure("SiteB", plugin.FieldTitle, cause)

	assert.Equal(t, []FieldSummary{
		{Field: "title", Successes: []string{"SiteA"}, Failures: []string{"SiteB"}},
	}, l.Summary())

	failures := l.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, plugin.FieldTitle, failures[0].Field)
	assert.Equal(t, "SiteB", failures[0].Source)
	assert.Same(t, cause, failures[0].Cause)
}

func TestLedger_MultipleFields(t *testing.T) {
	l := New()
	l.RecordSuccess("A", plugin.FieldTitle)
	l.RecordFailure("B", plugin.FieldDescription, errors.New("err2"))
	l.RecordSuccess("C", plugin.FieldDescription)

	assert.Equal(t, []FieldSummary{
		{Field: "title", Successes: []string{"A"}, Failures: []string{}},
		{Field: "description", Successes: []string{"C"}, Failures: []string{"B"}},
	}, l.Summary())

	assert.Equal(t, []plugin.FailureRecord{
		{Field: "description", Source: "B", Cause: "err2"},
	}, l.Records())
}

func TestLedger_LastRecordWins(t *testing.T) {
	l := New()
	l.RecordFailure("A", plugin.FieldImage, errors.New("first"))
	l.RecordSuccess("B", plugin.FieldImage)
	l.RecordSuccess("A", plugin.FieldImage)

	assert.Equal(t, []FieldSummary{
		{Field: "image", Successes: []string{"A", "B"}, Failures: []string{}},
	}, l.Summary())
	assert.Empty(t, l.Failures())
}

func TestLedger_FailureWithoutCauseIsNotListed(t *testing.T) {
	l := New()
	l.RecordFailure("A", plugin.FieldImage, nil)

	assert.Equal(t, []string{"A"}, l.Summary()[0].Failures)
	assert.Empty(t, l.Failures())
}

func TestLedger_Report(t *testing.T) {
	l := New()
	l.RecordSuccess("SiteA", plugin.FieldTitle)
	l.RecordFailure("SiteB", plugin.FieldTitle, errors.New("error1"))
	l.RecordFailure("SiteC", plugin.FieldImage, errors.New("error2"))

	var buf bytes.Buffer
	require.NoError(t, l.Report(&buf))

	want := "--- Scraper Diagnostics Report ---\n" +
		"Field: title\n" +
		"  ✅ SiteA\n" +
		"  ❌ SiteB: error1\n" +
		"Field: image\n" +
		"  ❌ SiteC: error2\n" +
		"----------------------------------\n"
	assert.Equal(t, want, buf.String())
}

func TestLedger_ConcurrentWriters(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			source := fmt.Sprintf("src-%d", i)
			l.RecordSuccess(source, plugin.FieldTitle)
			l.RecordFailure(source, plugin.FieldImage, errors.New("boom"))
		}(i)
	}
	wg.Wait()

	summary := l.Summary()
	require.Len(t, summary, 2)
	total := 0
	for _, s := range summary {
		total += len(s.Successes) + len(s.Failures)
	}
	assert.Equal(t, 100, total)
	assert.Len(t, l.Failures(), 50)
}
