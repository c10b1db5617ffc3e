package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mwinters-dev/bnlearn/search"
)

func TestTryPermutationTracksBest(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.TryPermutation([]string{"A", "B", "C"}, &search.K2Result{Score: 1.0, VisitedPercent: 0.01})
	w.TryPermutation([]string{"B", "A", "C"}, &search.K2Result{Score: 3.0, VisitedPercent: 0.02})
	w.TryPermutation([]string{"C", "A", "B"}, &search.K2Result{Score: 2.0, VisitedPercent: 0.01})

	order, score := w.Best()
	assert.Equal(t, []string{"B", "A", "C"}, order)
	assert.Equal(t, 3.0, score)

	assert.Contains(t, buf.String(), "trying permutation")
	assert.Contains(t, buf.String(), "best ordering so far")
}

func TestDoneReportsBudgetExhaustion(t *testing.T) {
	w := New(&bytes.Buffer{})
	w.TryPermutation([]string{"A"}, &search.K2Result{Score: 1.0, VisitedPercent: 6})
	assert.True(t, w.Done(5))
	assert.False(t, w.Done(50))
}

func TestSummaryWritesScoreAndOrdering(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)
	w.TryPermutation([]string{"A", "B"}, &search.K2Result{Score: 4.5, VisitedPercent: 1})
	w.Summary()

	out := buf.String()
	assert.Contains(t, out, "structure search complete")
	assert.Contains(t, out, "4.500000")
}
