// Package report renders the demo driver's permutation sweep as a
// textual progress report: each tried ordering, cumulative percent of
// DAG space visited, the best-scoring ordering so far with its score, and
// a final summary. The learned DAG itself is not printed.
package report

import (
	"fmt"
	"io"

	"github.com/mwinters-dev/bnlearn/search"
)

// Writer accumulates sweep progress and renders it to an underlying
// writer line by line, the way the source's permutation loop prints as
// it goes rather than buffering a final report.
type Writer struct {
	out            io.Writer
	attempt        int
	cumulativeVisited float64
	bestScore      float64
	bestOrder      []string
	haveBest       bool
}

// New returns a Writer that writes progress lines to out.
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// TryPermutation records one attempted node ordering and its K2 result,
// writing a progress line and updating the running best.
func (w *Writer) TryPermutation(order []string, result *search.K2Result) {
	w.attempt++
	w.cumulativeVisited += result.VisitedPercent

	fmt.Fprintf(w.out, "[%d] trying permutation: %v\n", w.attempt, order)

	if !w.haveBest || result.Score > w.bestScore {
		w.bestScore = result.Score
		w.bestOrder = append([]string(nil), order...)
		w.haveBest = true
	}

	fmt.Fprintf(w.out, "cumulative space visited: %.4f%%\n", w.cumulativeVisited)
	fmt.Fprintf(w.out, "best ordering so far: %v with score %.6f\n\n", w.bestOrder, w.bestScore)
}

// Done reports whether the cumulative visited percentage has reached the
// given cap (the driver's exploration budget across orderings).
func (w *Writer) Done(capPercent float64) bool {
	return w.cumulativeVisited >= capPercent
}

// Summary writes the final summary line block.
func (w *Writer) Summary() {
	fmt.Fprintln(w.out, "structure search complete")
	fmt.Fprintf(w.out, "score: %.6f\n", w.bestScore)
	fmt.Fprintf(w.out, "ordering: %v\n", w.bestOrder)
	fmt.Fprintf(w.out, "space visited: %.4f%%\n", w.cumulativeVisited)
}

// Best returns the best ordering and score seen so far.
func (w *Writer) Best() ([]string, float64) {
	return w.bestOrder, w.bestScore
}
