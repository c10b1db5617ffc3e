package search

// GraphMetric scores a whole DAG; larger is better. Callers wiring in a
// smaller-is-better metric (entropy, AIC, MDL) must negate it before
// passing it to Greedy, since the search algorithms only know how to
// maximize.
type GraphMetric func(parents map[string][]string) (float64, error)

type operator func(d *DAG, u, v string) (changed bool)

// operators is applied in this fixed order at every ordered pair; the
// source tries reverse_edge twice in a row.
var operators = []operator{opRemove, opAdd, opReverse, opReverse}

func opRemove(d *DAG, u, v string) bool { return d.RemoveEdge(u, v) }
func opAdd(d *DAG, u, v string) bool {
	changed, _ := d.AddEdge(u, v)
	return changed
}
func opReverse(d *DAG, u, v string) bool { return d.ReverseEdge(u, v) }

// GreedyResult is the outcome of hill-climbing search.
type GreedyResult struct {
	DAG        *DAG
	Score      float64
	SeenCases  int
}

// Greedy performs hill-climbing search over DAGs using add/remove/reverse
// edge operators. nodes fixes the ordering used to enumerate pairs
// (v1, v2) with index(v1) < index(v2). start, if non-nil, seeds the
// initial candidate graph; otherwise search begins unconnected.
// visitFraction bounds total operator applications to
// 2^(n(n-1)) * visitFraction before the search must stop without further
// improvement.
func Greedy(nodes []string, start *DAG, metric GraphMetric, visitFraction float64) (*GreedyResult, error) {
	n := len(nodes)
	candidate := NewDAG()
	for _, node := range nodes {
		candidate.AddNode(node)
	}
	if start != nil {
		for _, node := range start.Nodes() {
			candidate.AddNode(node)
		}
		for child, parents := range start.ParentMap() {
			for _, p := range parents {
				_, _ = candidate.AddEdge(p, child)
			}
		}
	}

	best := candidate.Copy()
	bestScore, err := metric(best.ParentMap())
	if err != nil {
		return nil, err
	}

	var budget float64
	if n > 1 {
		budget = pow2(n*(n-1)) * visitFraction
	} else {
		budget = 1
	}

	seenCases := 0

outer:
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i >= j {
				continue
			}
			v1, v2 := nodes[i], nodes[j]

			var candScore float64
			improved := false
			for _, op := range operators {
				changed := op(candidate, v1, v2)
				seenCases++
				if changed {
					s, err := metric(candidate.ParentMap())
					if err != nil {
						return nil, err
					}
					if !improved || s > candScore {
						candScore = s
						improved = true
					}
				}
			}

			if improved && candScore > bestScore {
				bestScore = candScore
				best = candidate.Copy()
			} else if float64(seenCases) >= budget {
				// Only stop early on a pair that made no improvement; a
				// still-improving search keeps going past budget.
				break outer
			}
		}
	}

	return &GreedyResult{DAG: best, Score: bestScore, SeenCases: seenCases}, nil
}

func pow2(e int) float64 {
	if e <= 0 {
		return 1
	}
	result := 1.0
	for i := 0; i < e; i++ {
		result *= 2
	}
	return result
}
