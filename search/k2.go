package search

import (
	"fmt"
)

// NodeMetric scores a single node given a candidate parent set; larger is
// better. K2's metric is evaluated this way, one node at a time.
type NodeMetric func(node string, parents []string) (float64, error)

// K2Result is the outcome of running K2: the learned DAG, the aggregate
// score (sum over nodes of each node's best score), and the percentage of
// the DAG_space(n) it explored.
type K2Result struct {
	DAG             *DAG
	Score           float64
	VisitedPercent  float64
	Steps           int
}

// K2 runs the K2 ordered-parent-selection algorithm. order must list
// every node exactly once; candidate parents for order[i] are drawn only
// from order[:i], so the result is acyclic by construction. maxParents
// caps the number of parents committed per node.
func K2(order []string, maxParents int, metric NodeMetric) (*K2Result, error) {
	if maxParents < 0 {
		return nil, fmt.Errorf("search: max_parents must be >= 0")
	}

	dag := NewDAG()
	for _, n := range order {
		dag.AddNode(n)
	}

	var totalScore float64
	steps := 0

	for i, v := range order {
		pool := append([]string(nil), order[:i]...)
		parents := make([]string, 0, maxParents)

		bestScore, err := metric(v, parents)
		if err != nil {
			return nil, fmt.Errorf("search: k2 scoring %s: %w", v, err)
		}
		steps++

		for len(pool) > 0 {
			bestIdx := -1
			var bestCandidateScore float64
			for idx, z := range pool {
				trial := append(append([]string(nil), parents...), z)
				s, err := metric(v, trial)
				if err != nil {
					return nil, fmt.Errorf("search: k2 scoring %s: %w", v, err)
				}
				steps++
				// Ties go to the candidate latest in the ordering, the
				// nearest predecessor of v.
				if bestIdx == -1 || s >= bestCandidateScore {
					bestIdx = idx
					bestCandidateScore = s
				}
			}
			// The cap gates commit, not evaluation: every remaining
			// candidate is scored each round even once max_parents is
			// the binding constraint.
			if bestCandidateScore <= bestScore || len(parents) >= maxParents {
				break
			}
			parents = append(parents, pool[bestIdx])
			bestScore = bestCandidateScore
			pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
		}

		for _, p := range parents {
			if _, err := dag.AddEdge(p, v); err != nil {
				return nil, fmt.Errorf("search: k2 internal: %w", err)
			}
		}
		totalScore += bestScore
	}

	return &K2Result{
		DAG:            dag,
		Score:          totalScore,
		VisitedPercent: VisitedFraction(steps, len(order)),
		Steps:          steps,
	}, nil
}
