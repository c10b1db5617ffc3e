package search

import "github.com/mwinters-dev/bnlearn/dataset"

// PCResult is the outcome of constraint-based structure learning.
type PCResult struct {
	DAG   *DAG
	Tests int
}

// PC learns a DAG with the Peter-Clark constraint-based algorithm: build
// the complete skeleton, remove edges whose endpoints test conditionally
// independent given some subset of neighbors, then orient the remaining
// edges via v-structure detection and Meek's rules. alpha is the
// significance level for the underlying chi-square independence tests
// (p > alpha means "independent enough to drop the edge").
func PC(ds *dataset.Dataset, variables []string, alpha float64) (*PCResult, error) {
	ug := NewUndirectedGraph()
	for _, v := range variables {
		ug.AddNode(v)
	}
	for i := 0; i < len(variables); i++ {
		for j := i + 1; j < len(variables); j++ {
			ug.AddEdge(variables[i], variables[j])
		}
	}

	sepSets := make(map[string]map[string][]string, len(variables))
	for _, v := range variables {
		sepSets[v] = make(map[string][]string)
	}

	tests := 0
	maxCondSetSize := len(variables) - 2
	for condSetSize := 0; condSetSize <= maxCondSetSize; condSetSize++ {
		changed := false

		for _, x := range variables {
			neighbors := ug.Neighbors(x)

			for _, y := range neighbors {
				potentialCond := make([]string, 0, len(neighbors))
				for _, n := range neighbors {
					if n != y {
						potentialCond = append(potentialCond, n)
					}
				}

				for _, condSet := range combinations(potentialCond, condSetSize) {
					_, pValue := ChiSquareTest(ds, x, y, condSet)
					tests++

					if pValue > alpha {
						ug.RemoveEdge(x, y)
						sepSets[x][y] = condSet
						sepSets[y][x] = condSet
						changed = true
						break
					}
				}

				if changed {
					break
				}
			}
			if changed {
				break
			}
		}

		if !changed && condSetSize > 0 {
			break
		}
	}

	dag := orientSkeleton(ug, variables, sepSets)
	return &PCResult{DAG: dag, Tests: tests}, nil
}

// orientSkeleton converts the PC skeleton into a DAG: v-structures first,
// then Meek's rules 1-4 iterated to a fixed point, then any still-
// unoriented edges are fixed in lexicographic order so the result is
// always a full DAG rather than a partially-oriented mixed graph.
func orientSkeleton(ug *UndirectedGraph, variables []string, sepSets map[string]map[string][]string) *DAG {
	dag := NewDAG()
	for _, n := range ug.Nodes() {
		dag.AddNode(n)
	}

	oriented := make(map[string]map[string]bool, len(variables))
	unoriented := make(map[string]map[string]bool, len(variables))
	for _, v := range variables {
		oriented[v] = make(map[string]bool)
		unoriented[v] = make(map[string]bool)
	}
	for _, edge := range ug.Edges() {
		n1, n2 := edge[0], edge[1]
		unoriented[n1][n2] = true
		unoriented[n2][n1] = true
	}

	orient := func(parent, child string) {
		oriented[parent][child] = true
		delete(unoriented[parent], child)
		delete(unoriented[child], parent)
	}

	for _, z := range variables {
		neighbors := ug.Neighbors(z)
		for i := 0; i < len(neighbors); i++ {
			for j := i + 1; j < len(neighbors); j++ {
				x, y := neighbors[i], neighbors[j]
				if ug.HasEdge(x, y) {
					continue
				}
				zInSepSet := false
				for _, s := range sepSets[x][y] {
					if s == z {
						zInSepSet = true
						break
					}
				}
				if !zInSepSet {
					orient(x, z)
					orient(y, z)
				}
			}
		}
	}

	changed := true
	for changed {
		changed = false
		changed = meekRule1(ug, oriented, unoriented, orient) || changed
		changed = meekRule2(oriented, unoriented, orient) || changed
		changed = meekRule3(ug, oriented, unoriented, orient) || changed
		changed = meekRule4(ug, oriented, unoriented, orient) || changed
	}

	for parent, children := range oriented {
		for child := range children {
			_, _ = dag.AddEdge(parent, child)
		}
	}

	for n1, neighbors := range unoriented {
		for n2 := range neighbors {
			if n1 < n2 && unoriented[n2][n1] {
				if !dag.HasEdge(n1, n2) && !dag.HasEdge(n2, n1) {
					_, _ = dag.AddEdge(n1, n2)
				}
			}
		}
	}

	return dag
}

type orientFunc func(parent, child string)

// meekRule1 orients i-j as i->j whenever k->i exists and k, j are not
// adjacent (propagating v-structures without creating new ones).
func meekRule1(ug *UndirectedGraph, oriented, unoriented map[string]map[string]bool, orient orientFunc) bool {
	changed := false
	for i, neighbors := range unoriented {
		for j := range neighbors {
			if !unoriented[j][i] {
				continue
			}
			for k := range oriented {
				if oriented[k][i] && k != j && !ug.HasEdge(k, j) {
					orient(i, j)
					changed = true
					break
				}
			}
		}
	}
	return changed
}

// meekRule2 orients i-j as i->j whenever a directed chain i->k->j exists
// (avoiding the cycle i-j->...->i).
func meekRule2(oriented, unoriented map[string]map[string]bool, orient orientFunc) bool {
	changed := false
	for i, neighbors := range unoriented {
		for j := range neighbors {
			if !unoriented[j][i] {
				continue
			}
			for k := range oriented[i] {
				if oriented[k][j] && k != j {
					orient(i, j)
					changed = true
					break
				}
			}
		}
	}
	return changed
}

// meekRule3 orients i-j as i->j whenever two chains i-k->j and i-l->j
// exist with k, l not adjacent.
func meekRule3(ug *UndirectedGraph, oriented, unoriented map[string]map[string]bool, orient orientFunc) bool {
	changed := false
	for i, neighbors := range unoriented {
		for j := range neighbors {
			if !unoriented[j][i] {
				continue
			}
			candidates := make([]string, 0)
			for k := range unoriented[i] {
				if oriented[k][j] && k != j {
					candidates = append(candidates, k)
				}
			}
			done := false
			for a := 0; a < len(candidates) && !done; a++ {
				for b := a + 1; b < len(candidates); b++ {
					k, l := candidates[a], candidates[b]
					if !ug.HasEdge(k, l) {
						orient(i, j)
						changed = true
						done = true
						break
					}
				}
			}
		}
	}
	return changed
}

// meekRule4 orients i-j as i->j whenever a chain i-k->l->j exists with
// k and j not adjacent.
func meekRule4(ug *UndirectedGraph, oriented, unoriented map[string]map[string]bool, orient orientFunc) bool {
	changed := false
	for i, neighbors := range unoriented {
		for j := range neighbors {
			if !unoriented[j][i] {
				continue
			}
			done := false
			for k := range unoriented[i] {
				if done {
					break
				}
				if ug.HasEdge(k, j) || k == j {
					continue
				}
				for l := range oriented[k] {
					if oriented[l][j] && l != j {
						orient(i, j)
						changed = true
						done = true
						break
					}
				}
			}
		}
	}
	return changed
}
