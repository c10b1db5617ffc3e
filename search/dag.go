// Package search maintains a mutable DAG and drives the K2, greedy
// hill-climbing, and PC structure-learning algorithms over it.
package search

import (
	"fmt"
	"sort"
)

// DAG is a directed acyclic graph of variable names, kept in parents-of-X
// form: each node maps to the set of its parents. Mutation happens only
// through AddEdge, RemoveEdge, and ReverseEdge, each of which preserves
// acyclicity.
type DAG struct {
	nodes   map[string]bool
	parents map[string]map[string]bool // child -> parents
	children map[string]map[string]bool // parent -> children, kept in sync for cycle checks
}

// NewDAG returns an empty DAG.
func NewDAG() *DAG {
	return &DAG{
		nodes:    make(map[string]bool),
		parents:  make(map[string]map[string]bool),
		children: make(map[string]map[string]bool),
	}
}

// AddNode registers node if it is not already present.
func (d *DAG) AddNode(node string) {
	if !d.nodes[node] {
		d.nodes[node] = true
		d.parents[node] = make(map[string]bool)
		d.children[node] = make(map[string]bool)
	}
}

// Nodes returns every node, sorted for deterministic iteration.
func (d *DAG) Nodes() []string {
	out := make([]string, 0, len(d.nodes))
	for n := range d.nodes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Parents returns the parent set of node, sorted.
func (d *DAG) Parents(node string) []string {
	out := make([]string, 0, len(d.parents[node]))
	for p := range d.parents[node] {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Children returns the child set of node, sorted.
func (d *DAG) Children(node string) []string {
	out := make([]string, 0, len(d.children[node]))
	for c := range d.children[node] {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// HasEdge reports whether u -> v exists.
func (d *DAG) HasEdge(u, v string) bool {
	return d.parents[v] != nil && d.parents[v][u]
}

// AddEdge inserts u -> v if it does not already exist and does not create
// a cycle. Returns changed=true iff the edge was newly added; err is
// non-nil only if the edge would create a cycle.
func (d *DAG) AddEdge(u, v string) (changed bool, err error) {
	d.AddNode(u)
	d.AddNode(v)
	if d.HasEdge(u, v) {
		return false, nil
	}
	if d.reaches(v, u) {
		return false, fmt.Errorf("search: adding edge %s->%s would create a cycle", u, v)
	}
	d.parents[v][u] = true
	d.children[u][v] = true
	return true, nil
}

// RemoveEdge deletes u -> v if present. Returns changed=true iff the edge
// existed.
func (d *DAG) RemoveEdge(u, v string) (changed bool) {
	if !d.HasEdge(u, v) {
		return false
	}
	delete(d.parents[v], u)
	delete(d.children[u], v)
	return true
}

// ReverseEdge replaces u -> v with v -> u. Defined only when u -> v
// exists; if reversing would create a cycle the original edge is
// restored and changed is false.
func (d *DAG) ReverseEdge(u, v string) (changed bool) {
	if !d.HasEdge(u, v) {
		return false
	}
	d.RemoveEdge(u, v)
	if _, err := d.AddEdge(v, u); err != nil {
		// restore the original edge; this cannot itself fail since it
		// existed a moment ago.
		_, _ = d.AddEdge(u, v)
		return false
	}
	return true
}

// reaches reports whether target is reachable from start by following
// child edges (a DFS with a visited guard). Used to test whether adding
// target -> start would close a cycle, i.e. start already reaches
// target.
func (d *DAG) reaches(start, target string) bool {
	if start == target {
		return true
	}
	visited := make(map[string]bool)
	var dfs func(string) bool
	dfs = func(node string) bool {
		if node == target {
			return true
		}
		if visited[node] {
			return false
		}
		visited[node] = true
		for child := range d.children[node] {
			if dfs(child) {
				return true
			}
		}
		return false
	}
	return dfs(start)
}

// TopoSort returns a topological order of nodes restricted to the given
// subset (used by inference to order hidden-variable elimination).
// Returns an error if subset induces a cycle, which cannot happen on a
// valid DAG but is checked defensively.
func (d *DAG) TopoSort(subset []string) ([]string, error) {
	in := make(map[string]bool, len(subset))
	for _, n := range subset {
		in[n] = true
	}

	indegree := make(map[string]int, len(subset))
	for _, n := range subset {
		count := 0
		for p := range d.parents[n] {
			if in[p] {
				count++
			}
		}
		indegree[n] = count
	}

	queue := make([]string, 0)
	for _, n := range subset {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	sort.Strings(queue)

	result := make([]string, 0, len(subset))
	for len(queue) > 0 {
		sort.Strings(queue)
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)
		for c := range d.children[node] {
			if !in[c] {
				continue
			}
			indegree[c]--
			if indegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if len(result) != len(subset) {
		return nil, fmt.Errorf("search: cycle detected restricted to subset")
	}
	return result, nil
}

// Copy returns a deep copy of d.
func (d *DAG) Copy() *DAG {
	out := NewDAG()
	for n := range d.nodes {
		out.AddNode(n)
	}
	for child, ps := range d.parents {
		for p := range ps {
			_, _ = out.AddEdge(p, child)
		}
	}
	return out
}

// ParentMap returns the DAG as a node->parents map, the representation
// the scoring package consumes.
func (d *DAG) ParentMap() map[string][]string {
	out := make(map[string][]string, len(d.nodes))
	for _, n := range d.Nodes() {
		out[n] = d.Parents(n)
	}
	return out
}
