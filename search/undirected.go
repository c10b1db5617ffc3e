package search

import "sort"

// UndirectedGraph is the skeleton PC builds before edge orientation.
type UndirectedGraph struct {
	nodes map[string]bool
	edges map[string]map[string]bool
}

// NewUndirectedGraph returns an empty undirected graph.
func NewUndirectedGraph() *UndirectedGraph {
	return &UndirectedGraph{
		nodes: make(map[string]bool),
		edges: make(map[string]map[string]bool),
	}
}

// AddNode registers node if not already present.
func (g *UndirectedGraph) AddNode(node string) {
	if !g.nodes[node] {
		g.nodes[node] = true
		g.edges[node] = make(map[string]bool)
	}
}

// AddEdge inserts an undirected edge between node1 and node2.
func (g *UndirectedGraph) AddEdge(node1, node2 string) {
	g.AddNode(node1)
	g.AddNode(node2)
	g.edges[node1][node2] = true
	g.edges[node2][node1] = true
}

// RemoveEdge deletes the undirected edge between node1 and node2.
func (g *UndirectedGraph) RemoveEdge(node1, node2 string) {
	if g.edges[node1] != nil {
		delete(g.edges[node1], node2)
	}
	if g.edges[node2] != nil {
		delete(g.edges[node2], node1)
	}
}

// HasEdge reports whether node1-node2 exists.
func (g *UndirectedGraph) HasEdge(node1, node2 string) bool {
	return g.edges[node1] != nil && g.edges[node1][node2]
}

// Nodes returns every node, sorted.
func (g *UndirectedGraph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Neighbors returns node's neighbors, sorted.
func (g *UndirectedGraph) Neighbors(node string) []string {
	out := make([]string, 0)
	for n := range g.edges[node] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Edges returns every edge once, as an unordered pair.
func (g *UndirectedGraph) Edges() [][2]string {
	out := make([][2]string, 0)
	seen := make(map[string]bool)
	for n1, neighbors := range g.edges {
		for n2 := range neighbors {
			a, b := n1, n2
			if a > b {
				a, b = b, a
			}
			k := a + "\x00" + b
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, [2]string{a, b})
		}
	}
	return out
}
