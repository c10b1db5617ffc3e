package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdgeRejectsCycle(t *testing.T) {
	d := NewDAG()
	_, err := d.AddEdge("A", "B")
	require.NoError(t, err)
	_, err = d.AddEdge("B", "C")
	require.NoError(t, err)

	_, err = d.AddEdge("C", "A")
	assert.Error(t, err)
	assert.False(t, d.HasEdge("C", "A"))
}

func TestAddEdgeIdempotent(t *testing.T) {
	d := NewDAG()
	changed, err := d.AddEdge("A", "B")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = d.AddEdge("A", "B")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRemoveEdge(t *testing.T) {
	d := NewDAG()
	_, _ = d.AddEdge("A", "B")
	assert.True(t, d.RemoveEdge("A", "B"))
	assert.False(t, d.RemoveEdge("A", "B"))
	assert.False(t, d.HasEdge("A", "B"))
}

func TestReverseEdge(t *testing.T) {
	d := NewDAG()
	_, _ = d.AddEdge("A", "B")
	changed := d.ReverseEdge("A", "B")
	assert.True(t, changed)
	assert.True(t, d.HasEdge("B", "A"))
	assert.False(t, d.HasEdge("A", "B"))
}

func TestReverseEdgeRestoresOnCycle(t *testing.T) {
	d := NewDAG()
	_, _ = d.AddEdge("A", "B")
	_, _ = d.AddEdge("B", "C")
	_, _ = d.AddEdge("A", "C")

	changed := d.ReverseEdge("A", "C")
	assert.False(t, changed)
	assert.True(t, d.HasEdge("A", "C"))
}

func TestTopoSortRespectsOrder(t *testing.T) {
	d := NewDAG()
	_, _ = d.AddEdge("A", "B")
	_, _ = d.AddEdge("B", "C")

	order, err := d.TopoSort([]string{"A", "B", "C"})
	require.NoError(t, err)
	pos := make(map[string]int)
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos["A"], pos["B"])
	assert.Less(t, pos["B"], pos["C"])
}

func TestDAGSpaceRobinsonValues(t *testing.T) {
	assert.Equal(t, int64(1), DAGSpace(0))
	assert.Equal(t, int64(25), DAGSpace(3))
	assert.Equal(t, int64(543), DAGSpace(4))
}
