package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwinters-dev/bnlearn/dataset"
)

func TestPCProducesAcyclicDAG(t *testing.T) {
	ds := chainRecoveryDataset(t)
	result, err := PC(ds, []string{"A", "B", "C"}, 0.05)
	require.NoError(t, err)

	_, err = result.DAG.TopoSort(result.DAG.Nodes())
	assert.NoError(t, err)
	assert.Greater(t, result.Tests, 0)
}

func TestPCOnIndependentVariablesFindsNoEdges(t *testing.T) {
	rows := [][]string{}
	for i := 0; i < 16; i++ {
		a := "y"
		if i%2 == 1 {
			a = "n"
		}
		b := "y"
		if (i/2)%2 == 1 {
			b = "n"
		}
		rows = append(rows, []string{a, b})
	}
	ds, err := dataset.New([]string{"A", "B"}, rows)
	require.NoError(t, err)

	result, err := PC(ds, []string{"A", "B"}, 0.05)
	require.NoError(t, err)
	assert.False(t, result.DAG.HasEdge("A", "B"))
	assert.False(t, result.DAG.HasEdge("B", "A"))
}
