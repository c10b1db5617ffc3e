package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwinters-dev/bnlearn/dataset"
	"github.com/mwinters-dev/bnlearn/scoring"
)

// chainRecoveryDataset builds an 8-row dataset over a deterministic chain
// A -> B -> C (B copies A, C copies B) with strong dependency, the S5
// recovery scenario.
func chainRecoveryDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	rows := [][]string{}
	for i := 0; i < 8; i++ {
		a := "y"
		if i%2 == 1 {
			a = "n"
		}
		b := a
		c := b
		rows = append(rows, []string{a, b, c})
	}
	ds, err := dataset.New([]string{"A", "B", "C"}, rows)
	require.NoError(t, err)
	return ds
}

func TestK2RecoversChain(t *testing.T) {
	ds := chainRecoveryDataset(t)

	metric := func(node string, parents []string) (float64, error) {
		return scoring.K2NodeLog(ds, node, parents)
	}

	result, err := K2([]string{"A", "B", "C"}, 1, metric)
	require.NoError(t, err)

	assert.Empty(t, result.DAG.Parents("A"))
	assert.Equal(t, []string{"A"}, result.DAG.Parents("B"))
	assert.Equal(t, []string{"B"}, result.DAG.Parents("C"))
}

func TestK2ParentsRespectOrdering(t *testing.T) {
	ds := chainRecoveryDataset(t)
	metric := func(node string, parents []string) (float64, error) {
		return scoring.K2NodeLog(ds, node, parents)
	}

	result, err := K2([]string{"C", "B", "A"}, 2, metric)
	require.NoError(t, err)

	for _, p := range result.DAG.Parents("B") {
		assert.Contains(t, []string{"C"}, p)
	}
}

func TestK2RejectsNegativeMaxParents(t *testing.T) {
	metric := func(node string, parents []string) (float64, error) { return 0, nil }
	_, err := K2([]string{"A"}, -1, metric)
	assert.Error(t, err)
}
