package learn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwinters-dev/bnlearn/dataset"
)

func chainDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	rows := [][]string{}
	for i := 0; i < 8; i++ {
		v := "y"
		if i%2 == 1 {
			v = "n"
		}
		rows = append(rows, []string{v, v, v})
	}
	ds, err := dataset.New([]string{"A", "B", "C"}, rows)
	require.NoError(t, err)
	return ds
}

func TestLearnStructureK2(t *testing.T) {
	ds := chainDataset(t)
	result, err := LearnStructure(ds, MetricK2, AlgorithmK2, 1.0, Params{
		K2: K2Params{MaxParents: 1, NodesOrder: []string{"A", "B", "C"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, result.DAG.Parents("B"))
	assert.Equal(t, []string{"B"}, result.DAG.Parents("C"))
}

func TestLearnStructureRejectsK2MetricWithGreedy(t *testing.T) {
	ds := chainDataset(t)
	_, err := LearnStructure(ds, MetricK2, AlgorithmGreedy, 1.0, Params{
		Greedy: GreedyParams{StartUnconnected: true, VisitSpace: 0.1},
	})
	assert.Error(t, err)
}

func TestLearnStructureRejectsBadNodesOrder(t *testing.T) {
	ds := chainDataset(t)
	_, err := LearnStructure(ds, MetricK2, AlgorithmK2, 1.0, Params{
		K2: K2Params{MaxParents: 1, NodesOrder: []string{"A", "B"}},
	})
	assert.Error(t, err)
}

func TestLearnStructureGreedyWithEntropy(t *testing.T) {
	ds := chainDataset(t)
	result, err := LearnStructure(ds, MetricEntropy, AlgorithmGreedy, 1.0, Params{
		Greedy: GreedyParams{StartUnconnected: true, VisitSpace: 0.2},
	})
	require.NoError(t, err)
	assert.NotNil(t, result.DAG)
}

func TestLearnStructurePCIgnoresMetric(t *testing.T) {
	ds := chainDataset(t)
	result, err := LearnStructure(ds, "", AlgorithmPC, 1.0, Params{
		PC: PCParams{Alpha: 0.05},
	})
	require.NoError(t, err)
	assert.NotNil(t, result.DAG)
}

func TestPredictEndToEnd(t *testing.T) {
	ds := chainDataset(t)
	result, err := LearnStructure(ds, MetricK2, AlgorithmK2, 1.0, Params{
		K2: K2Params{MaxParents: 1, NodesOrder: []string{"A", "B", "C"}},
	})
	require.NoError(t, err)

	dist, err := Predict(ds, result.DAG, "C", []string{"A"}, []string{"y"}, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, dist.Sum(), 1e-9)
}
