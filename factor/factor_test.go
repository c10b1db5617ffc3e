package factor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwinters-dev/bnlearn/dataset"
)

func studentDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New([]string{"Difficulty", "Grade"}, [][]string{
		{"easy", "A"}, {"easy", "A"}, {"easy", "B"},
		{"hard", "B"}, {"hard", "C"}, {"hard", "C"},
	})
	require.NoError(t, err)
	return ds
}

func TestConditionalDistributionSumsToOne(t *testing.T) {
	ds := studentDataset(t)
	f, err := New(ds, "Grade", []string{"Difficulty"}, 1.0)
	require.NoError(t, err)

	cd, err := f.ConditionalDistribution()
	require.NoError(t, err)

	for _, d := range ds.Domain("Difficulty") {
		var total float64
		cd.Entries(func(vals []string, p float64) {
			if vals[1] == d {
				total += p
			}
		})
		assert.InDelta(t, 1.0, total, 1e-9)
	}
}

func TestJointDistributionSumsToOne(t *testing.T) {
	ds := studentDataset(t)
	f, err := New(ds, "Grade", []string{"Difficulty"}, 1.0)
	require.NoError(t, err)

	jd, err := f.JointDistribution()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, jd.Sum(), 1e-9)
}

func TestMarginalOfJointMatchesDirectMarginal(t *testing.T) {
	ds := studentDataset(t)
	f, err := New(ds, "Grade", []string{"Difficulty"}, 1.0)
	require.NoError(t, err)
	jd, err := f.JointDistribution()
	require.NoError(t, err)

	marg := Marginalize(jd, "Grade")

	direct, err := New(ds, "Difficulty", nil, 1.0)
	require.NoError(t, err)
	directDist, err := direct.JointDistribution()
	require.NoError(t, err)

	for _, d := range ds.Domain("Difficulty") {
		p1, ok1 := marg.Value([]string{d})
		p2, ok2 := directDist.Value([]string{d})
		require.True(t, ok1)
		require.True(t, ok2)
		assert.InDelta(t, p2, p1, 1e-9)
	}
}

func TestProductCommutativeOnSharedScope(t *testing.T) {
	ds := studentDataset(t)
	fa, err := New(ds, "Difficulty", nil, 1.0)
	require.NoError(t, err)
	fb, err := New(ds, "Grade", []string{"Difficulty"}, 1.0)
	require.NoError(t, err)

	ta, err := fa.JointDistribution()
	require.NoError(t, err)
	tb, err := fb.ConditionalDistribution()
	require.NoError(t, err)

	ab := Product(ta, tb)
	ba := Product(tb, ta)

	assert.Equal(t, len(ab.Vars()), len(ba.Vars()))
	ab.Entries(func(vals []string, p float64) {
		idx := indexOf(ab.Vars())
		baIdx := indexOf(ba.Vars())
		row := make([]string, len(ba.Vars()))
		for v, i := range baIdx {
			row[i] = vals[idx[v]]
		}
		p2, ok := ba.Value(row)
		require.True(t, ok)
		assert.InDelta(t, p, p2, 1e-9)
	})
}

func TestFilterDropsFixedVariable(t *testing.T) {
	ds := studentDataset(t)
	f, err := New(ds, "Grade", []string{"Difficulty"}, 1.0)
	require.NoError(t, err)
	cd, err := f.ConditionalDistribution()
	require.NoError(t, err)

	filtered := cd.Filter(map[string]string{"Difficulty": "easy"}, true)
	assert.Equal(t, []string{"Grade"}, filtered.Vars())
}

func TestProbabilityErrorsOnArityMismatch(t *testing.T) {
	ds := studentDataset(t)
	f, err := New(ds, "Grade", []string{"Difficulty"}, 1.0)
	require.NoError(t, err)

	_, err = f.Probability("A", []string{"easy", "extra"})
	assert.Error(t, err)
}

func TestNewRejectsUnknownVariable(t *testing.T) {
	ds := studentDataset(t)
	_, err := New(ds, "Nope", nil, 1.0)
	assert.Error(t, err)

	_, err = New(ds, "Grade", []string{"Nope"}, 1.0)
	assert.Error(t, err)
}

func TestTensorKeyIsOrderIndependent(t *testing.T) {
	a := newTensor([]string{"X", "Y"})
	b := newTensor([]string{"Y", "X"})
	assert.Equal(t, a.Key(), b.Key())
}
