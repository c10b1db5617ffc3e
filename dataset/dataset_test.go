package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndDomain(t *testing.T) {
	ds, err := New([]string{"A", "B"}, [][]string{
		{"y", "y"},
		{"y", "n"},
		{"n", "y"},
		{"n", "n"},
		{"y", "y"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, ds.Columns())
	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, []string{"y", "n"}, ds.Domain("A"))
	assert.Equal(t, 2, ds.Card("A"))
}

func TestCountConjunction(t *testing.T) {
	ds, err := New([]string{"A", "B"}, [][]string{
		{"y", "y"},
		{"y", "y"},
		{"y", "n"},
		{"n", "y"},
		{"n", "n"},
	})
	require.NoError(t, err)

	n, err := ds.Count([]string{"A"}, []string{"y"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = ds.Count([]string{"A", "B"}, []string{"y", "y"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = ds.Count(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestCountArityMismatch(t *testing.T) {
	ds, err := New([]string{"A"}, [][]string{{"y"}})
	require.NoError(t, err)

	_, err = ds.Count([]string{"A"}, []string{"y", "n"})
	assert.Error(t, err)
}

func TestCountUnknownVariable(t *testing.T) {
	ds, err := New([]string{"A"}, [][]string{{"y"}})
	require.NoError(t, err)

	_, err = ds.Count([]string{"Z"}, []string{"y"})
	assert.Error(t, err)
}

func TestDuplicateColumns(t *testing.T) {
	_, err := New([]string{"A", "A"}, [][]string{{"y", "n"}})
	assert.Error(t, err)
}

func TestRowArityMismatch(t *testing.T) {
	_, err := New([]string{"A", "B"}, [][]string{{"y"}})
	assert.Error(t, err)
}

func TestDomainOrderIsFirstSeen(t *testing.T) {
	ds, err := New([]string{"A"}, [][]string{{"c"}, {"a"}, {"b"}, {"a"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ds.Domain("A"))
}
