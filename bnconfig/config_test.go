package bnconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(cwd) }()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Learn.Alpha)
	assert.Equal(t, "K2", cfg.Learn.Metric)
	assert.Equal(t, 2, cfg.Learn.MaxParents)
}

func TestLoadFilePrecedesDefaultsButEnvWins(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(cwd) }()

	content := "learn:\n  max_parents: 5\n  metric: mdl\n  algorithm: greedy\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bnlearn.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Learn.MaxParents)
	assert.Equal(t, "mdl", cfg.Learn.Metric)

	t.Setenv("BNLEARN_LEARN_MAX_PARENTS", "9")
	cfg2, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg2.Learn.MaxParents)
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := &Config{
		Learn: LearnConfig{
			Alpha:      -1,
			Metric:     "k2",
			Algorithm:  "greedy",
			MaxParents: -1,
			VisitSpace: 2,
			PCAlpha:    0.05,
		},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alpha")
	assert.Contains(t, err.Error(), "max_parents")
	assert.Contains(t, err.Error(), "visit_space")
	assert.Contains(t, err.Error(), "only valid with")
}

func TestValidateRejectsUnknownMetric(t *testing.T) {
	cfg := defaultConfig()
	cfg.Learn.Metric = "bogus"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}
