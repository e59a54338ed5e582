package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldenPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("testdata", "scenarios", "golden", "population.golden"),
		GoldenPath(filepath.Join("testdata", "scenarios", "population.yaml")))
}

func TestNewSnapshot(t *testing.T) {
	ctx := context.Background()
	result, err := Run(ctx, loadScenario(t, "care-providers"))
	require.NoError(t, err)

	snap, err := NewSnapshot(ctx, "care-providers", result.Cube)
	require.NoError(t, err)
	assert.Equal(t, "care-providers", snap.Cube)
	assert.Equal(t, 6, snap.Stats.RowsRead)
	assert.Empty(t, snap.Violated)
	assert.NotNil(t, snap.Violated, "empty list, not null")
	require.Len(t, snap.Observations, 3)
	assert.Equal(t, map[string]any{
		"id":                       "observation-0000",
		"county":                   "CZ0100",
		"region":                   "CZ010",
		"field_of_care":            "kardiologie",
		"number_of_care_providers": int64(2),
	}, snap.Observations[0])
}

func TestGoldenUpdateThenCompare(t *testing.T) {
	ctx := context.Background()
	scenario := loadScenario(t, "population")
	result, err := Run(ctx, scenario)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "golden", "population.golden")
	require.NoError(t, UpdateGolden(ctx, scenario, result, path))

	match, err := CompareGolden(ctx, scenario, result, path)
	require.NoError(t, err)
	assert.True(t, match)

	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	match, err = CompareGolden(ctx, scenario, result, path)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestCheckedInGoldenMatches(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"care-providers", "population"} {
		file := filepath.Join("testdata", "scenarios", name+".yaml")
		scenario, err := LoadScenario(file)
		require.NoError(t, err)
		result, err := Run(ctx, scenario)
		require.NoError(t, err)

		match, err := CompareGolden(ctx, scenario, result, GoldenPath(file))
		require.NoError(t, err)
		assert.True(t, match, name)
	}
}

func TestGoldenNeedsBuiltCube(t *testing.T) {
	ctx := context.Background()
	scenario := loadScenario(t, "strict-collision")
	result, err := Run(ctx, scenario)
	require.NoError(t, err)

	err = UpdateGolden(ctx, scenario, result, filepath.Join(t.TempDir(), "x.golden"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "built no cube")
}
