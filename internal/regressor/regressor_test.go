package regressor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasrisk/engine/internal/atlaserr"
)

func writeModel(t *testing.T, dir, name string, model linearModel) {
	t.Helper()
	data, err := json.Marshal(model)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644))
}

func TestRegistry_GetReportsModelNotAvailableWhenMissing(t *testing.T) {
	registry := NewRegistry(t.TempDir())
	_, err := registry.Get("nonexistent")
	require.Error(t, err)
	assert.True(t, atlaserr.IsKind(err, atlaserr.ModelNotAvailable))
}

func TestRegistry_GetReportsModelNotAvailableWhenNonexistentDir(t *testing.T) {
	registry := NewRegistry("/no/such/directory")
	_, err := registry.Get("coastal_runup_v1")
	require.Error(t, err)
	assert.True(t, atlaserr.IsKind(err, atlaserr.ModelNotAvailable))
}

func TestRegistry_GetLoadsAndPredictsFromDisk(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "coastal_runup_v1", linearModel{
		ModelName:    "coastal_runup_v1",
		Features:     []string{"wave_height", "slope"},
		Coefficients: []float64{1.5, 0.2},
		Intercept:    0.5,
	})

	registry := NewRegistry(dir)
	reg, err := registry.Get("coastal_runup_v1")
	require.NoError(t, err)
	assert.Equal(t, "coastal_runup_v1", reg.Name())

	y, err := reg.Predict([]float64{2.0, 5.0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5+1.5*2.0+0.2*5.0, y, 1e-9)
}

func TestRegistry_PredictRejectsFeatureMismatch(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "m", linearModel{Coefficients: []float64{1, 2}})
	registry := NewRegistry(dir)
	reg, err := registry.Get("m")
	require.NoError(t, err)

	_, err = reg.Predict([]float64{1})
	require.Error(t, err)
	assert.True(t, atlaserr.IsKind(err, atlaserr.InvalidInput))
}

func TestRegistry_GetCachesSuccessfulLoad(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "m", linearModel{Coefficients: []float64{1}})
	registry := NewRegistry(dir)

	first, err := registry.Get("m")
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "m.json")))

	second, err := registry.Get("m")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestRegistry_GetCachesMiss(t *testing.T) {
	dir := t.TempDir()
	registry := NewRegistry(dir)

	_, err := registry.Get("m")
	require.Error(t, err)

	writeModel(t, dir, "m", linearModel{Coefficients: []float64{1}})

	_, err = registry.Get("m")
	require.Error(t, err, "a cached miss should not re-check disk within the same process")
}

func TestRegistry_GetReportsMalformedModel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.json"), []byte("not json"), 0o644))
	registry := NewRegistry(dir)

	_, err := registry.Get("m")
	require.Error(t, err)
	assert.True(t, atlaserr.IsKind(err, atlaserr.ModelNotAvailable))
}
