package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasrisk/engine/internal/atlaserr"
)

func TestCalculateYield_OptimalConditionsReachesCeiling(t *testing.T) {
	yield, err := CalculateYield(25, 900, 6.5, true, false, "maize")
	require.NoError(t, err)
	assert.Equal(t, 100.0, yield)
}

func TestCalculateYield_HeatStressReducesYield(t *testing.T) {
	baseline, _ := CalculateYield(25, 900, 6.5, true, false, "maize")
	stressed, _ := CalculateYield(35, 900, 6.5, true, false, "maize")
	assert.Less(t, stressed, baseline)
}

func TestCalculateYield_ResilientSeedRaisesHeatTolerance(t *testing.T) {
	standard, _ := CalculateYield(30, 900, 6.5, true, false, "maize")
	resilient, _ := CalculateYield(30, 900, 6.5, true, true, "maize")
	assert.GreaterOrEqual(t, resilient, standard)
}

func TestCalculateYield_DroughtPenalizesYield(t *testing.T) {
	yield, err := CalculateYield(25, 100, 6.5, true, false, "maize")
	require.NoError(t, err)
	assert.Less(t, yield, 100.0)
	assert.GreaterOrEqual(t, yield, 0.0)
}

func TestCalculateYield_SkipsSoilPHWhenAbsent(t *testing.T) {
	withBadPH, _ := CalculateYield(25, 900, 4.0, true, false, "maize")
	withoutPH, _ := CalculateYield(25, 900, 4.0, false, false, "maize")
	assert.Less(t, withBadPH, withoutPH)
	assert.Equal(t, 100.0, withoutPH)
}

func TestCalculateYield_UnknownCropIsInvalidInput(t *testing.T) {
	_, err := CalculateYield(25, 900, 6.5, false, false, "durian")
	require.Error(t, err)
	assert.True(t, atlaserr.IsKind(err, atlaserr.InvalidInput))
}

func TestSupportedCrops_ListsCatalogEntries(t *testing.T) {
	assert.ElementsMatch(t, []string{"maize", "cocoa"}, SupportedCrops())
}
