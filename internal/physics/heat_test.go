package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlasrisk/engine/internal/models"
)

func TestHeatProductivityLoss_Bounds(t *testing.T) {
	assert.Zero(t, HeatProductivityLoss(20))
	assert.Equal(t, 50.0, HeatProductivityLoss(35))
	assert.InDelta(t, 25.0, HeatProductivityLoss(29), 1e-9)
}

func TestStressCategory_Buckets(t *testing.T) {
	assert.Equal(t, models.StressLow, StressCategory(0))
	assert.Equal(t, models.StressModerate, StressCategory(10))
	assert.Equal(t, models.StressHigh, StressCategory(20))
	assert.Equal(t, models.StressVeryHigh, StressCategory(40))
	assert.Equal(t, models.StressExtreme, StressCategory(50))
}

func TestMalariaSuitability_BothConditionsScoreHighest(t *testing.T) {
	assert.Equal(t, 100.0, MalariaSuitability(25, 200))
	assert.Equal(t, 50.0, MalariaSuitability(25, 50))
	assert.Equal(t, 50.0, MalariaSuitability(5, 200))
	assert.Equal(t, 0.0, MalariaSuitability(5, 50))
}

func TestWBGT_IsWeightedBlend(t *testing.T) {
	assert.InDelta(t, 0.7*30+0.1*60, WBGT(30, 60), 1e-9)
}
