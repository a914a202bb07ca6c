package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_NoInterventionBaselineEqualsPost(t *testing.T) {
	result := Evaluate(10000, 5000, 30, 40, InterventionNone)
	assert.Equal(t, result.BaselineDALYsLost, result.PostInterventionDALYsLost)
	assert.Zero(t, result.DALYsAverted)
	assert.Zero(t, result.EconomicValuePreservedUSD)
}

func TestEvaluate_UrbanCoolingReducesOnlyHeatComponent(t *testing.T) {
	result := Evaluate(10000, 5000, 32, 40, InterventionUrbanCoolingCenter)
	assert.Greater(t, result.DALYsAverted, 0.0)
	assert.InDelta(t, 40.0, result.Breakdown.HeatReductionPct, 1e-9)
	assert.Zero(t, result.Breakdown.MalariaReductionPct)
}

func TestEvaluate_MosquitoEradicationReducesOnlyMalariaComponent(t *testing.T) {
	result := Evaluate(10000, 5000, 20, 40, InterventionMosquitoEradication)
	assert.Greater(t, result.DALYsAverted, 0.0)
	assert.InDelta(t, 70.0, result.Breakdown.MalariaReductionPct, 1e-9)
	assert.Zero(t, result.Breakdown.HeatReductionPct)
}

func TestEvaluate_MonetizationUsesTwiceGDPPerCapita(t *testing.T) {
	result := Evaluate(1000, 3000, 25, 10, InterventionNone)
	assert.InDelta(t, 6000, result.Monetization.ValuePerDALYUSD, 1e-9)
}

func TestEvaluate_PopulationScalesLinearly(t *testing.T) {
	small := Evaluate(1000, 5000, 32, 50, InterventionNone)
	large := Evaluate(2000, 5000, 32, 50, InterventionNone)
	assert.InDelta(t, small.BaselineDALYsLost*2, large.BaselineDALYsLost, 1e-9)
}
