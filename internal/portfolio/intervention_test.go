package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/models"
)

func TestAgricultureStress_DerivesFromYieldLoss(t *testing.T) {
	assert.InDelta(t, 35.0, AgricultureStress(models.PhysicsResult{YieldPct: 65}), 1e-9)
}

func TestAgricultureStress_ClampsToZeroWhenYieldExceeds100(t *testing.T) {
	assert.Zero(t, AgricultureStress(models.PhysicsResult{YieldPct: 120}))
}

func TestCoastalRisk_AddsMarginPenaltyWhenElevationIsClose(t *testing.T) {
	mc := models.MonteCarloResult{DefaultProbability: 0.1}
	// margin = elevation(3) - runup(1) = 2, penalty = (5-2)*10 = 30
	risk := CoastalRisk(mc, 3, 1)
	assert.InDelta(t, 40.0, risk, 1e-9)
}

func TestCoastalRisk_NoPenaltyWhenMarginIsWide(t *testing.T) {
	mc := models.MonteCarloResult{DefaultProbability: 0.2}
	risk := CoastalRisk(mc, 50, 1)
	assert.InDelta(t, 20.0, risk, 1e-9)
}

func TestCoastalRisk_ClampsToHundred(t *testing.T) {
	mc := models.MonteCarloResult{DefaultProbability: 0.9}
	risk := CoastalRisk(mc, 0, 10)
	assert.Equal(t, 100.0, risk)
}

func TestRecommendInterventionTier_RejectsUnsupportedProjectKind(t *testing.T) {
	_, err := RecommendInterventionTier(models.ProjectFlood, 50, 100000, 0, 0)
	require.Error(t, err)
	assert.True(t, atlaserr.IsKind(err, atlaserr.InvalidInput))
}

func TestRecommendInterventionTier_AgricultureReturnsAllThreeTiersRanked(t *testing.T) {
	rec, err := RecommendInterventionTier(models.ProjectAgriculture, 60, 500000, 0, 0)
	require.NoError(t, err)
	require.Len(t, rec.Options, 3)
	assert.Equal(t, 60.0, rec.StressOrRiskLevel)

	names := make(map[string]bool)
	for _, opt := range rec.Options {
		names[opt.Tier] = true
	}
	assert.True(t, names["Regenerative"])
	assert.True(t, names["Genetics"])
	assert.True(t, names["Infrastructure"])
	assert.NotEmpty(t, rec.RecommendedTier)
}

func TestRecommendInterventionTier_HighStressFavorsInfrastructureOverRegenerative(t *testing.T) {
	rec, err := RecommendInterventionTier(models.ProjectAgriculture, 80, 2_000_000, 0, 0)
	require.NoError(t, err)

	byTier := map[string]TierOption{}
	for _, opt := range rec.Options {
		byTier[opt.Tier] = opt
	}
	assert.Greater(t, byTier["Infrastructure"].BenefitUSD, byTier["Regenerative"].BenefitUSD)
}

func TestRecommendInterventionTier_CoastalUsesVaRAndDefaultProbability(t *testing.T) {
	rec, err := RecommendInterventionTier(models.ProjectCoastal, 70, 1_000_000, 5_000_000, 40)
	require.NoError(t, err)
	require.Len(t, rec.Options, 3)

	for _, opt := range rec.Options {
		if opt.Tier == "Nature-Based" {
			assert.Greater(t, opt.BenefitUSD, 0.0)
		}
	}
}

func TestRoiPct_ZeroCostIsZeroROI(t *testing.T) {
	assert.Zero(t, roiPct(1000, 0))
}

func TestRoiPct_PositiveBenefitYieldsPositiveROI(t *testing.T) {
	assert.InDelta(t, 100.0, roiPct(2000, 1000), 1e-9)
}
