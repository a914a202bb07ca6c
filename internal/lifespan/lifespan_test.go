package lifespan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlasrisk/engine/internal/models"
)

func TestCoastalPenaltyYears_Bands(t *testing.T) {
	assert.Equal(t, 0.0, CoastalPenaltyYears(0.3))
	assert.Equal(t, 5.0, CoastalPenaltyYears(0.6))
	assert.Equal(t, 12.0, CoastalPenaltyYears(1.1))
}

func TestFloodOrAgriPenaltyYears_Bands(t *testing.T) {
	assert.Equal(t, 0.0, FloodOrAgriPenaltyYears(1.0))
	assert.Equal(t, 4.0, FloodOrAgriPenaltyYears(1.6))
	assert.Equal(t, 10.0, FloodOrAgriPenaltyYears(2.1))
}

func TestApply_NoRescueSubtractsFullPenalty(t *testing.T) {
	adj := Apply(20, 12, false)
	assert.Equal(t, 8, adj.AdjustedYears)
	assert.InDelta(t, 12.0, adj.PenaltyYears, 1e-9)
	assert.False(t, adj.RescueApplied)
}

func TestApply_RescueReducesPenaltyTo20Pct(t *testing.T) {
	adj := Apply(20, 12, true)
	assert.Equal(t, 18, adj.AdjustedYears)
	assert.InDelta(t, 2.4, adj.PenaltyYears, 1e-9)
	assert.True(t, adj.RescueApplied)
}

func TestApply_ClampsToOneYearMinimum(t *testing.T) {
	adj := Apply(5, 12, false)
	assert.Equal(t, 1, adj.AdjustedYears)
}

func TestCoastalHasRescue_MatchesSeaWallVariants(t *testing.T) {
	assert.True(t, CoastalHasRescue("Concrete Sea Wall"))
	assert.True(t, CoastalHasRescue("seawall upgrade"))
	assert.False(t, CoastalHasRescue("mangrove buffer"))
}

func TestFloodHasRescue_MatchesSpongeCity(t *testing.T) {
	assert.True(t, FloodHasRescue("Sponge City Retrofit"))
	assert.False(t, FloodHasRescue("permeable pavement"))
}

func TestOPEXPenaltyPct_CoastalBands(t *testing.T) {
	assert.InDelta(t, 0.30, OPEXPenaltyPct(models.ProjectCoastal, 1.5, 0, false), 1e-9)
	assert.InDelta(t, 0.15, OPEXPenaltyPct(models.ProjectCoastal, 0.6, 0, false), 1e-9)
	assert.Zero(t, OPEXPenaltyPct(models.ProjectCoastal, 0.2, 0, false))
}

func TestOPEXPenaltyPct_RescueReducesBy85Pct(t *testing.T) {
	assert.InDelta(t, 0.045, OPEXPenaltyPct(models.ProjectCoastal, 1.5, 0, true), 1e-9)
}

func TestOPEXPenaltyPct_NonCoastalUsesGlobalWarmingBands(t *testing.T) {
	assert.InDelta(t, 0.25, OPEXPenaltyPct(models.ProjectFlood, 0, 2.5, false), 1e-9)
	assert.InDelta(t, 0.12, OPEXPenaltyPct(models.ProjectAgriculture, 0, 1.6, false), 1e-9)
}
