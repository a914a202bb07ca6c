package scenario

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasrisk/engine/internal/models"
)

func testDeps() Deps {
	return Deps{
		DefaultCapexUSD:     100_000,
		DefaultOpexUSD:      5_000,
		DefaultDiscountRate: 0.08,
		DefaultYears:        10,
		PricePerTonUSD:      180,
		TonsPerYieldPoint:   1,
		BenefitFraction:     0.6,
		MonteCarloTrials:    200,
	}
}

func baseHazard() models.HazardSample {
	return models.HazardSample{
		MaxTempCelsius: 28,
		TotalRainMM:    900,
		HumidityPct:    60,
		SlopePct:       5,
		SoilPH:         6.5,
		MaxWaveHeightM: 2.0,
	}
}

func TestRun_AgricultureProducesYieldPhysics(t *testing.T) {
	asset := models.Asset{ID: "a1", ProjectKind: models.ProjectAgriculture, Crop: "maize", Exposure: models.Exposure{AssetValueUSD: 1_000_000}}
	sc := models.Scenario{Year: 2030, TempDeltaC: 1}
	report, err := Run(context.Background(), asset, sc, baseHazard(), 1, testDeps())
	require.NoError(t, err)
	assert.Greater(t, report.Physics.YieldPct, 0.0)
	assert.Nil(t, report.Spatial)
}

func TestRun_CoastalProducesRunup(t *testing.T) {
	asset := models.Asset{ID: "a2", ProjectKind: models.ProjectCoastal, Exposure: models.Exposure{AssetValueUSD: 2_000_000}}
	sc := models.Scenario{Year: 2050, SLRProjectionM: 0.5}
	report, err := Run(context.Background(), asset, sc, baseHazard(), 1, testDeps())
	require.NoError(t, err)
	assert.Greater(t, report.Physics.RunupM, 0.0)
}

func TestRun_CoastalMangroveInterventionReducesRunup(t *testing.T) {
	sc := models.Scenario{Year: 2050, SLRProjectionM: 0.5}
	hz := baseHazard()

	bare := models.Asset{ID: "a3", ProjectKind: models.ProjectCoastal, Exposure: models.Exposure{AssetValueUSD: 1}}
	withMangrove := models.Asset{
		ID: "a4", ProjectKind: models.ProjectCoastal, Exposure: models.Exposure{AssetValueUSD: 1},
		Intervention: &models.Intervention{Kind: "mangrove", Parameters: map[string]float64{"width_m": 300}},
	}

	bareReport, err := Run(context.Background(), bare, sc, hz, 1, testDeps())
	require.NoError(t, err)
	protectedReport, err := Run(context.Background(), withMangrove, sc, hz, 1, testDeps())
	require.NoError(t, err)
	assert.Less(t, protectedReport.Physics.RunupM, bareReport.Physics.RunupM)
}

func TestRun_FloodProducesDepthAndDamage(t *testing.T) {
	asset := models.Asset{ID: "a5", ProjectKind: models.ProjectFlood, Geometry: models.Geometry{Lat: 13.75, Lon: 100.5}, Exposure: models.Exposure{AssetValueUSD: 3_000_000}}
	sc := models.Scenario{Year: 2040, RainIntensityPct: 0.3}
	report, err := Run(context.Background(), asset, sc, baseHazard(), 1, testDeps())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, report.Physics.DepthCM, 0.0)
	assert.GreaterOrEqual(t, report.Physics.DamagePct, 0.0)
	assert.GreaterOrEqual(t, report.Physics.FloodAreaKM2, 50.0)
}

func TestRun_HealthProducesStressCategory(t *testing.T) {
	asset := models.Asset{ID: "a6", ProjectKind: models.ProjectHealth, Exposure: models.Exposure{Population: 10_000, GDPPerCapitaUSD: 5000}}
	sc := models.Scenario{Year: 2050, TempDeltaC: 3}
	report, err := Run(context.Background(), asset, sc, baseHazard(), 1, testDeps())
	require.NoError(t, err)
	assert.NotEmpty(t, report.Physics.Category)
}

func TestRun_UnknownProjectKindIsInvalidInput(t *testing.T) {
	asset := models.Asset{ID: "a7", ProjectKind: "volcano"}
	_, err := Run(context.Background(), asset, models.Scenario{}, baseHazard(), 1, testDeps())
	require.Error(t, err)
}

func TestRun_PolygonGeometryPopulatesSpatialResult(t *testing.T) {
	polygon := map[string]any{
		"type": "Polygon",
		"coordinates": []any{
			[]any{
				[]any{0.0, 0.0},
				[]any{1.0, 0.0},
				[]any{1.0, 1.0},
				[]any{0.0, 1.0},
			},
		},
	}
	asset := models.Asset{
		ID: "a8", ProjectKind: models.ProjectAgriculture, Crop: "maize",
		Geometry: models.Geometry{Polygon: polygon},
		Exposure: models.Exposure{AssetValueUSD: 1_000_000},
	}
	report, err := Run(context.Background(), asset, models.Scenario{Year: 2030}, baseHazard(), 1, testDeps())
	require.NoError(t, err)
	require.NotNil(t, report.Spatial)
	assert.Greater(t, report.Spatial.AreaKM2, 0.0)
}

func TestRun_MalformedPolygonIsInvalidInput(t *testing.T) {
	asset := models.Asset{
		ID: "a9", ProjectKind: models.ProjectAgriculture, Crop: "maize",
		Geometry: models.Geometry{Polygon: map[string]any{"type": "Polygon"}},
		Exposure: models.Exposure{AssetValueUSD: 1},
	}
	_, err := Run(context.Background(), asset, models.Scenario{}, baseHazard(), 1, testDeps())
	require.Error(t, err)
}

func TestRun_DeterministicForSameSeed(t *testing.T) {
	asset := models.Asset{ID: "a10", ProjectKind: models.ProjectAgriculture, Crop: "maize", Exposure: models.Exposure{AssetValueUSD: 1_000_000}}
	sc := models.Scenario{Year: 2030, TempDeltaC: 1}
	first, err := Run(context.Background(), asset, sc, baseHazard(), 42, testDeps())
	require.NoError(t, err)
	second, err := Run(context.Background(), asset, sc, baseHazard(), 42, testDeps())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRun_OverridesCapexAndDiscountRate(t *testing.T) {
	capex := 50_000.0
	discountRate := 0.12
	asset := models.Asset{
		ID: "a11", ProjectKind: models.ProjectAgriculture, Crop: "maize",
		Financial: models.FinancialOverrides{Capex: &capex, DiscountRate: &discountRate},
		Exposure:  models.Exposure{AssetValueUSD: 1_000_000},
	}
	report, err := Run(context.Background(), asset, models.Scenario{Year: 2030}, baseHazard(), 1, testDeps())
	require.NoError(t, err)
	assert.Equal(t, capex, report.Financial.Assumptions.CapexUSD)
	assert.Equal(t, discountRate, report.Financial.Assumptions.DiscountRate)
}

func TestRun_MonteCarloResultHasConfiguredTrials(t *testing.T) {
	asset := models.Asset{ID: "a12", ProjectKind: models.ProjectAgriculture, Crop: "maize", Exposure: models.Exposure{AssetValueUSD: 1_000_000}}
	deps := testDeps()
	deps.MonteCarloTrials = 300
	report, err := Run(context.Background(), asset, models.Scenario{Year: 2030}, baseHazard(), 1, deps)
	require.NoError(t, err)
	assert.Equal(t, 300, report.MonteCarlo.Trials)
}
