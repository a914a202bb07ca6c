// Package scenario implements the Scenario Runner: the pure per-asset
// pipeline Hazard -> Physics -> Lifespan -> Financial -> MonteCarlo ->
// Spatial -> Report (spec §4.7). Given the same (Asset, Scenario,
// HazardSample, Seed) it produces a bit-identical report on re-execution.
package scenario

import (
	"context"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/financial"
	"github.com/atlasrisk/engine/internal/lifespan"
	"github.com/atlasrisk/engine/internal/models"
	"github.com/atlasrisk/engine/internal/montecarlo"
	"github.com/atlasrisk/engine/internal/physics"
	"github.com/atlasrisk/engine/internal/spatial"
)

// Deps bundles the collaborators the runner consults: a surrogate
// regressor resolver (may return nil to mean "no surrogate, use
// fallback") and the financial defaults to apply when an asset doesn't
// override them.
type Deps struct {
	CoastalRegressor func() physics.Regressor
	FloodRegressor   func() physics.Regressor

	DefaultCapexUSD     float64
	DefaultOpexUSD      float64
	DefaultDiscountRate float64
	DefaultYears        int

	PricePerTonUSD     float64
	TonsPerYieldPoint  float64
	BenefitFraction    float64

	MonteCarloTrials int
}

// Run executes the full pipeline for one asset and returns its Report.
func Run(ctx context.Context, asset models.Asset, sc models.Scenario, hazard models.HazardSample, seed int64, deps Deps) (models.Report, error) {
	normalized := normalizeHazard(hazard, sc)

	physicsResult, err := dispatchPhysics(asset, sc, normalized, deps)
	if err != nil {
		return models.Report{}, err
	}

	lifespanAdj, opexPenaltyPct := computeLifespan(asset, sc)

	assumptions := resolveAssumptions(asset, lifespanAdj, deps)
	cashFlows := buildCashFlows(asset, normalized, physicsResult, assumptions, opexPenaltyPct, deps)
	financialResult := financial.Evaluate(cashFlows, assumptions)

	mcResult := runMonteCarlo(ctx, asset, sc, hazard, seed, deps)

	report := models.Report{
		AssetID:    asset.ID,
		Physics:    physicsResult,
		Lifespan:   lifespanAdj,
		Financial:  financialResult,
		MonteCarlo: mcResult,
		Hazard:     normalized,
	}

	if asset.Geometry.IsPolygon() {
		spatialResult, err := runSpatial(asset, sc)
		if err != nil {
			return models.Report{}, err
		}
		report.Spatial = &spatialResult
	}

	return report, nil
}

// normalizeHazard applies the scenario's temp_delta and rain_pct_change on
// top of the raw hazard sample.
func normalizeHazard(h models.HazardSample, sc models.Scenario) models.HazardSample {
	adjusted := h
	adjusted.MaxTempCelsius += sc.TempDeltaC
	adjusted.TotalRainMM *= 1 + sc.RainPctChange
	return adjusted
}

func dispatchPhysics(asset models.Asset, sc models.Scenario, hazard models.HazardSample, deps Deps) (models.PhysicsResult, error) {
	switch asset.ProjectKind {
	case models.ProjectAgriculture:
		return runAgriculture(asset, hazard)
	case models.ProjectCoastal:
		return runCoastal(asset, sc, hazard, deps)
	case models.ProjectFlood:
		return runUrbanFlood(asset, sc, hazard, deps)
	case models.ProjectHealth:
		return runHealth(asset, hazard)
	default:
		return models.PhysicsResult{}, atlaserr.Invalid("UNKNOWN_PROJECT_KIND", "unsupported project kind: "+string(asset.ProjectKind))
	}
}

func runAgriculture(asset models.Asset, hazard models.HazardSample) (models.PhysicsResult, error) {
	hasSoilPH := hazard.SoilPH > 0
	standardYield, err := physics.CalculateYield(hazard.MaxTempCelsius, hazard.TotalRainMM, hazard.SoilPH, hasSoilPH, false, asset.Crop)
	if err != nil {
		return models.PhysicsResult{}, err
	}
	return models.PhysicsResult{YieldPct: standardYield}, nil
}

func runCoastal(asset models.Asset, sc models.Scenario, hazard models.HazardSample, deps Deps) (models.PhysicsResult, error) {
	mangroveWidth := 0.0
	if asset.Intervention != nil && asset.Intervention.Kind == "mangrove" {
		mangroveWidth = asset.Intervention.Parameters["width_m"]
	}

	var reg physics.Regressor
	if deps.CoastalRegressor != nil {
		reg = deps.CoastalRegressor()
	}

	runup, _ := physics.CoastalRunup(hazard.MaxWaveHeightM, hazard.SlopePct, mangroveWidth, reg)
	return models.PhysicsResult{RunupM: runup}, nil
}

func runUrbanFlood(asset models.Asset, sc models.Scenario, hazard models.HazardSample, deps Deps) (models.PhysicsResult, error) {
	imperviousPct := 0.70
	if asset.Intervention != nil {
		if base, ok := asset.Intervention.Parameters["impervious_pct"]; ok {
			imperviousPct = base
		}
		reduction := physics.ImperviousReduction(asset.Intervention.Kind)
		imperviousPct *= 1 - reduction
	}

	rainIntensity := 50.0 + sc.RainIntensityPct*100

	var reg physics.Regressor
	if deps.FloodRegressor != nil {
		reg = deps.FloodRegressor()
	}

	depthCM, _ := physics.UrbanFloodDepth(rainIntensity, imperviousPct, hazard.SlopePct, reg)
	damagePct := physics.HuizingaDamagePct(depthCM)
	_, floodAreaKM2 := physics.FlashFloodFootprint(asset.Geometry.Lat, asset.Geometry.Lon, sc.RainIntensityPct*100)

	return models.PhysicsResult{
		DepthCM:      depthCM,
		FloodAreaKM2: floodAreaKM2,
		DamagePct:    damagePct,
	}, nil
}

func runHealth(asset models.Asset, hazard models.HazardSample) (models.PhysicsResult, error) {
	wbgt := physics.WBGT(hazard.MaxTempCelsius, hazard.HumidityPct)
	lossPct := physics.HeatProductivityLoss(wbgt)
	category := physics.StressCategory(lossPct)
	malariaScore := physics.MalariaSuitability(hazard.MaxTempCelsius, hazard.TotalRainMM)

	return models.PhysicsResult{
		ProductivityLossPct: lossPct,
		Category:            category,
		MalariaRiskScore:    malariaScore,
	}, nil
}

func computeLifespan(asset models.Asset, sc models.Scenario) (models.LifespanAdjustment, float64) {
	initialYears := 20
	if asset.Financial.LifespanYears != nil {
		initialYears = *asset.Financial.LifespanYears
	}

	interventionName := ""
	if asset.Intervention != nil {
		interventionName = asset.Intervention.Kind
	}

	var rawPenalty float64
	var rescue bool
	switch asset.ProjectKind {
	case models.ProjectCoastal:
		rawPenalty = lifespan.CoastalPenaltyYears(sc.SLRProjectionM)
		rescue = lifespan.CoastalHasRescue(interventionName)
	default:
		rawPenalty = lifespan.FloodOrAgriPenaltyYears(sc.GlobalWarmingC)
		rescue = lifespan.FloodHasRescue(interventionName)
	}

	adjustment := lifespan.Apply(initialYears, rawPenalty, rescue)
	opexPenaltyPct := lifespan.OPEXPenaltyPct(asset.ProjectKind, sc.SLRProjectionM, sc.GlobalWarmingC, rescue)
	return adjustment, opexPenaltyPct
}

func resolveAssumptions(asset models.Asset, adj models.LifespanAdjustment, deps Deps) models.Assumptions {
	a := models.Assumptions{
		CapexUSD:     deps.DefaultCapexUSD,
		OpexUSD:      deps.DefaultOpexUSD,
		DiscountRate: deps.DefaultDiscountRate,
		Years:        adj.AdjustedYears,
	}
	if asset.Financial.Capex != nil {
		a.CapexUSD = *asset.Financial.Capex
	}
	if asset.Financial.Opex != nil {
		a.OpexUSD = *asset.Financial.Opex
	}
	if asset.Financial.DiscountRate != nil {
		a.DiscountRate = *asset.Financial.DiscountRate
	}
	if deps.DefaultYears > 0 && asset.Financial.LifespanYears == nil {
		a.Years = deps.DefaultYears
	}
	return a
}

func buildCashFlows(asset models.Asset, hazard models.HazardSample, phys models.PhysicsResult, assumptions models.Assumptions, opexPenaltyPct float64, deps Deps) []float64 {
	opexWithPenalty := assumptions.OpexUSD * (1 + opexPenaltyPct)

	if asset.ProjectKind == models.ProjectAgriculture {
		hasSoilPH := hazard.SoilPH > 0
		resilientYield, _ := physics.CalculateYield(hazard.MaxTempCelsius, hazard.TotalRainMM, hazard.SoilPH, hasSoilPH, true, asset.Crop)
		return financial.AgricultureCashFlows(
			assumptions.CapexUSD, opexWithPenalty, deps.PricePerTonUSD, deps.TonsPerYieldPoint,
			deps.BenefitFraction, resilientYield, phys.YieldPct, assumptions.Years,
		)
	}

	flows := make([]float64, assumptions.Years+1)
	flows[0] = -assumptions.CapexUSD
	annualDamageAvoidedUSD := asset.Exposure.AssetValueUSD * (phys.DamagePct / 100)
	for t := 1; t <= assumptions.Years; t++ {
		flows[t] = annualDamageAvoidedUSD - opexWithPenalty
	}
	return flows
}

// runMonteCarlo re-runs the deterministic physics->lifespan->financial
// chain once per sampled driver perturbation, per spec §4.5.
func runMonteCarlo(ctx context.Context, asset models.Asset, sc models.Scenario, hazard models.HazardSample, seed int64, deps Deps) models.MonteCarloResult {
	trials := deps.MonteCarloTrials
	if trials <= 0 {
		trials = 1000
	}

	dist := montecarlo.DriverDistributions{
		TempDeltaMean: sc.TempDeltaC, TempDeltaStdev: 1.0,
		RainPctChangeMean: sc.RainPctChange, RainPctChangeStdev: 0.1,
		SLRMean: sc.SLRProjectionM, SLRStdev: 0.1,
		RainIntensityMean: sc.RainIntensityPct, RainIntensityStdev: 0.05,
	}

	pipeline := func(p montecarlo.DriverPerturbation) float64 {
		perturbedScenario := sc
		perturbedScenario.TempDeltaC = p.TempDeltaC
		perturbedScenario.RainPctChange = p.RainPctChange
		perturbedScenario.SLRProjectionM = p.SLRProjectionM
		perturbedScenario.RainIntensityPct = p.RainIntensityPct

		perturbedHazard := normalizeHazard(hazard, perturbedScenario)
		physicsResult, err := dispatchPhysics(asset, perturbedScenario, perturbedHazard, deps)
		if err != nil {
			return 0
		}

		lifespanAdj, opexPenaltyPct := computeLifespan(asset, perturbedScenario)
		assumptions := resolveAssumptions(asset, lifespanAdj, deps)
		cashFlows := buildCashFlows(asset, perturbedHazard, physicsResult, assumptions, opexPenaltyPct, deps)
		return financial.NPV(cashFlows, assumptions.DiscountRate)
	}

	return montecarlo.RunNPVUncertainty(ctx, dist, trials, seed, pipeline)
}

func runSpatial(asset models.Asset, sc models.Scenario) (models.SpatialResult, error) {
	geom, err := parsePolygon(asset.Geometry.Polygon)
	if err != nil {
		return models.SpatialResult{}, err
	}

	areaKM2 := spatial.AreaKM2(geom)
	lat, lon := spatial.Centroid(geom)

	riskType := riskTypeFor(asset.ProjectKind)
	exposure := spatial.FractionalExposure(geom, riskType, spatial.ExposureParams{
		SLRProjectionM: sc.SLRProjectionM,
		TempDeltaC:     sc.TempDeltaC,
	})

	scaling := spatial.ScaleRisk(asset.Exposure.AssetValueUSD, exposure, 1.0)

	return models.SpatialResult{
		AreaKM2:            areaKM2,
		CentroidLat:        lat,
		CentroidLon:        lon,
		FractionalExposure: exposure,
		ValueAtRiskUSD:     scaling.ValueAtRiskUSD,
		ProtectedValueUSD:  scaling.ProtectedValueUSD,
	}, nil
}

func riskTypeFor(kind models.ProjectKind) string {
	switch kind {
	case models.ProjectCoastal:
		return "coastal"
	case models.ProjectFlood:
		return "flood"
	case models.ProjectHealth:
		return "heat"
	default:
		return "agriculture"
	}
}

// parsePolygon converts the Asset.Geometry.Polygon map (decoded from
// request JSON) into a spatial.Geometry.
func parsePolygon(raw map[string]any) (spatial.Geometry, error) {
	if raw == nil {
		return spatial.Geometry{}, atlaserr.Invalid("INVALID_GEOJSON", "missing polygon geometry")
	}

	geomType, _ := raw["type"].(string)
	extracted := raw
	if geomType == "Feature" {
		geomRaw, ok := raw["geometry"].(map[string]any)
		if !ok {
			return spatial.Geometry{}, atlaserr.Invalid("INVALID_GEOJSON", "feature missing geometry")
		}
		extracted = geomRaw
		geomType, _ = extracted["type"].(string)
	}

	coordsRaw, ok := extracted["coordinates"]
	if !ok {
		return spatial.Geometry{}, atlaserr.Invalid("INVALID_GEOJSON", "geometry missing coordinates")
	}

	var rings []spatial.Ring
	switch geomType {
	case "Polygon":
		polygon, err := parseRings(coordsRaw)
		if err != nil {
			return spatial.Geometry{}, err
		}
		rings = polygon
	case "MultiPolygon":
		multi, ok := coordsRaw.([]any)
		if !ok {
			return spatial.Geometry{}, atlaserr.Invalid("INVALID_GEOJSON", "malformed MultiPolygon coordinates")
		}
		for _, poly := range multi {
			polygon, err := parseRings(poly)
			if err != nil {
				return spatial.Geometry{}, err
			}
			rings = append(rings, polygon...)
		}
	default:
		return spatial.Geometry{}, atlaserr.Invalid("INVALID_GEOJSON", "geometry must be Polygon or MultiPolygon")
	}

	geom := spatial.Geometry{Type: geomType, Rings: rings}
	if err := spatial.Validate(geom); err != nil {
		return spatial.Geometry{}, err
	}
	return geom, nil
}

// parseRings extracts only the outer ring of each polygon (holes are not
// subtracted; spec only requires gross area).
func parseRings(coordsRaw any) ([]spatial.Ring, error) {
	polyRings, ok := coordsRaw.([]any)
	if !ok || len(polyRings) == 0 {
		return nil, atlaserr.Invalid("INVALID_GEOJSON", "malformed Polygon coordinates")
	}
	outer, ok := polyRings[0].([]any)
	if !ok {
		return nil, atlaserr.Invalid("INVALID_GEOJSON", "malformed Polygon outer ring")
	}

	ring := make(spatial.Ring, 0, len(outer))
	for _, ptRaw := range outer {
		pt, ok := ptRaw.([]any)
		if !ok || len(pt) < 2 {
			return nil, atlaserr.Invalid("INVALID_GEOJSON", "malformed coordinate pair")
		}
		lon, okLon := pt[0].(float64)
		lat, okLat := pt[1].(float64)
		if !okLon || !okLat {
			return nil, atlaserr.Invalid("INVALID_GEOJSON", "coordinate values must be numeric")
		}
		ring = append(ring, [2]float64{lon, lat})
	}
	return []spatial.Ring{ring}, nil
}
