package models

// Scenario is a small immutable value describing a future climate pathway.
// The Scenario Runner is a pure function of (Asset, Scenario, HazardSample,
// RNG seed).
type Scenario struct {
	Year            int     `json:"year"`
	TempDeltaC      float64 `json:"tempDeltaC"`
	RainPctChange   float64 `json:"rainPctChange"`   // fraction, e.g. -0.30
	SLRProjectionM  float64 `json:"slrProjectionM"`
	RainIntensityPct float64 `json:"rainIntensityPct"` // fraction
	GlobalWarmingC  float64 `json:"globalWarmingC"`
}

// Provenance tags where a hazard field's value came from.
type Provenance string

const (
	ProvenanceUpstream       Provenance = "upstream"
	ProvenanceFallbackParam  Provenance = "fallback_parametric"
	ProvenanceFallbackClimZn Provenance = "fallback_climate_zone"
)

// MonthlySeries holds twelve monthly samples, January first.
type MonthlySeries [12]float64

// HazardSample is the per-coordinate/polygon bundle of weather, terrain,
// coastal, climatology, and land-cover observations. Fetched at the start of
// a run and discarded at the end; never cached by the core.
type HazardSample struct {
	MaxTempCelsius  float64       `json:"maxTempCelsius"`
	TotalRainMM     float64       `json:"totalRainMm"`
	HumidityPct     float64       `json:"humidityPct"` // derived, not observed
	ElevationM      float64       `json:"elevationM"`
	SoilPH          float64       `json:"soilPh"`
	SlopePct        float64       `json:"slopePct"`
	MaxWaveHeightM  float64       `json:"maxWaveHeightM"`
	MonthlyRainMM   MonthlySeries `json:"monthlyRainMm"`
	MonthlySoilMoist MonthlySeries `json:"monthlySoilMoisturePct"`
	NDVI            MonthlySeries `json:"ndviSeries"`
	Provenance      Provenance    `json:"provenance"`
}
