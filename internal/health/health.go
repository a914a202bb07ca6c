// Package health monetizes climate-driven public-health burden as
// Disability-Adjusted Life Years (DALYs): a heat component from workforce
// productivity loss, a malaria component from transmission suitability, and
// WHO-CHOICE monetization of DALYs averted by an intervention (spec §4.2,
// §13; original health_engine.py was empty in the retrieval pack, so the
// per-1000 scaling constants below are reconstructed from the worked
// Bangkok/urban-cooling and mosquito-eradication examples in
// tests/test_daly_calculation.py and tests/test_nlg_nested_extraction.py —
// see DESIGN.md).
package health

import "github.com/atlasrisk/engine/internal/physics"

// maxHeatDALYsPer1000 is the heat component's DALYs/1000 at 100% workforce
// productivity loss. physics.HeatProductivityLoss caps at 50% (WBGT >= 32°C),
// so the heat component never exceeds 1.825.
const maxHeatDALYsPer1000 = 3.65

// malariaDALYsPerRiskPoint scales a 0-100 malaria suitability score linearly
// to DALYs/1000, reaching 105 at a risk score of 100.
const malariaDALYsPerRiskPoint = 1.05

// Intervention is a public-health adaptation measure.
type Intervention string

const (
	InterventionNone                 Intervention = "none"
	InterventionUrbanCoolingCenter    Intervention = "urban_cooling_center"
	InterventionMosquitoEradication   Intervention = "mosquito_eradication"
)

// urbanCoolingHeatReduction / mosquitoEradicationMalariaRedux are the fixed
// efficacy fractions each intervention type applies to its respective
// component.
const (
	urbanCoolingHeatReduction       = 0.40
	mosquitoEradicationMalariaRedux = 0.70
)

func description(i Intervention) string {
	switch i {
	case InterventionUrbanCoolingCenter:
		return "Urban cooling centers reduce heat-related DALYs by 40%"
	case InterventionMosquitoEradication:
		return "Mosquito eradication programs reduce malaria DALYs by 70%"
	default:
		return "No public-health intervention applied"
	}
}

// Breakdown reports the baseline per-1000 component DALYs and the reduction
// percentages (0-100) applied by the chosen intervention.
type Breakdown struct {
	HeatDALYsPer1000Baseline    float64 `json:"heatDalysPer1000Baseline"`
	MalariaDALYsPer1000Baseline float64 `json:"malariaDalysPer1000Baseline"`
	TotalDALYsPer1000Baseline   float64 `json:"totalDalysPer1000Baseline"`
	HeatReductionPct            float64 `json:"heatReductionPct"`
	MalariaReductionPct         float64 `json:"malariaReductionPct"`
}

// Monetization records the WHO-CHOICE value applied to averted DALYs.
type Monetization struct {
	GDPPerCapitaUSD float64 `json:"gdpPerCapitaUsd"`
	ValuePerDALYUSD float64 `json:"valuePerDalyUsd"`
	Methodology     string  `json:"methodology"`
}

// Result is the full public-health impact assessment.
type Result struct {
	Population                int          `json:"population"`
	BaselineDALYsLost         float64      `json:"baselineDalysLost"`
	PostInterventionDALYsLost float64      `json:"postInterventionDalysLost"`
	DALYsAverted              float64      `json:"dalysAverted"`
	EconomicValuePreservedUSD float64      `json:"economicValuePreservedUsd"`
	InterventionType          Intervention `json:"interventionType"`
	InterventionDescription   string       `json:"interventionDescription"`
	Breakdown                 Breakdown    `json:"breakdown"`
	Monetization              Monetization `json:"monetization"`
}

// heatComponent converts WBGT into heat DALYs/1000 via workforce
// productivity loss.
func heatComponent(wbgt float64) float64 {
	lossPct := physics.HeatProductivityLoss(wbgt)
	return (lossPct / 100) * maxHeatDALYsPer1000
}

// malariaComponent converts a 0-100 malaria suitability score into malaria
// DALYs/1000.
func malariaComponent(riskScore float64) float64 {
	return riskScore * malariaDALYsPerRiskPoint
}

// Evaluate computes the baseline and post-intervention public-health burden
// for a population, monetizing DALYs averted at 2x GDP per capita per the
// WHO-CHOICE cost-effectiveness standard.
func Evaluate(population int, gdpPerCapitaUSD, wbgt, malariaRiskScore float64, intervention Intervention) Result {
	heatBase := heatComponent(wbgt)
	malariaBase := malariaComponent(malariaRiskScore)
	totalBase := heatBase + malariaBase

	heatReductionPct := 0.0
	malariaReductionPct := 0.0
	switch intervention {
	case InterventionUrbanCoolingCenter:
		heatReductionPct = urbanCoolingHeatReduction * 100
	case InterventionMosquitoEradication:
		malariaReductionPct = mosquitoEradicationMalariaRedux * 100
	}

	heatPost := heatBase * (1 - heatReductionPct/100)
	malariaPost := malariaBase * (1 - malariaReductionPct/100)
	totalPost := heatPost + malariaPost

	baselineDALYs := totalBase / 1000 * float64(population)
	postDALYs := totalPost / 1000 * float64(population)
	averted := baselineDALYs - postDALYs

	valuePerDALY := 2 * gdpPerCapitaUSD

	return Result{
		Population:                population,
		BaselineDALYsLost:         baselineDALYs,
		PostInterventionDALYsLost: postDALYs,
		DALYsAverted:              averted,
		EconomicValuePreservedUSD: averted * valuePerDALY,
		InterventionType:          intervention,
		InterventionDescription:   description(intervention),
		Breakdown: Breakdown{
			HeatDALYsPer1000Baseline:    heatBase,
			MalariaDALYsPer1000Baseline: malariaBase,
			TotalDALYsPer1000Baseline:   totalBase,
			HeatReductionPct:            heatReductionPct,
			MalariaReductionPct:         malariaReductionPct,
		},
		Monetization: Monetization{
			GDPPerCapitaUSD: gdpPerCapitaUSD,
			ValuePerDALYUSD: valuePerDALY,
			Methodology:     "WHO-CHOICE standard: 2x GDP per capita per DALY",
		},
	}
}
