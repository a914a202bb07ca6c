package portfolio

import (
	"math"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/models"
)

// InterventionTier is one candidate adaptation measure: an upfront cost and
// the stress/risk reduction it delivers, grounded on portfolio_optimizer.py's
// InterventionTier dataclass and its AGRICULTURE_TIERS/COASTAL_TIERS tables.
type InterventionTier struct {
	Name               string
	CostUSD            float64
	StressReductionPct float64
}

// AgricultureTiers mirrors portfolio_optimizer.py's AGRICULTURE_TIERS:
// regenerative practices, drought-resistant genetics, and hard
// infrastructure, in increasing cost and stress-reduction order.
var AgricultureTiers = []InterventionTier{
	{Name: "Regenerative", CostUSD: 200, StressReductionPct: 10},
	{Name: "Genetics", CostUSD: 600, StressReductionPct: 25},
	{Name: "Infrastructure", CostUSD: 2500, StressReductionPct: 60},
}

// CoastalTiers mirrors portfolio_optimizer.py's COASTAL_TIERS: nature-based
// defenses, a hybrid approach, and a hard sea wall.
var CoastalTiers = []InterventionTier{
	{Name: "Nature-Based", CostUSD: 1_000_000, StressReductionPct: 10},
	{Name: "Hybrid", CostUSD: 5_000_000, StressReductionPct: 30},
	{Name: "Hard Wall", CostUSD: 20_000_000, StressReductionPct: 80},
}

// AgricultureStress derives a 0-100 stress score from yield loss, mirroring
// portfolio_optimizer.py's calculate_agriculture_stress. The original also
// folds in a water-stress sensitivity ranking produced by a sensitivity
// analysis this module does not build (see DESIGN.md); yield loss alone is
// the dominant term there and is what we have available.
func AgricultureStress(physics models.PhysicsResult) float64 {
	return clipPct(100 - physics.YieldPct)
}

// CoastalRisk derives a 0-100 risk score from default probability and how
// close the asset's elevation is to being overtopped by projected run-up,
// mirroring portfolio_optimizer.py's calculate_coastal_risk (elevation_m
// vs. total_water_level_m there maps onto hazard elevation vs. physics
// run-up here).
func CoastalRisk(mc models.MonteCarloResult, elevationM, runupM float64) float64 {
	risk := mc.DefaultProbability * 100
	margin := elevationM - runupM
	if margin < 5 {
		risk += (5 - margin) * 10
	}
	return clipPct(risk)
}

func clipPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// effectivenessMultiplier models the original's non-linear threshold
// effect: more aggressive tiers become disproportionately more effective
// as stress/risk rises.
func effectivenessMultiplier(tierName string, stressFactor float64) float64 {
	switch tierName {
	case "Infrastructure", "Hard Wall":
		return 1 + math.Pow(stressFactor, 1.5)*3
	case "Genetics", "Hybrid":
		return 1 + math.Pow(stressFactor, 1.2)*1.5
	default:
		return 1 + stressFactor*0.5
	}
}

// avoidedLoss estimates the NPV benefit (avoided loss) of applying one
// intervention tier, mirroring portfolio_optimizer.py's
// calculate_avoided_loss including its threshold bonuses.
func avoidedLoss(kind models.ProjectKind, tier InterventionTier, stressOrRisk, baselineNPV, var95USD, defaultProbabilityPct float64) float64 {
	stressFactor := stressOrRisk / 100
	mult := effectivenessMultiplier(tier.Name, stressFactor)

	switch kind {
	case models.ProjectAgriculture:
		benefit := stressFactor * baselineNPV * (tier.StressReductionPct / 100) * mult
		if stressOrRisk > 30 && (tier.Name == "Genetics" || tier.Name == "Infrastructure") {
			benefit *= 1.5
		}
		if stressOrRisk > 50 && tier.Name == "Infrastructure" {
			benefit *= 2.0
		}
		return benefit
	case models.ProjectCoastal:
		riskValue := math.Max(baselineNPV, math.Abs(var95USD)) * stressFactor
		riskMultiplier := 1 + defaultProbabilityPct/50
		benefit := riskValue * (tier.StressReductionPct / 100) * riskMultiplier * mult
		if stressOrRisk > 30 && (tier.Name == "Hybrid" || tier.Name == "Hard Wall") {
			benefit *= 1.5
		}
		if stressOrRisk > 50 && tier.Name == "Hard Wall" {
			benefit *= 2.0
		}
		return benefit
	default:
		return 0
	}
}

// roiPct is portfolio_optimizer.py's calculate_roi: (benefit-cost)/cost*100,
// zero for a non-positive cost rather than dividing by zero.
func roiPct(benefitUSD, costUSD float64) float64 {
	if costUSD <= 0 {
		return 0
	}
	return (benefitUSD - costUSD) / costUSD * 100
}

// TierOption is one candidate intervention's projected cost, benefit, and
// ROI, returned alongside its peers so a caller can see the full
// comparison, not just the winner.
type TierOption struct {
	Tier       string  `json:"tier"`
	CostUSD    float64 `json:"costUsd"`
	BenefitUSD float64 `json:"benefitUsd"`
	ROIPct     float64 `json:"roiPct"`
}

// InterventionRecommendation is the full tiered-strategy comparison for one
// asset: every tier's projected cost/benefit/ROI plus the ROI-ranked
// winner, mirroring portfolio_optimizer.py's analyze_location output
// ("options" + "recommended_strategy").
type InterventionRecommendation struct {
	StressOrRiskLevel float64      `json:"stressOrRiskLevel"`
	Options           []TierOption `json:"options"`
	RecommendedTier   string       `json:"recommendedTier"`
}

// RecommendInterventionTier runs the tiered-strategy tournament for one
// asset's project kind and scores it against its stress/risk level and
// financial baseline, picking the tier with the highest ROI. Only
// agriculture and coastal assets have defined tiers, mirroring
// analyze_location's project_type dispatch (everything else returns nil
// there; here it is reported as an invalid-input error instead of a silent
// skip, since this is a request-scoped call rather than a batch sweep).
func RecommendInterventionTier(kind models.ProjectKind, stressOrRisk, baselineNPV, var95USD, defaultProbabilityPct float64) (*InterventionRecommendation, error) {
	var tiers []InterventionTier
	switch kind {
	case models.ProjectAgriculture:
		tiers = AgricultureTiers
	case models.ProjectCoastal:
		tiers = CoastalTiers
	default:
		return nil, atlaserr.Invalid("UNSUPPORTED_PROJECT_KIND", "intervention tiers are only defined for agriculture and coastal assets")
	}

	options := make([]TierOption, 0, len(tiers))
	recommended := ""
	bestROI := math.Inf(-1)
	for _, tier := range tiers {
		benefit := avoidedLoss(kind, tier, stressOrRisk, baselineNPV, var95USD, defaultProbabilityPct)
		roi := roiPct(benefit, tier.CostUSD)
		options = append(options, TierOption{Tier: tier.Name, CostUSD: tier.CostUSD, BenefitUSD: benefit, ROIPct: roi})
		if roi > bestROI {
			bestROI = roi
			recommended = tier.Name
		}
	}

	return &InterventionRecommendation{
		StressOrRiskLevel: stressOrRisk,
		Options:           options,
		RecommendedTier:   recommended,
	}, nil
}
