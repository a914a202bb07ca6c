// Package lifespan maps climate-stress magnitudes to asset-lifespan years
// lost and incremental OPEX, applying the 80% intervention rescue where
// present.
package lifespan

import (
	"strings"

	"github.com/atlasrisk/engine/internal/models"
)

// RescueFraction is the residual penalty fraction after an intervention
// rescue applies (80% reduction).
const RescueFraction = 0.2

// CoastalPenaltyYears returns the raw lifespan penalty in years for a
// coastal asset at a given sea-level-rise projection.
func CoastalPenaltyYears(slrM float64) float64 {
	switch {
	case slrM > 1.0:
		return 12
	case slrM > 0.5:
		return 5
	default:
		return 0
	}
}

// FloodOrAgriPenaltyYears returns the raw lifespan penalty in years for
// flood or agriculture assets at a given global-warming magnitude.
func FloodOrAgriPenaltyYears(globalWarmingC float64) float64 {
	switch {
	case globalWarmingC > 2.0:
		return 10
	case globalWarmingC > 1.5:
		return 4
	default:
		return 0
	}
}

// Apply applies a raw penalty (optionally reduced 80% by rescue) to an
// initial lifespan, clamping the result to at least one year.
func Apply(initialYears int, rawPenaltyYears float64, rescue bool) models.LifespanAdjustment {
	penalty := rawPenaltyYears
	if rescue {
		penalty = rawPenaltyYears * RescueFraction
	}

	adjusted := float64(initialYears) - penalty
	if adjusted < 1 {
		adjusted = 1
	}

	return models.LifespanAdjustment{
		InitialYears:    initialYears,
		RawPenaltyYears: rawPenaltyYears,
		RescueApplied:   rescue,
		AdjustedYears:   int(adjusted + 0.5),
		PenaltyYears:    round2(penalty),
	}
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// CoastalHasRescue reports whether an intervention description triggers the
// coastal rescue multiplier.
func CoastalHasRescue(intervention string) bool {
	return containsAny(intervention, "sea wall", "seawall")
}

// FloodHasRescue reports whether an intervention description triggers the
// flood/urban rescue multiplier.
func FloodHasRescue(intervention string) bool {
	return containsAny(intervention, "sponge")
}

func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// OPEXPenaltyPct returns the fraction of base annual OPEX added by climate
// stress: coastal assets are banded on the SLR projection, every other kind
// on global warming. The fraction is reduced 85% when rescued.
func OPEXPenaltyPct(kind models.ProjectKind, slrM, globalWarmingC float64, rescue bool) float64 {
	var pct float64
	switch kind {
	case models.ProjectCoastal:
		switch {
		case slrM > 1.0:
			pct = 0.30
		case slrM > 0.5:
			pct = 0.15
		}
	default:
		switch {
		case globalWarmingC > 2.0:
			pct = 0.25
		case globalWarmingC > 1.5:
			pct = 0.12
		}
	}
	if rescue {
		pct *= 1 - 0.85
	}
	return pct
}
