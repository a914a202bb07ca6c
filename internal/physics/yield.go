// Package physics implements the closed-form and surrogate-backed physics
// kernels: crop yield, coastal run-up, urban flood depth, flash-flood
// footprint, heat/WBGT productivity loss, and malaria suitability. Every
// kernel here is a deterministic pure function of its numeric inputs; none
// perform I/O.
package physics

import (
	"math"
	"strings"

	"github.com/atlasrisk/engine/internal/atlaserr"
)

// cropCurve holds the per-crop water/heat stress thresholds used by
// CalculateYield. Values are grounded on the original resilient-backend's
// multi-crop physics tests (rain bands, critical temperatures).
type cropCurve struct {
	criticalTempC       float64
	heatExcessPenalty   float64 // yield fraction lost per °C above critical
	resilientTempBonusC float64
	rainMin             float64
	rainMax             float64 // 0 means "no waterlogging ceiling"
	droughtPenaltyCoef  float64 // fraction lost per unit deficit ratio
	resilientRainShift  float64
}

var cropCurves = map[string]cropCurve{
	"maize": {
		criticalTempC:       28,
		heatExcessPenalty:   0.04,
		resilientTempBonusC: 3,
		rainMin:             500,
		rainMax:             1300,
		droughtPenaltyCoef:  1.0,
		resilientRainShift:  150,
	},
	"cocoa": {
		criticalTempC:       33,
		heatExcessPenalty:   0.05,
		resilientTempBonusC: 3,
		rainMin:             1200,
		rainMax:             0,
		droughtPenaltyCoef:  1.5,
		resilientRainShift:  300,
	},
}

// SupportedCrops lists the crops CalculateYield recognizes.
func SupportedCrops() []string {
	return []string{"maize", "cocoa"}
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// CalculateYield returns percent yield in [0,100] for a crop given maximum
// temperature, total rainfall, whether a resilient seed variety is planted,
// and an optional soil pH (hasSoilPH=false skips the pH factor entirely).
func CalculateYield(tempC, rainMM, soilPH float64, hasSoilPH, resilientSeed bool, crop string) (float64, error) {
	curve, ok := cropCurves[strings.ToLower(crop)]
	if !ok {
		return 0, atlaserr.Invalid("UNKNOWN_CROP", "unsupported crop: "+crop)
	}

	tempFactor := temperatureFactor(tempC, curve, resilientSeed)
	rainFactor := rainfallFactor(rainMM, curve, resilientSeed)

	yield := tempFactor * rainFactor
	if hasSoilPH {
		yield *= soilPHFactor(soilPH)
	}
	return clip01(yield) * 100, nil
}

func temperatureFactor(tempC float64, curve cropCurve, resilient bool) float64 {
	critical := curve.criticalTempC
	if resilient {
		critical += curve.resilientTempBonusC
	}
	if tempC <= critical {
		return 1
	}
	excess := tempC - critical
	return clip01(1 - excess*curve.heatExcessPenalty)
}

func rainfallFactor(rainMM float64, curve cropCurve, resilient bool) float64 {
	rainMin := curve.rainMin
	if resilient {
		rainMin -= curve.resilientRainShift
	}
	switch {
	case rainMM < rainMin:
		if rainMin <= 0 {
			return 0
		}
		deficit := rainMin - rainMM
		return clip01(1 - (deficit/rainMin)*curve.droughtPenaltyCoef)
	case curve.rainMax > 0 && rainMM > curve.rainMax:
		excess := rainMM - curve.rainMax
		return clip01(1 - (excess/curve.rainMax)*0.5)
	default:
		return 1
	}
}

// soilPHFactor penalizes yield 0.05 per 0.5 pH unit outside the 6.0-7.0
// neutral band common to both catalogued crops.
func soilPHFactor(soilPH float64) float64 {
	const lo, hi = 6.0, 7.0
	var deviation float64
	switch {
	case soilPH < lo:
		deviation = lo - soilPH
	case soilPH > hi:
		deviation = soilPH - hi
	default:
		return 1
	}
	return clip01(1 - (deviation/0.5)*0.05)
}
