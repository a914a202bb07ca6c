package physics

import (
	"math"
)

// Regressor is the narrow surrogate contract physics kernels depend on;
// satisfied by regressor.Registry's loaded models.
type Regressor interface {
	Predict(features []float64) (float64, error)
}

// CoastalRunup returns the run-up elevation in metres for a wave height,
// beach slope (percent), and mangrove buffer width (metres). It consults a
// surrogate regressor first and falls back to the Stockdon approximation
// when the model is unavailable.
func CoastalRunup(waveHeightM, slopePct, mangroveWidthM float64, reg Regressor) (runupM float64, usedSurrogate bool) {
	if reg != nil {
		if v, err := reg.Predict([]float64{waveHeightM, slopePct, mangroveWidthM}); err == nil {
			return v, true
		}
	}
	return stockdonRunup(waveHeightM, slopePct, mangroveWidthM), false
}

// stockdonRunup is the closed-form fallback: R = 0.71 * slope * H *
// (1-0.45)^(width/100), attenuating with mangrove buffer width.
func stockdonRunup(waveHeightM, slopePct, mangroveWidthM float64) float64 {
	slopeFraction := slopePct / 100
	base := 0.71 * slopeFraction * waveHeightM
	attenuation := math.Pow(1-0.45, mangroveWidthM/100)
	return base * attenuation
}

// CompareMangroveProtection reports the run-up reduction a mangrove buffer
// delivers over a bare baseline, plus the avoided damage in USD at a given
// asset value and damage-per-metre rate (supplemented from the original
// resilient-backend's mangrove-comparison endpoint).
type MangroveComparison struct {
	BaselineRunupM     float64
	ProtectedRunupM    float64
	RunupReductionPct  float64
	AvoidedDamageUSD   float64
	AssetValueUSD      float64
}

func CompareMangroveProtection(waveHeightM, slopePct, mangroveWidthM, assetValueUSD, damagePerMetreFraction float64, reg Regressor) MangroveComparison {
	baseline, _ := CoastalRunup(waveHeightM, slopePct, 0, reg)
	protected, _ := CoastalRunup(waveHeightM, slopePct, mangroveWidthM, reg)

	reductionPct := 0.0
	if baseline > 0 {
		reductionPct = (baseline - protected) / baseline * 100
	}

	baselineDamage := assetValueUSD * clip01(baseline*damagePerMetreFraction)
	protectedDamage := assetValueUSD * clip01(protected*damagePerMetreFraction)

	return MangroveComparison{
		BaselineRunupM:    baseline,
		ProtectedRunupM:   protected,
		RunupReductionPct: reductionPct,
		AvoidedDamageUSD:  baselineDamage - protectedDamage,
		AssetValueUSD:     assetValueUSD,
	}
}
