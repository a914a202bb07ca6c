package physics

// CropSwitchEvaluation compares a farmer's current crop against a proposed
// alternative under the same climate stress, with a switch recommendation
// driven by CAPEX payback (supplemented from the original resilient-backend's
// PredictAgriRequest crop-switch endpoint).
type CropSwitchEvaluation struct {
	CurrentCrop        string
	ProposedCrop       string
	CurrentYieldPct    float64
	ProposedYieldPct   float64
	YieldDeltaPct      float64
	AnnualRevenueDelta float64
	SwitchCapexUSD     float64
	PaybackYears       *float64
	Recommendation     string // "switch" | "hold"
}

// EvaluateCropSwitch scores a crop switch at the same stress conditions,
// recommending "switch" when the proposed crop's additional annual revenue
// pays back the switching CAPEX within the asset's remaining horizon.
func EvaluateCropSwitch(
	tempC, rainMM, soilPH float64, hasSoilPH bool,
	currentCrop, proposedCrop string,
	pricePerTonUSD, tonsPerYieldPoint, switchCapexUSD float64,
	horizonYears int,
) (CropSwitchEvaluation, error) {
	currentYield, err := CalculateYield(tempC, rainMM, soilPH, hasSoilPH, false, currentCrop)
	if err != nil {
		return CropSwitchEvaluation{}, err
	}
	proposedYield, err := CalculateYield(tempC, rainMM, soilPH, hasSoilPH, true, proposedCrop)
	if err != nil {
		return CropSwitchEvaluation{}, err
	}

	yieldDelta := proposedYield - currentYield
	annualRevenueDelta := yieldDelta * tonsPerYieldPoint * pricePerTonUSD

	eval := CropSwitchEvaluation{
		CurrentCrop:        currentCrop,
		ProposedCrop:       proposedCrop,
		CurrentYieldPct:    currentYield,
		ProposedYieldPct:   proposedYield,
		YieldDeltaPct:      yieldDelta,
		AnnualRevenueDelta: annualRevenueDelta,
		SwitchCapexUSD:     switchCapexUSD,
		Recommendation:     "hold",
	}

	if annualRevenueDelta > 0 {
		payback := switchCapexUSD / annualRevenueDelta
		eval.PaybackYears = &payback
		if payback <= float64(horizonYears) {
			eval.Recommendation = "switch"
		}
	}

	return eval, nil
}
