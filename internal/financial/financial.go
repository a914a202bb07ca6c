// Package financial implements the NPV/BCR/payback/cash-flow kernel and the
// green-bond annuity layering described in spec §4.4.
package financial

import (
	"math"

	"github.com/atlasrisk/engine/internal/models"
)

// NPV returns the net present value of a cash-flow series (index 0 is
// year 0, undiscounted) at a fractional discount rate.
func NPV(cashFlows []float64, discountRate float64) float64 {
	var total float64
	for t, cf := range cashFlows {
		total += cf / math.Pow(1+discountRate, float64(t))
	}
	return total
}

// BCR returns the benefit-cost ratio: PV(positive cash flows) /
// PV(|negative cash flows|). Returns 0 if there are no costs to divide by.
func BCR(cashFlows []float64, discountRate float64) float64 {
	var pvBenefits, pvCosts float64
	for t, cf := range cashFlows {
		discounted := cf / math.Pow(1+discountRate, float64(t))
		if discounted >= 0 {
			pvBenefits += discounted
		} else {
			pvCosts += -discounted
		}
	}
	if pvCosts == 0 {
		return 0
	}
	return pvBenefits / pvCosts
}

// Payback returns the fractional year at which the cumulative
// (undiscounted) cash flow first crosses zero, linearly interpolated within
// that year, or nil if it never crosses.
func Payback(cashFlows []float64) *float64 {
	var cumulative float64
	for t, cf := range cashFlows {
		prev := cumulative
		cumulative += cf
		if t > 0 && prev < 0 && cumulative >= 0 {
			frac := float64(t-1) + (-prev)/(cumulative-prev)
			return &frac
		}
	}
	return nil
}

// CumulativeSeries returns the running sum of a cash-flow series.
func CumulativeSeries(cashFlows []float64) []float64 {
	cumulative := make([]float64, len(cashFlows))
	var running float64
	for i, cf := range cashFlows {
		running += cf
		cumulative[i] = running
	}
	return cumulative
}

// AgricultureCashFlows builds the N+1 year-0..N cash-flow vector: year 0 is
// -CAPEX; years 1..N are (resilientYieldPct*(1+benefit) - standardYieldPct)
// converted to tons via tonsPerYieldPoint, priced, less OPEX.
func AgricultureCashFlows(capexUSD, opexUSD, pricePerTonUSD, tonsPerYieldPoint, benefitFraction, resilientYieldPct, standardYieldPct float64, years int) []float64 {
	flows := make([]float64, years+1)
	flows[0] = -capexUSD

	yieldDeltaTons := (resilientYieldPct*(1+benefitFraction) - standardYieldPct) * tonsPerYieldPoint
	annualNet := yieldDeltaTons*pricePerTonUSD - opexUSD
	for t := 1; t <= years; t++ {
		flows[t] = annualNet
	}
	return flows
}

// Evaluate runs NPV/BCR/Payback over a cash-flow series and packages the
// result with its assumptions for reporting.
func Evaluate(cashFlows []float64, assumptions models.Assumptions) models.FinancialResult {
	return models.FinancialResult{
		NPVUSD:              NPV(cashFlows, assumptions.DiscountRate),
		BCR:                 BCR(cashFlows, assumptions.DiscountRate),
		PaybackYears:        Payback(cashFlows),
		CumulativeCashFlow:  CumulativeSeries(cashFlows),
		IncrementalCashFlow: cashFlows,
		Assumptions:         assumptions,
	}
}

// GreenBondAnnuity is the amortized annual payment P*r/(1-(1+r)^-n) for a
// principal financed at a given rate over n years.
func GreenBondAnnuity(principalUSD, rate float64, years int) float64 {
	if rate == 0 {
		return principalUSD / float64(years)
	}
	n := float64(years)
	return principalUSD * rate / (1 - math.Pow(1+rate, -n))
}

// GreenBondSavings compares a standard-rate bond against a greenium-
// discounted rate, returning annual and lifetime savings.
type GreenBondSavings struct {
	StandardAnnualPaymentUSD float64
	GreenAnnualPaymentUSD    float64
	AnnualSavingsUSD         float64
	LifetimeSavingsUSD       float64
}

// CompareGreenBond evaluates standard-vs-greenium bond financing for the
// same principal and term.
func CompareGreenBond(principalUSD, standardRate, greenRate float64, years int) GreenBondSavings {
	standard := GreenBondAnnuity(principalUSD, standardRate, years)
	green := GreenBondAnnuity(principalUSD, greenRate, years)
	annualSavings := standard - green
	return GreenBondSavings{
		StandardAnnualPaymentUSD: standard,
		GreenAnnualPaymentUSD:    green,
		AnnualSavingsUSD:         annualSavings,
		LifetimeSavingsUSD:       annualSavings * float64(years),
	}
}
