package cba

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_InterventionCheaperThrough(t *testing.T) {
	in := Inputs{
		Years:                   10,
		DiscountRate:            0.10,
		BaselineAnnualDamageUSD: 500,
		FullInsurancePremiumUSD: 200,
		InterventionCapexUSD:    2000,
		OpexUSD:                 100,
		ResidualAnnualDamageUSD: 50,
	}
	result := Build(in)

	require.Len(t, result.BaselineDiscountedCost, 11)
	require.Len(t, result.InterventionDiscountedCost, 11)

	assert.Zero(t, result.BaselineDiscountedCost[0], "baseline has no year-0 capex")
	assert.InDelta(t, 2000, result.InterventionDiscountedCost[0], 1e-9)

	for t2 := 1; t2 < len(result.BaselineDiscountedCost); t2++ {
		assert.Greater(t, result.BaselineDiscountedCost[t2], 0.0)
	}

	assert.NotNil(t, result.BreakevenYear, "cheaper ongoing costs should eventually break even")
	assert.Greater(t, result.TotalROIPct, -100.0)
}

func TestBuild_NoBreakevenWhenInterventionNeverCheaper(t *testing.T) {
	in := Inputs{
		Years:                   5,
		DiscountRate:            0.10,
		BaselineAnnualDamageUSD: 10,
		InterventionCapexUSD:    100000,
		OpexUSD:                 50000,
		ResidualAnnualDamageUSD: 10,
	}
	result := Build(in)
	assert.Nil(t, result.BreakevenYear)
	assert.Less(t, result.TotalROIPct, 0.0)
}

func TestBreakevenYear_InterpolatesWithinCrossingYear(t *testing.T) {
	cumBaseline := []float64{0, 100, 200, 300}
	cumIntervention := []float64{500, 450, 250, 100}
	year := breakevenYear(cumBaseline, cumIntervention)
	require.NotNil(t, year)
	assert.InDelta(t, 2.2, *year, 0.01)
}

func TestTotalROIPct_ZeroCapexIsZero(t *testing.T) {
	assert.Equal(t, 0.0, totalROIPct([]float64{1, 2, 3}, 0))
}
