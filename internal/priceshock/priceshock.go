// Package priceshock models the price response to a climate-induced supply
// disruption: a baseline/stressed yield pair translates into a commodity
// price move via supply elasticity, plus a revenue-impact readout and a
// forward-contract hedging recommendation (spec §4.2/§4.11).
package priceshock

import (
	"strings"

	"github.com/atlasrisk/engine/internal/atlaserr"
)

// cropEntry is one commodity's baseline price and supply elasticity.
type cropEntry struct {
	BaselinePriceUSDPerTon float64
	SupplyElasticity       float64
}

// catalog holds the crops price_shock_engine.py documented, keyed by
// canonical lowercase name.
var catalog = map[string]cropEntry{
	"maize":    {180.0, 0.25},
	"wheat":    {220.0, 0.30},
	"soybeans": {450.0, 0.35},
	"rice":     {450.0, 0.20},
	"cocoa":    {2500.0, 0.15},
	"potato":   {350.0, 0.60},
}

// aliases resolve common synonyms to a catalog key.
var aliases = map[string]string{
	"corn": "maize",
	"soy":  "soybeans",
}

func resolveCrop(cropType string) (string, cropEntry, error) {
	key := strings.ToLower(strings.TrimSpace(cropType))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	entry, ok := catalog[key]
	if !ok {
		return "", cropEntry{}, atlaserr.Invalid("CROP_NOT_RECOGNIZED", "crop type '"+cropType+"' is not recognized")
	}
	return key, entry, nil
}

// CropInfo is the public view of a catalog entry.
type CropInfo struct {
	CropType                 string  `json:"cropType"`
	BaselinePriceUSDPerTon   float64 `json:"baselinePriceUsdPerTon"`
	SupplyElasticity         float64 `json:"supplyElasticity"`
	ElasticityInterpretation string  `json:"elasticityInterpretation"`
}

func interpretElasticity(e float64) string {
	switch {
	case e < 0.3:
		return "Highly inelastic — small supply changes cause large price swings"
	case e < 0.5:
		return "Inelastic — moderate price sensitivity to supply changes"
	default:
		return "Moderately elastic — price responds proportionally to supply changes"
	}
}

// GetCropInfo returns catalog data for one crop.
func GetCropInfo(cropType string) (CropInfo, error) {
	key, entry, err := resolveCrop(cropType)
	if err != nil {
		return CropInfo{}, err
	}
	return CropInfo{
		CropType:                 key,
		BaselinePriceUSDPerTon:   entry.BaselinePriceUSDPerTon,
		SupplyElasticity:         entry.SupplyElasticity,
		ElasticityInterpretation: interpretElasticity(entry.SupplyElasticity),
	}, nil
}

// GetAllCrops returns catalog data for every known crop.
func GetAllCrops() map[string]CropInfo {
	out := make(map[string]CropInfo, len(catalog))
	for key, entry := range catalog {
		out[key] = CropInfo{
			CropType:                 key,
			BaselinePriceUSDPerTon:   entry.BaselinePriceUSDPerTon,
			SupplyElasticity:         entry.SupplyElasticity,
			ElasticityInterpretation: interpretElasticity(entry.SupplyElasticity),
		}
	}
	return out
}

// RevenueImpact compares baseline and stressed revenue under the shocked
// price.
type RevenueImpact struct {
	BaselineRevenueUSD  float64 `json:"baselineRevenueUsd"`
	StressedRevenueUSD  float64 `json:"stressedRevenueUsd"`
	NetRevenueChangeUSD float64 `json:"netRevenueChangeUsd"`
	NetRevenueChangePct float64 `json:"netRevenueChangePct"`
}

// Result is the full price-shock calculation output.
type Result struct {
	CropType                      string        `json:"cropType"`
	BaselinePrice                 float64       `json:"baselinePrice"`
	ShockedPrice                  float64       `json:"shockedPrice"`
	PriceIncreasePct              float64       `json:"priceIncreasePct"`
	PriceIncreaseUSD              float64       `json:"priceIncreaseUsd"`
	YieldLossPct                  float64       `json:"yieldLossPct"`
	YieldLossTons                 float64       `json:"yieldLossTons"`
	Elasticity                    float64       `json:"elasticity"`
	RevenueImpact                 RevenueImpact `json:"revenueImpact"`
	ForwardContractRecommendation string        `json:"forwardContractRecommendation"`
}

// recommendation classifies yield-loss severity into a forward-contract
// hedging band, per spec §4.2's {<5, 5-15, 15-30, >=30%} thresholds.
func recommendation(yieldLossPct float64) string {
	switch {
	case yieldLossPct < 5:
		return "LOW RISK: No immediate hedging action required; monitor seasonal forecasts."
	case yieldLossPct < 15:
		return "MODERATE RISK: Consider forward contracts for 30-40% of expected volume."
	case yieldLossPct < 30:
		return "HIGH RISK: Lock in forward contracts for 50-60% of expected volume."
	default:
		return "URGENT: Lock in forward contracts for 70-80% of expected volume immediately."
	}
}

// Calculate computes the full price-shock result for a (crop, baseline
// yield, stressed yield) triple, per spec §4.2: %price = %yield_loss /
// elasticity, shocked_price = baseline * (1 + %price/100).
func Calculate(cropType string, baselineYieldTons, stressedYieldTons float64) (Result, error) {
	if baselineYieldTons <= 0 {
		return Result{}, atlaserr.Invalid("INVALID_BASELINE_YIELD", "baseline_yield_tons must be positive")
	}
	if stressedYieldTons < 0 {
		return Result{}, atlaserr.Invalid("INVALID_STRESSED_YIELD", "stressed_yield_tons cannot be negative")
	}

	key, entry, err := resolveCrop(cropType)
	if err != nil {
		return Result{}, err
	}

	yieldLossTons := baselineYieldTons - stressedYieldTons
	yieldLossPct := yieldLossTons / baselineYieldTons * 100

	priceIncreasePct := yieldLossPct / entry.SupplyElasticity
	shockedPrice := entry.BaselinePriceUSDPerTon * (1 + priceIncreasePct/100)
	priceIncreaseUSD := shockedPrice - entry.BaselinePriceUSDPerTon

	baselineRevenue := baselineYieldTons * entry.BaselinePriceUSDPerTon
	stressedRevenue := stressedYieldTons * shockedPrice
	netChange := stressedRevenue - baselineRevenue
	netChangePct := 0.0
	if baselineRevenue != 0 {
		netChangePct = netChange / baselineRevenue * 100
	}

	return Result{
		CropType:         key,
		BaselinePrice:    entry.BaselinePriceUSDPerTon,
		ShockedPrice:     shockedPrice,
		PriceIncreasePct: priceIncreasePct,
		PriceIncreaseUSD: priceIncreaseUSD,
		YieldLossPct:     yieldLossPct,
		YieldLossTons:    yieldLossTons,
		Elasticity:       entry.SupplyElasticity,
		RevenueImpact: RevenueImpact{
			BaselineRevenueUSD:  baselineRevenue,
			StressedRevenueUSD:  stressedRevenue,
			NetRevenueChangeUSD: netChange,
			NetRevenueChangePct: netChangePct,
		},
		ForwardContractRecommendation: recommendation(yieldLossPct),
	}, nil
}
