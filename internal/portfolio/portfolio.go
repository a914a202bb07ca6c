// Package portfolio aggregates a batch run into a portfolio-level summary:
// value-at-risk and NPV totals, volatility, and an asset-vs-market
// correlation classification used to flag hedges and concentrators
// (spec §4.10, grounded on correlation_engine.py and confidence_engine.py).
package portfolio

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/atlasrisk/engine/internal/models"
	"github.com/atlasrisk/engine/internal/montecarlo"
)

// AssetReturn is one asset's NPV trajectory across the three temporal
// checkpoints (2030, 2040, 2050), the "return vector" correlation_engine.py
// builds from temporal_analysis.history.
type AssetReturn struct {
	AssetID     string
	NPVByYear   [3]float64
}

// classify mirrors correlation_engine.py's classify_correlation: negative
// correlation is a hedge, above 0.8 is a concentrator, otherwise neutral.
func classify(correlation float64) (classification, narrative string) {
	switch {
	case correlation < 0:
		return "Hedge", "Portfolio fit: excellent. This asset provides a natural hedge against global climate trends, diversifying risk."
	case correlation > 0.8:
		return "Concentrator", "Portfolio fit: caution. Highly correlated with broader portfolio risk; offers little diversification."
	default:
		return "Neutral", "Portfolio fit: neutral. Performance moves in line with the broader portfolio."
	}
}

// FitNarrative returns the classification and narrative text for a single
// correlation value, exposed for callers that already have a correlation
// number (e.g. tests) without assembling a full portfolio.
func FitNarrative(correlation float64) (classification, narrative string) {
	return classify(correlation)
}

// pearson computes the Pearson correlation between two equal-length
// vectors, returning 0 for degenerate (zero-variance) inputs rather than
// NaN, matching correlation_engine.py's calculate_correlation.
func pearson(a, b []float64) float64 {
	if stat.StdDev(a, nil) == 0 || stat.StdDev(b, nil) == 0 {
		return 0
	}
	c := stat.Correlation(a, b, nil)
	if math.IsNaN(c) {
		return 0
	}
	return c
}

// CorrelateAssets classifies each asset's NPV trajectory against the mean
// trajectory of every OTHER asset in the set (the "market" benchmark),
// per correlation_engine.py's calculate_global_average_excluding. With
// fewer than two assets there is no market to compare against, and each
// asset gets an "Insufficient Data" entry.
func CorrelateAssets(assets []AssetReturn) []models.AssetCorrelation {
	if len(assets) < 2 {
		result := make([]models.AssetCorrelation, len(assets))
		for i, a := range assets {
			result[i] = models.AssetCorrelation{
				AssetID:        a.AssetID,
				Classification: "Insufficient Data",
				Narrative:      "Portfolio fit: unknown. Insufficient temporal data for correlation analysis.",
			}
		}
		return result
	}

	result := make([]models.AssetCorrelation, len(assets))
	for i, a := range assets {
		vec := a.NPVByYear[:]

		var sum [3]float64
		others := 0
		for j, other := range assets {
			if j == i {
				continue
			}
			sum[0] += other.NPVByYear[0]
			sum[1] += other.NPVByYear[1]
			sum[2] += other.NPVByYear[2]
			others++
		}
		marketAvg := []float64{sum[0] / float64(others), sum[1] / float64(others), sum[2] / float64(others)}

		correlation := pearson(vec, marketAvg)
		classification, narrative := classify(correlation)

		result[i] = models.AssetCorrelation{
			AssetID:             a.AssetID,
			CorrelationVsMarket: math.Round(correlation*10000) / 10000,
			Classification:      classification,
			Narrative:           narrative,
		}
	}
	return result
}

// VolatilityPct is the portfolio-level coefficient of variation of VaR
// across successful assets, expressed as a percentage.
func VolatilityPct(valuesAtRiskUSD []float64) float64 {
	if len(valuesAtRiskUSD) == 0 {
		return 0
	}
	mean := stat.Mean(valuesAtRiskUSD, nil)
	if mean == 0 {
		return 0
	}
	sd := stat.StdDev(valuesAtRiskUSD, nil)
	return (sd / math.Abs(mean)) * 100
}

// riskRatingBand maps portfolio-level VaR as a percentage of total value to a
// plain-language risk rating for the executive summary.
func riskRatingBand(riskExposurePct float64) string {
	switch {
	case riskExposurePct < 10:
		return "Low"
	case riskExposurePct < 25:
		return "Moderate"
	case riskExposurePct < 45:
		return "Elevated"
	default:
		return "Severe"
	}
}

// assetValueAtRisk picks the best available value-at-risk figure for an
// asset: the spatial engine's exposure-scaled value when the asset carried
// polygon geometry, otherwise the physical damage fraction applied to the
// asset's declared value.
func assetValueAtRisk(r models.AssetRunResult) float64 {
	if r.Report.Spatial != nil {
		return r.Report.Spatial.ValueAtRiskUSD
	}
	return r.Asset.Exposure.AssetValueUSD * r.Report.Physics.DamagePct
}

// BuildPortfolioReport aggregates per-asset results (successful ones only
// contribute to the financial roll-up) into the batch-level summary
// returned alongside individual asset reports (spec §4.8/§4.10).
func BuildPortfolioReport(results []models.AssetRunResult) models.PortfolioReport {
	report := models.PortfolioReport{
		TotalAssets:      len(results),
		CropDistribution: map[string]int{},
	}

	var valuesAtRisk []float64
	var resilienceSum float64
	resilienceCount := 0

	for _, r := range results {
		if r.Status != models.StatusSuccess || r.Report == nil {
			report.Failed++
			continue
		}
		report.Successful++

		valueAtRisk := assetValueAtRisk(r)

		report.TotalValueUSD += r.Asset.Exposure.AssetValueUSD
		report.TotalVaRUSD += valueAtRisk
		report.TotalNPV += r.Report.Financial.NPVUSD
		report.TotalExpectedLoss += math.Max(0, -r.Report.MonteCarlo.MeanNPV)
		valuesAtRisk = append(valuesAtRisk, valueAtRisk)

		if r.Report.Financial.BCR > 0 {
			resilienceSum += r.Report.Financial.BCR * 100
			resilienceCount++
		}

		if r.Asset.Crop != "" {
			report.CropDistribution[r.Asset.Crop]++
		}
	}

	if resilienceCount > 0 {
		report.AvgResilience = resilienceSum / float64(resilienceCount)
	}
	if report.TotalValueUSD > 0 {
		report.RiskExposurePct = report.TotalVaRUSD / report.TotalValueUSD * 100
	}
	report.VolatilityPct = VolatilityPct(valuesAtRisk)
	report.RiskRating = riskRatingBand(report.RiskExposurePct)

	return report
}

// ConfidenceSummary tallies how many portfolio entries fall into each
// confidence tier, mirroring confidence_engine.py's process_portfolio
// stats block.
type ConfidenceSummary struct {
	High, Medium, Low, Total int
}

// String renders a one-line summary, e.g. for log output.
func (c ConfidenceSummary) String() string {
	return fmt.Sprintf("confidence: %d high, %d medium, %d low (of %d)", c.High, c.Medium, c.Low, c.Total)
}

// SummarizeConfidence classifies each (meanNPV, stdevNPV) pair via the
// shared Monte Carlo confidence tiering and tallies the result.
func SummarizeConfidence(meanNPVs, stdevNPVs []float64) ConfidenceSummary {
	var summary ConfidenceSummary
	n := len(meanNPVs)
	if len(stdevNPVs) < n {
		n = len(stdevNPVs)
	}
	for i := 0; i < n; i++ {
		summary.Total++
		switch montecarlo.ConfidenceTier(meanNPVs[i], stdevNPVs[i]) {
		case models.ConfidenceHigh:
			summary.High++
		case models.ConfidenceMedium:
			summary.Medium++
		default:
			summary.Low++
		}
	}
	return summary
}
