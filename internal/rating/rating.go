// Package rating assigns credit ratings from default probability, ranks
// assets within their sector, computes percentiles, and classifies outlook
// from a three-point temporal rating trajectory (spec §4.9).
package rating

import (
	"sort"

	"github.com/atlasrisk/engine/internal/models"
)

// AssignCreditRating maps a default-probability fraction in [0,1] to a
// credit rating band.
func AssignCreditRating(defaultProbability float64) models.CreditRating {
	pct := defaultProbability * 100
	switch {
	case pct < 1:
		return models.RatingAAA
	case pct < 5:
		return models.RatingAA
	case pct < 10:
		return models.RatingA
	case pct < 20:
		return models.RatingBBB
	case pct < 30:
		return models.RatingBB
	case pct < 50:
		return models.RatingB
	default:
		return models.RatingC
	}
}

// IsInvestmentGrade reports whether a rating is AAA/AA/A/BBB.
func IsInvestmentGrade(r models.CreditRating) bool {
	switch r {
	case models.RatingAAA, models.RatingAA, models.RatingA, models.RatingBBB:
		return true
	default:
		return false
	}
}

// ratingIndex returns the ordinal position of a rating (lower is better);
// unknown ratings sort as worst.
func ratingIndex(r models.CreditRating) int {
	for i, ro := range models.RatingOrder {
		if ro == r {
			return i
		}
	}
	return len(models.RatingOrder)
}

// Percentile computes the percentile rank (0-100, higher is better) of a
// value within a slice: the fraction of values it is strictly better than
// (ties do not count).
func Percentile(value float64, all []float64, higherIsBetter bool) float64 {
	if len(all) == 0 {
		return 50
	}
	count := 0
	for _, v := range all {
		better := v < value
		if !higherIsBetter {
			better = v > value
		}
		if better {
			count++
		}
	}
	return float64(count) / float64(len(all)) * 100
}

// Rank returns the 1-indexed rank of value within all (1 = best) under
// higherIsBetter ordering.
func Rank(value float64, all []float64, higherIsBetter bool) int {
	sorted := append([]float64(nil), all...)
	sort.Float64s(sorted)
	if higherIsBetter {
		for i := len(sorted) - 1; i >= 0; i-- {
			if sorted[i] == value {
				return len(sorted) - i
			}
		}
	} else {
		for i, v := range sorted {
			if v == value {
				return i + 1
			}
		}
	}
	return len(sorted)
}

// CompositePercentile blends NPV, ROI, and risk percentiles per spec §4.9
// weighting (0.4/0.3/0.3).
func CompositePercentile(npvPercentile, roiPercentile, riskPercentile float64) float64 {
	return 0.4*npvPercentile + 0.3*roiPercentile + 0.3*riskPercentile
}

// TemporalPoint is one (year, npv, defaultProbability) sample used to
// build a TemporalTrajectory.
type TemporalPoint struct {
	Year               int
	NPV                float64
	DefaultProbability float64
}

// BuildTrajectory assigns a rating to each of the three temporal samples
// (2030/2040/2050, ascending) and detects the stranded-asset year.
func BuildTrajectory(points [3]TemporalPoint) models.TemporalTrajectory {
	var samples [3]models.TemporalSample
	for i, p := range points {
		samples[i] = models.TemporalSample{
			Year:               p.Year,
			NPV:                p.NPV,
			DefaultProbability: p.DefaultProbability,
			Rating:             AssignCreditRating(p.DefaultProbability),
		}
	}

	return models.TemporalTrajectory{
		Samples:           samples,
		StrandedAssetYear: strandedAssetYear(points),
	}
}

// strandedAssetYear linearly interpolates the first year at which NPV
// crosses from positive to non-positive across the trajectory's segments.
func strandedAssetYear(points [3]TemporalPoint) *float64 {
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if a.NPV > 0 && b.NPV <= 0 {
			frac := a.NPV / (a.NPV - b.NPV)
			year := float64(a.Year) + frac*float64(b.Year-a.Year)
			return &year
		}
	}
	return nil
}

// DetermineOutlook compares the trajectory's 2030 and 2050 ratings, per
// original_source outlook_engine.py's determine_outlook: Stable if equal,
// Negative Watch (with an estimated downgrade year) if it worsens,
// Positive if it improves.
func DetermineOutlook(trajectory models.TemporalTrajectory) (models.Outlook, *int) {
	if trajectory.Samples[0].Year == 0 || trajectory.Samples[2].Year == 0 {
		return models.OutlookUnknown, nil
	}
	idx2030 := ratingIndex(trajectory.Samples[0].Rating)
	idx2040 := ratingIndex(trajectory.Samples[1].Rating)
	idx2050 := ratingIndex(trajectory.Samples[2].Rating)

	switch {
	case idx2030 == idx2050:
		return models.OutlookStable, nil
	case idx2030 < idx2050:
		year := estimateDowngradeYear(idx2030, idx2040, idx2050)
		return models.OutlookNegativeWatch, year
	default:
		return models.OutlookPositive, nil
	}
}

// estimateDowngradeYear mirrors outlook_engine.py's estimate_downgrade_year
// heuristic: if the rating already worsened by 2040, interpolate within
// [2030,2040]; otherwise, if it only worsens by 2050, pick a fixed midpoint
// year depending on whether the decline accelerates in the second decade.
func estimateDowngradeYear(idx2030, idx2040, idx2050 int) *int {
	if idx2040 > idx2030 {
		delta := idx2040 - idx2030
		if delta < 1 {
			delta = 1
		}
		yearsToFirstChange := int(10 * (1.0 / float64(delta)))
		if yearsToFirstChange < 1 {
			yearsToFirstChange = 1
		}
		year := 2030 + yearsToFirstChange
		if year > 2040 {
			year = 2040
		}
		return &year
	}
	if idx2050 > idx2030 {
		year := 2038
		if idx2050 > idx2040 {
			year = 2045
		}
		return &year
	}
	return nil
}

// SectorAsset is one asset's inputs to sector-wide ranking: its NPV, ROI
// (benefit/cost expressed as a fraction), and default probability.
type SectorAsset struct {
	AssetID            string
	NPV                float64
	ROI                float64
	DefaultProbability float64
	Trajectory         models.TemporalTrajectory
}

// RateSector ranks and rates every asset within a single project-type
// sector, producing each one's RatedAsset decoration.
func RateSector(assets []SectorAsset) []models.RatedAsset {
	npvs := make([]float64, len(assets))
	rois := make([]float64, len(assets))
	defaults := make([]float64, len(assets))
	for i, a := range assets {
		npvs[i] = a.NPV
		rois[i] = a.ROI
		defaults[i] = a.DefaultProbability
	}

	stats := models.SectorStats{SectorSize: len(assets)}
	for _, a := range assets {
		stats.MeanNPV += a.NPV
		stats.MeanROI += a.ROI
		stats.MeanDefault += a.DefaultProbability
	}
	if len(assets) > 0 {
		stats.MeanNPV /= float64(len(assets))
		stats.MeanROI /= float64(len(assets))
		stats.MeanDefault /= float64(len(assets))
	}

	rated := make([]models.RatedAsset, len(assets))
	for i, a := range assets {
		npvPercentile := Percentile(a.NPV, npvs, true)
		roiPercentile := Percentile(a.ROI, rois, true)
		riskPercentile := Percentile(a.DefaultProbability, defaults, false)
		composite := CompositePercentile(npvPercentile, roiPercentile, riskPercentile)

		creditRating := AssignCreditRating(a.DefaultProbability)
		outlook, downgradeYear := DetermineOutlook(a.Trajectory)

		rated[i] = models.RatedAsset{
			AssetID:                a.AssetID,
			CreditRating:           creditRating,
			InvestmentGrade:        IsInvestmentGrade(creditRating),
			SectorRankByNPV:        Rank(a.NPV, npvs, true),
			SectorRankByROI:        Rank(a.ROI, rois, true),
			NPVPercentile:          npvPercentile,
			ROIPercentile:          roiPercentile,
			RiskPercentile:         riskPercentile,
			CompositePercentile:    composite,
			SectorStats:            stats,
			Outlook:                outlook,
			ProjectedDowngradeYear: downgradeYear,
		}
	}
	return rated
}
