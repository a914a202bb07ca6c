// Package montecarlo implements the two Monte-Carlo harnesses spec'd in
// §4.5: a CVaR damage-distribution sampler and an NPV-uncertainty harness
// that re-runs the deterministic per-asset pipeline under perturbed
// drivers. Both yield to a cancellation context every checkpointInterval
// iterations and return partial, flagged-incomplete aggregates on cancel.
package montecarlo

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/atlasrisk/engine/internal/models"
)

const checkpointInterval = 500

// Histogram is an equal-width 40-bin histogram over an observed value
// range.
type Histogram struct {
	BinEdges []float64 `json:"binEdges"`
	Counts   []int     `json:"counts"`
}

const HistogramBins = 40

// CVaRResult is the output of the annual-damage CVaR sampler.
type CVaRResult struct {
	MeanLossUSD float64   `json:"meanLossUsd"`
	P95USD      float64   `json:"p95Usd"`
	P99USD      float64   `json:"p99Usd"`
	Histogram   Histogram `json:"histogram"`
	Trials      int       `json:"trials"`
	Incomplete  bool      `json:"incomplete,omitempty"`
}

// RunCVaR samples numSimulations annual damage percentages from
// N(meanDamagePct, volatilityPct²), floors each at zero, scales by asset
// value, and returns mean/95th/99th percentile loss plus a 40-bin
// histogram. seed makes the run reproducible.
func RunCVaR(ctx context.Context, assetValueUSD, meanDamagePct, volatilityPct float64, numSimulations int, seed int64) CVaRResult {
	rng := rand.New(rand.NewSource(seed))
	losses := make([]float64, 0, numSimulations)

	for i := 0; i < numSimulations; i++ {
		if i > 0 && i%checkpointInterval == 0 {
			select {
			case <-ctx.Done():
				return buildCVaRResult(losses, true)
			default:
			}
		}
		damagePct := rng.NormFloat64()*volatilityPct + meanDamagePct
		if damagePct < 0 {
			damagePct = 0
		}
		losses = append(losses, damagePct*assetValueUSD)
	}

	return buildCVaRResult(losses, false)
}

func buildCVaRResult(losses []float64, incomplete bool) CVaRResult {
	n := len(losses)
	result := CVaRResult{Trials: n, Incomplete: incomplete}
	if n == 0 {
		return result
	}

	sorted := append([]float64(nil), losses...)
	sort.Float64s(sorted)

	result.MeanLossUSD = stat.Mean(sorted, nil)
	result.P95USD = percentile(sorted, 95)
	result.P99USD = percentile(sorted, 99)
	result.Histogram = buildHistogram(sorted, HistogramBins)
	return result
}

func buildHistogram(sorted []float64, bins int) Histogram {
	lo, hi := sorted[0], sorted[len(sorted)-1]
	edges := make([]float64, bins+1)
	if hi == lo {
		hi = lo + 1
	}
	width := (hi - lo) / float64(bins)
	for i := 0; i <= bins; i++ {
		edges[i] = lo + width*float64(i)
	}

	counts := make([]int, bins)
	for _, v := range sorted {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}
	return Histogram{BinEdges: edges, Counts: counts}
}

// percentile linearly interpolates the p-th percentile of an
// already-sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// DriverPerturbation is one sampled set of scenario-driver deltas applied
// to a baseline scenario before a single deterministic re-run.
type DriverPerturbation struct {
	TempDeltaC      float64
	RainPctChange   float64
	SLRProjectionM  float64
	RainIntensityPct float64
}

// DriverDistributions describes the per-driver normal distributions the
// NPV-uncertainty harness samples from, crop/hazard-specific per spec §4.5.
type DriverDistributions struct {
	TempDeltaMean, TempDeltaStdev             float64
	RainPctChangeMean, RainPctChangeStdev     float64
	SLRMean, SLRStdev                         float64
	RainIntensityMean, RainIntensityStdev     float64
}

// PipelineFunc re-runs the deterministic per-asset pipeline for one
// perturbed driver set and returns its NPV.
type PipelineFunc func(DriverPerturbation) float64

// RunNPVUncertainty draws K driver perturbations, re-runs pipeline for
// each, and aggregates into a MonteCarloResult. Cancellation returns the
// partial aggregate computed so far, flagged Incomplete.
func RunNPVUncertainty(ctx context.Context, dist DriverDistributions, trials int, seed int64, pipeline PipelineFunc) models.MonteCarloResult {
	rng := rand.New(rand.NewSource(seed))
	npvs := make([]float64, 0, trials)

	for i := 0; i < trials; i++ {
		if i > 0 && i%checkpointInterval == 0 {
			select {
			case <-ctx.Done():
				return aggregateNPVs(npvs, true)
			default:
			}
		}
		perturbation := DriverPerturbation{
			TempDeltaC:       dist.TempDeltaMean + rng.NormFloat64()*dist.TempDeltaStdev,
			RainPctChange:    dist.RainPctChangeMean + rng.NormFloat64()*dist.RainPctChangeStdev,
			SLRProjectionM:   dist.SLRMean + rng.NormFloat64()*dist.SLRStdev,
			RainIntensityPct: dist.RainIntensityMean + rng.NormFloat64()*dist.RainIntensityStdev,
		}
		npvs = append(npvs, pipeline(perturbation))
	}

	return aggregateNPVs(npvs, false)
}

func aggregateNPVs(npvs []float64, incomplete bool) models.MonteCarloResult {
	n := len(npvs)
	result := models.MonteCarloResult{Trials: n, Incomplete: incomplete}
	if n == 0 {
		result.Confidence = models.ConfidenceLow
		return result
	}

	mean := stat.Mean(npvs, nil)
	var stdev float64
	if n > 1 {
		stdev = stat.StdDev(npvs, nil)
	}

	sorted := append([]float64(nil), npvs...)
	sort.Float64s(sorted)

	failures := 0
	for _, v := range npvs {
		if v < 0 {
			failures++
		}
	}

	result.MeanNPV = mean
	result.StdevNPV = stdev
	result.VaR95 = percentile(sorted, 5) // loss-side VaR: 5th percentile of NPV
	result.VaR99 = percentile(sorted, 1)
	result.DefaultProbability = float64(failures) / float64(n)
	result.Confidence = confidenceTier(mean, stdev)
	return result
}

// ConfidenceTier exposes confidenceTier for callers outside the Monte
// Carlo harness (e.g. the portfolio engine's per-entry confidence score,
// spec §4.10, grounded on confidence_engine.py's calculate_confidence).
func ConfidenceTier(mean, stdev float64) models.Confidence {
	return confidenceTier(mean, stdev)
}

// confidenceTier derives the High/Medium/Low confidence tier from the
// coefficient of variation, per spec §3/§4.5 tie-breaks.
func confidenceTier(mean, stdev float64) models.Confidence {
	if mean == 0 {
		return models.ConfidenceLow
	}
	if mean <= 0 {
		return models.ConfidenceLow
	}
	if stdev == 0 {
		return models.ConfidenceHigh
	}
	cv := stdev / math.Abs(mean)
	switch {
	case cv < 0.2:
		return models.ConfidenceHigh
	case cv < 0.5:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
