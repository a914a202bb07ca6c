package montecarlo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasrisk/engine/internal/models"
)

func TestRunCVaR_ZeroTrialsReturnsEmptyResult(t *testing.T) {
	result := RunCVaR(context.Background(), 1_000_000, 0.1, 0.05, 0, 1)
	assert.Equal(t, 0, result.Trials)
	assert.False(t, result.Incomplete)
	assert.Zero(t, result.MeanLossUSD)
}

func TestRunCVaR_DeterministicForSameSeed(t *testing.T) {
	a := RunCVaR(context.Background(), 1_000_000, 0.1, 0.05, 2000, 42)
	b := RunCVaR(context.Background(), 1_000_000, 0.1, 0.05, 2000, 42)
	assert.Equal(t, a, b)
}

func TestRunCVaR_DifferentSeedsDiffer(t *testing.T) {
	a := RunCVaR(context.Background(), 1_000_000, 0.1, 0.05, 2000, 1)
	b := RunCVaR(context.Background(), 1_000_000, 0.1, 0.05, 2000, 2)
	assert.NotEqual(t, a.MeanLossUSD, b.MeanLossUSD)
}

func TestRunCVaR_LossesAreFlooredAtZero(t *testing.T) {
	// Large negative mean with small volatility should floor every sample at
	// zero damage, so mean loss and every percentile collapse to zero.
	result := RunCVaR(context.Background(), 1_000_000, -1.0, 0.01, 2000, 7)
	assert.Zero(t, result.MeanLossUSD)
	assert.Zero(t, result.P95USD)
	assert.Zero(t, result.P99USD)
}

func TestRunCVaR_P99AtLeastP95AtLeastMean(t *testing.T) {
	result := RunCVaR(context.Background(), 1_000_000, 0.2, 0.1, 5000, 99)
	assert.GreaterOrEqual(t, result.P95USD, result.MeanLossUSD)
	assert.GreaterOrEqual(t, result.P99USD, result.P95USD)
}

func TestRunCVaR_HistogramHasExpectedBinsAndCoversAllTrials(t *testing.T) {
	result := RunCVaR(context.Background(), 1_000_000, 0.2, 0.1, 3000, 5)
	assert.Len(t, result.Histogram.BinEdges, HistogramBins+1)
	assert.Len(t, result.Histogram.Counts, HistogramBins)

	total := 0
	for _, c := range result.Histogram.Counts {
		total += c
	}
	assert.Equal(t, 3000, total)
}

func TestRunCVaR_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := RunCVaR(ctx, 1_000_000, 0.1, 0.05, 10_000, 1)
	assert.True(t, result.Incomplete)
	assert.Less(t, result.Trials, 10_000)
}

func TestPercentile_MatchesExactElementWhenIndexIsInteger(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}
	assert.InDelta(t, 30.0, percentile(sorted, 50), 1e-9)
}

func TestPercentile_InterpolatesBetweenElements(t *testing.T) {
	sorted := []float64{0, 10}
	assert.InDelta(t, 2.5, percentile(sorted, 25), 1e-9)
}

func TestRunNPVUncertainty_AggregatesPipelineOutputs(t *testing.T) {
	dist := DriverDistributions{
		TempDeltaMean: 2, TempDeltaStdev: 0.5,
		RainPctChangeMean: -10, RainPctChangeStdev: 2,
		SLRMean: 0.3, SLRStdev: 0.05,
		RainIntensityMean: 15, RainIntensityStdev: 3,
	}
	pipeline := func(p DriverPerturbation) float64 {
		return 1000 - p.TempDeltaC*100
	}
	result := RunNPVUncertainty(context.Background(), dist, 1000, 11, pipeline)
	assert.Equal(t, 1000, result.Trials)
	assert.False(t, result.Incomplete)
	assert.InDelta(t, 800, result.MeanNPV, 100)
}

func TestRunNPVUncertainty_DefaultProbabilityCountsNegativeNPVs(t *testing.T) {
	dist := DriverDistributions{TempDeltaMean: 0, TempDeltaStdev: 1}
	pipeline := func(p DriverPerturbation) float64 {
		if p.TempDeltaC > 0 {
			return -1
		}
		return 1
	}
	result := RunNPVUncertainty(context.Background(), dist, 2000, 3, pipeline)
	assert.Greater(t, result.DefaultProbability, 0.0)
	assert.Less(t, result.DefaultProbability, 1.0)
}

func TestRunNPVUncertainty_ZeroTrialsIsLowConfidence(t *testing.T) {
	result := RunNPVUncertainty(context.Background(), DriverDistributions{}, 0, 1, func(DriverPerturbation) float64 { return 0 })
	assert.Equal(t, models.ConfidenceLow, result.Confidence)
	assert.Equal(t, 0, result.Trials)
}

func TestRunNPVUncertainty_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := RunNPVUncertainty(ctx, DriverDistributions{}, 10_000, 1, func(DriverPerturbation) float64 { return 1 })
	assert.True(t, result.Incomplete)
	assert.Less(t, result.Trials, 10_000)
}

func TestConfidenceTier_Bands(t *testing.T) {
	assert.Equal(t, models.ConfidenceLow, ConfidenceTier(0, 0))
	assert.Equal(t, models.ConfidenceLow, ConfidenceTier(-100, 10))
	assert.Equal(t, models.ConfidenceHigh, ConfidenceTier(100, 0))
	assert.Equal(t, models.ConfidenceHigh, ConfidenceTier(100, 10))
	assert.Equal(t, models.ConfidenceMedium, ConfidenceTier(100, 30))
	assert.Equal(t, models.ConfidenceLow, ConfidenceTier(100, 60))
}

func TestPercentile_EmptySliceIsZero(t *testing.T) {
	require.Equal(t, 0.0, percentile(nil, 50))
}
