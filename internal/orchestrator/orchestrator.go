package orchestrator

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/logging"
	"github.com/atlasrisk/engine/internal/models"
	"github.com/atlasrisk/engine/internal/portfolio"
	"github.com/atlasrisk/engine/internal/scenario"
)

// defaultTimeout is the per-asset Scenario Runner deadline (spec §5).
const defaultTimeout = 30 * time.Second

// maxWorkers caps the worker pool at 8 even on larger machines.
const maxWorkers = 8

// RunnerFunc invokes the Scenario Runner for a single asset; production
// code passes scenario.Run, tests pass a stub.
type RunnerFunc func(ctx context.Context, asset models.Asset, sc models.Scenario, hazard models.HazardSample, seed int64, deps scenario.Deps) (models.Report, error)

// HazardFetcher resolves a HazardSample for an asset's coordinates.
type HazardFetcher func(ctx context.Context, lat, lon float64) models.HazardSample

// RunBatch fans out Scenario Runner across assets with a bounded worker
// pool (W = min(cores, N_assets), capped at 8), collecting results back in
// request order. One asset's failure never aborts the batch.
func RunBatch(ctx context.Context, assets []models.Asset, sc models.Scenario, deps scenario.Deps, fetchHazard HazardFetcher, run RunnerFunc, log *zap.Logger) models.BatchResponse {
	n := len(assets)
	results := make([]models.AssetRunResult, n)

	workers := runtime.NumCPU()
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	sem := semaphore.NewWeighted(int64(workers))
	done := make(chan struct{}, n)

	for i, asset := range assets {
		i, asset := i, asset
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = failedResult(i, asset, atlaserr.Wrap(atlaserr.Timeout, "BATCH_CANCELLED", err))
			done <- struct{}{}
			continue
		}
		go func() {
			defer sem.Release(1)
			defer func() { done <- struct{}{} }()
			results[i] = runOne(ctx, i, asset, sc, deps, fetchHazard, run, log)
		}()
	}

	for completed := 0; completed < n; completed++ {
		<-done
	}

	return models.BatchResponse{
		PortfolioSummary: portfolio.BuildPortfolioReport(results),
		AssetResults:     results,
	}
}

func runOne(ctx context.Context, index int, asset models.Asset, sc models.Scenario, deps scenario.Deps, fetchHazard HazardFetcher, run RunnerFunc, log *zap.Logger) models.AssetRunResult {
	assetLog := logging.ForAsset(log, asset.ID)

	taskCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	hazard := fetchHazard(taskCtx, asset.Geometry.Lat, asset.Geometry.Lon)

	seed := int64(index) + 1
	report, err := run(taskCtx, asset, sc, hazard, seed, deps)
	if err != nil {
		if taskCtx.Err() != nil {
			assetLog.Warn("asset run timed out")
			return failedResult(index, asset, atlaserr.New(atlaserr.Timeout, "ASSET_TIMEOUT", "scenario runner deadline exceeded"))
		}
		assetLog.Warn("asset run failed", zap.Error(err))
		return failedResult(index, asset, err)
	}

	return models.AssetRunResult{
		Index:  index,
		Asset:  asset,
		Status: models.StatusSuccess,
		Report: &report,
	}
}

func failedResult(index int, asset models.Asset, err error) models.AssetRunResult {
	code := "INTERNAL"
	reason := err.Error()
	if ae, ok := err.(*atlaserr.Error); ok {
		code = string(ae.Kind)
		reason = ae.Message
	}
	return models.AssetRunResult{
		Index:   index,
		Asset:   asset,
		Status:  models.StatusError,
		Reason:  reason,
		ErrCode: code,
	}
}
