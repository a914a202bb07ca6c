package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/config"
	"github.com/atlasrisk/engine/internal/models"
	"github.com/atlasrisk/engine/internal/reports"
	"github.com/atlasrisk/engine/internal/scenario"
	"github.com/atlasrisk/engine/internal/storage"
)

// newReportCmd mirrors newAssessCmd's flag set but renders the Scenario
// Runner's output to PDF via internal/reports and persists it through
// internal/storage, the same pipeline the HTTP report endpoint wraps,
// printing the storage path instead of the JSON report body.
func newReportCmd() *cobra.Command {
	var (
		lat, lon         float64
		year             int
		cropType         string
		projectType      string
		assetName        string
		assetValue       float64
		tempDelta        float64
		rainPctChange    float64
		slrProjectionM   float64
		rainIntensityPct float64
		globalWarmingC   float64
		seed             int64
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the Scenario Runner for one asset and save its risk report as a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectType == "" {
				err := atlaserr.Invalid("MISSING_PROJECT_TYPE", "--project-type is required")
				printError(err)
				return err
			}

			assetID := "cli-asset"
			asset := models.Asset{
				ID:          assetID,
				Geometry:    models.Geometry{Lat: lat, Lon: lon},
				ProjectKind: models.ProjectKind(projectType),
				Crop:        cropType,
				Exposure:    models.Exposure{AssetValueUSD: assetValue},
			}
			sc := models.Scenario{
				Year:             year,
				TempDeltaC:       tempDelta,
				RainPctChange:    rainPctChange,
				SLRProjectionM:   slrProjectionM,
				RainIntensityPct: rainIntensityPct,
				GlobalWarmingC:   globalWarmingC,
			}

			hazardProvider, deps := buildDeps()
			ctx := context.Background()
			sample := hazardProvider.Sample(ctx, lat, lon)

			report, err := scenario.Run(ctx, asset, sc, sample, seed, deps)
			if err != nil {
				printError(err)
				return err
			}

			name := assetName
			if name == "" {
				name = assetID
			}

			pdf, err := reports.GenerateAssetReport(reports.ReportData{
				AssetName: name,
				Asset:     asset,
				Report:    report,
			})
			if err != nil {
				printError(atlaserr.Wrap(atlaserr.Internal, "REPORT_RENDER_FAILED", err))
				return err
			}

			cfg := config.Load()
			if err := storage.InitStorage(cfg.StoragePath, cfg.StorageEncryptionKey); err != nil {
				printError(atlaserr.Wrap(atlaserr.Internal, "STORAGE_INIT_FAILED", err))
				return err
			}

			path, err := storage.SaveReportPDF(assetID, pdf)
			if err != nil {
				printError(atlaserr.Wrap(atlaserr.Internal, "REPORT_SAVE_FAILED", err))
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "report saved: %s\n", path)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "asset latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "asset longitude")
	cmd.Flags().IntVar(&year, "year", 2050, "scenario year")
	cmd.Flags().StringVar(&cropType, "crop-type", "maize", "crop type (agriculture assets only)")
	cmd.Flags().StringVar(&projectType, "project-type", "", "agriculture|coastal|flood|health")
	cmd.Flags().StringVar(&assetName, "asset-name", "", "display name for the report header")
	cmd.Flags().Float64Var(&assetValue, "asset-value", 100000, "asset value in USD")
	cmd.Flags().Float64Var(&tempDelta, "temp-delta", 2.0, "temperature delta in Celsius")
	cmd.Flags().Float64Var(&rainPctChange, "rain-pct-change", 0, "fractional rainfall change")
	cmd.Flags().Float64Var(&slrProjectionM, "slr-projection-m", 1.0, "sea-level-rise projection in metres")
	cmd.Flags().Float64Var(&rainIntensityPct, "rain-intensity-pct", 0.25, "fractional rain-intensity increase")
	cmd.Flags().Float64Var(&globalWarmingC, "global-warming-c", 2.0, "global mean warming in Celsius")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Monte Carlo seed")

	return cmd
}
