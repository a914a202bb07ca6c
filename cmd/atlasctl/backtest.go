package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/models"
	"github.com/atlasrisk/engine/internal/rating"
	"github.com/atlasrisk/engine/internal/scenario"
)

// backtestYears are the fixed sweep points historical_runner.py's ported
// behavior rates an asset's rating trajectory against (spec §13 supplement).
var backtestYears = [3]int{2030, 2040, 2050}

type backtestOutput struct {
	Trajectory    models.TemporalTrajectory `json:"trajectory"`
	Outlook       models.Outlook            `json:"outlook"`
	DowngradeYear *int                      `json:"downgradeYear,omitempty"`
}

func newBacktestCmd() *cobra.Command {
	var (
		lat, lon         float64
		cropType         string
		projectType      string
		assetValue       float64
		tempDelta        float64
		rainPctChange    float64
		rainIntensityPct float64
		seed             int64
	)

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay one asset across the 2030/2040/2050 sweep and print its rating trajectory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectType == "" {
				err := atlaserr.Invalid("MISSING_PROJECT_TYPE", "--project-type is required")
				printError(err)
				return err
			}

			asset := models.Asset{
				ID:          "cli-backtest-asset",
				Geometry:    models.Geometry{Lat: lat, Lon: lon},
				ProjectKind: models.ProjectKind(projectType),
				Crop:        cropType,
				Exposure:    models.Exposure{AssetValueUSD: assetValue},
			}

			hazardProvider, deps := buildDeps()
			ctx := context.Background()
			sample := hazardProvider.Sample(ctx, lat, lon)

			var points [3]rating.TemporalPoint
			for i, year := range backtestYears {
				sc := models.Scenario{
					Year:             year,
					TempDeltaC:       tempDelta * float64(year-2025) / 25,
					RainPctChange:    rainPctChange,
					SLRProjectionM:   float64(year-2025) / 25,
					RainIntensityPct: rainIntensityPct,
					GlobalWarmingC:   tempDelta * float64(year-2025) / 25,
				}

				report, err := scenario.Run(ctx, asset, sc, sample, seed, deps)
				if err != nil {
					printError(err)
					return err
				}
				points[i] = rating.TemporalPoint{
					Year:               year,
					NPV:                report.Financial.NPVUSD,
					DefaultProbability: report.MonteCarlo.DefaultProbability,
				}
			}

			trajectory := rating.BuildTrajectory(points)
			outlook, downgradeYear := rating.DetermineOutlook(trajectory)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(backtestOutput{
				Trajectory:    trajectory,
				Outlook:       outlook,
				DowngradeYear: downgradeYear,
			})
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "asset latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "asset longitude")
	cmd.Flags().StringVar(&cropType, "crop-type", "maize", "crop type (agriculture assets only)")
	cmd.Flags().StringVar(&projectType, "project-type", "", "agriculture|coastal|flood|health")
	cmd.Flags().Float64Var(&assetValue, "asset-value", 100000, "asset value in USD")
	cmd.Flags().Float64Var(&tempDelta, "temp-delta-2050", 2.0, "temperature delta reached by 2050, scaled linearly back to each sweep year")
	cmd.Flags().Float64Var(&rainPctChange, "rain-pct-change", 0, "fractional rainfall change")
	cmd.Flags().Float64Var(&rainIntensityPct, "rain-intensity-pct", 0.25, "fractional rain-intensity increase")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Monte Carlo seed")

	return cmd
}
