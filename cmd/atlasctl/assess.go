package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/models"
	"github.com/atlasrisk/engine/internal/scenario"
)

// cliErrorEnvelope matches the HTTP surface's {status, code, message} shape
// so a caller scripting against both transports sees one error contract.
type cliErrorEnvelope struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func printError(err error) {
	code, message := "INTERNAL", err.Error()
	if ae, ok := err.(*atlaserr.Error); ok {
		code, message = ae.Code, ae.Message
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(cliErrorEnvelope{Status: "error", Code: code, Message: message})
}

func newAssessCmd() *cobra.Command {
	var (
		lat, lon         float64
		year             int
		cropType         string
		projectType      string
		assetValue       float64
		tempDelta        float64
		rainPctChange    float64
		slrProjectionM   float64
		rainIntensityPct float64
		globalWarmingC   float64
		seed             int64
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run the Scenario Runner for one asset and print its report as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectType == "" {
				err := atlaserr.Invalid("MISSING_PROJECT_TYPE", "--project-type is required")
				printError(err)
				return err
			}

			asset := models.Asset{
				ID:          "cli-asset",
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

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "asset latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "asset longitude")
	cmd.Flags().IntVar(&year, "year", 2050, "scenario year")
	cmd.Flags().StringVar(&cropType, "crop-type", "maize", "crop type (agriculture assets only)")
	cmd.Flags().StringVar(&projectType, "project-type", "", "agriculture|coastal|flood|health")
	cmd.Flags().Float64Var(&assetValue, "asset-value", 100000, "asset value in USD")
	cmd.Flags().Float64Var(&tempDelta, "temp-delta", 2.0, "temperature delta in Celsius")
	cmd.Flags().Float64Var(&rainPctChange, "rain-pct-change", 0, "fractional rainfall change")
	cmd.Flags().Float64Var(&slrProjectionM, "slr-projection-m", 1.0, "sea-level-rise projection in metres")
	cmd.Flags().Float64Var(&rainIntensityPct, "rain-intensity-pct", 0.25, "fractional rain-intensity increase")
	cmd.Flags().Float64Var(&globalWarmingC, "global-warming-c", 2.0, "global mean warming in Celsius")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Monte Carlo seed")

	return cmd
}
