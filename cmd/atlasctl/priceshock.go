package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/atlasrisk/engine/internal/priceshock"
)

func newPriceShockCmd() *cobra.Command {
	var (
		cropType       string
		baselineYield  float64
		stressedYield  float64
	)

	cmd := &cobra.Command{
		Use:   "price-shock",
		Short: "Compute a crop price-shock result and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := priceshock.Calculate(cropType, baselineYield, stressedYield)
			if err != nil {
				printError(err)
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&cropType, "crop-type", "maize", "crop type")
	cmd.Flags().Float64Var(&baselineYield, "baseline-yield-tons", 100, "baseline yield in tons")
	cmd.Flags().Float64Var(&stressedYield, "stressed-yield-tons", 80, "stressed yield in tons")

	return cmd
}
