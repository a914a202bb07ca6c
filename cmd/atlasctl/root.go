package main

import (
	"github.com/spf13/cobra"

	"github.com/atlasrisk/engine/internal/config"
	"github.com/atlasrisk/engine/internal/hazard"
	"github.com/atlasrisk/engine/internal/physics"
	"github.com/atlasrisk/engine/internal/regressor"
	"github.com/atlasrisk/engine/internal/scenario"
)

// newRootCmd builds the atlasctl command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "atlasctl",
		Short:         "Climate-risk engine CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newAssessCmd())
	root.AddCommand(newPriceShockCmd())
	root.AddCommand(newBacktestCmd())
	root.AddCommand(newReportCmd())

	return root
}

// buildDeps wires the same hazard provider, surrogate registry, and
// scenario.Deps the HTTP server uses, read from the process environment.
// As in cmd/server, the hazard provider has no upstream and always takes the
// fallback path; ATLAS_USE_MOCK_DATA is not consulted.
func buildDeps() (*hazard.Provider, scenario.Deps) {
	cfg := config.Load()
	registry := regressor.NewRegistry(cfg.SurrogateModelDir)

	deps := scenario.Deps{
		CoastalRegressor: func() physics.Regressor {
			reg, err := registry.Get("coastal_runup_v1")
			if err != nil {
				return nil
			}
			return reg
		},
		FloodRegressor: func() physics.Regressor {
			reg, err := registry.Get("urban_flood_v1")
			if err != nil {
				return nil
			}
			return reg
		},
		DefaultCapexUSD:     cfg.FinancialCapexUSD,
		DefaultOpexUSD:      cfg.FinancialOpexUSD,
		DefaultDiscountRate: cfg.FinancialDiscountRate,
		DefaultYears:        cfg.FinancialYears,
		PricePerTonUSD:      180.0,
		TonsPerYieldPoint:   1.0,
		BenefitFraction:     0.6,
		MonteCarloTrials:    1000,
	}

	var upstream hazard.Upstream
	return hazard.New(upstream), deps
}
