package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/atlasrisk/engine/internal/api"
	"github.com/atlasrisk/engine/internal/config"
	"github.com/atlasrisk/engine/internal/hazard"
	"github.com/atlasrisk/engine/internal/logging"
	"github.com/atlasrisk/engine/internal/physics"
	"github.com/atlasrisk/engine/internal/regressor"
	"github.com/atlasrisk/engine/internal/scenario"
	"github.com/atlasrisk/engine/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Dev)

	if err := storage.InitStorage(cfg.StoragePath, cfg.StorageEncryptionKey); err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}
	log.Info("storage initialized", zap.String("path", cfg.StoragePath))

	// The hazard provider always runs in fallback-only mode, whatever
	// ATLAS_USE_MOCK_DATA says (the setting is loaded but not consulted): no
	// upstream Earth-observation collaborator is wired in this build, so a
	// nil Upstream always takes the deterministic parametric path (spec §1:
	// satellite enrichment is a thin external collaborator, not part of the
	// core).
	var upstream hazard.Upstream
	hazardProvider := hazard.New(upstream)

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

	server := &api.Server{
		Deps:              deps,
		Hazard:            hazardProvider,
		Registry:          registry,
		Log:               log,
		MCTrials:          1000,
		AdminEmail:        cfg.AdminEmail,
		AdminPasswordHash: cfg.AdminPasswordHash,
	}

	router := api.NewRouter(server)

	log.Info("starting server", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
