package api

import (
	"encoding/json"
	"net/http"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/models"
	"github.com/atlasrisk/engine/internal/portfolio"
)

// interventionTierRequest carries just enough of an already-assessed
// asset's physics/Monte Carlo output to score the tiered intervention
// tournament, so a caller that already has a /assess report can feed its
// relevant fields straight through without re-running the full pipeline.
type interventionTierRequest struct {
	ProjectKind    models.ProjectKind      `json:"projectKind"`
	Physics        models.PhysicsResult    `json:"physics"`
	MonteCarlo     models.MonteCarloResult `json:"monteCarlo"`
	ElevationM     float64                 `json:"elevationM"`
	BaselineNPVUSD float64                 `json:"baselineNpvUsd,omitempty"`
}

// handleInterventionTiers is the tiered adaptation-strategy endpoint
// (SPEC_FULL supplemented feature 6): scores the candidate intervention
// tiers for an agriculture or coastal asset and recommends the
// highest-ROI one.
func handleInterventionTiers(w http.ResponseWriter, r *http.Request) {
	var req interventionTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorKind(w, nil, atlaserr.Wrap(atlaserr.InvalidInput, "MALFORMED_JSON", err))
		return
	}

	baselineNPV := req.BaselineNPVUSD
	if baselineNPV == 0 {
		baselineNPV = req.MonteCarlo.MeanNPV
	}

	var stressOrRisk float64
	switch req.ProjectKind {
	case models.ProjectAgriculture:
		stressOrRisk = portfolio.AgricultureStress(req.Physics)
	case models.ProjectCoastal:
		stressOrRisk = portfolio.CoastalRisk(req.MonteCarlo, req.ElevationM, req.Physics.RunupM)
	default:
		respondErrorKind(w, nil, atlaserr.Invalid("UNSUPPORTED_PROJECT_KIND", "intervention tiers are only defined for agriculture and coastal assets"))
		return
	}

	recommendation, err := portfolio.RecommendInterventionTier(
		req.ProjectKind, stressOrRisk, baselineNPV, req.MonteCarlo.VaR95, req.MonteCarlo.DefaultProbability*100,
	)
	if err != nil {
		respondErrorKind(w, nil, err)
		return
	}

	respondSuccess(w, recommendation)
}
