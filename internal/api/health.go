package api

import (
	"encoding/json"
	"net/http"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/health"
)

type publicHealthRequest struct {
	Population        int                 `json:"population"`
	GDPPerCapitaUSD    float64             `json:"gdpPerCapitaUsd"`
	WBGT               float64             `json:"wbgt"`
	MalariaRiskScore   float64             `json:"malariaRiskScore"`
	Intervention       health.Intervention `json:"intervention"`
}

// handlePublicHealthImpact is the DALY-monetization endpoint (spec §4.2,
// §13 supplement): distinct from the physics health kernel's stress
// category, this engine translates heat and malaria exposure into
// WHO-CHOICE-monetized disability-adjusted life years.
func handlePublicHealthImpact(w http.ResponseWriter, r *http.Request) {
	var req publicHealthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorKind(w, nil, atlaserr.Wrap(atlaserr.InvalidInput, "MALFORMED_JSON", err))
		return
	}
	if req.Population <= 0 {
		respondErrorKind(w, nil, atlaserr.Invalid("INVALID_POPULATION", "population must be positive"))
		return
	}

	result := health.Evaluate(req.Population, req.GDPPerCapitaUSD, req.WBGT, req.MalariaRiskScore, req.Intervention)
	respondSuccess(w, result)
}
