package api

import (
	"encoding/json"
	"net/http"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/priceshock"
)

type priceShockRequest struct {
	CropType          string  `json:"cropType"`
	BaselineYieldTons float64 `json:"baselineYieldTons"`
	StressedYieldTons float64 `json:"stressedYieldTons"`
}

// handlePriceShock is the price-shock endpoint spec §6 names: a crop plus
// baseline/stressed yield translates into a price move, revenue impact, and
// forward-contract recommendation.
func handlePriceShock(w http.ResponseWriter, r *http.Request) {
	var req priceShockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorKind(w, nil, atlaserr.Wrap(atlaserr.InvalidInput, "MALFORMED_JSON", err))
		return
	}

	result, err := priceshock.Calculate(req.CropType, req.BaselineYieldTons, req.StressedYieldTons)
	if err != nil {
		respondErrorKind(w, nil, err)
		return
	}
	respondSuccess(w, result)
}

// handleListCrops returns the full commodity catalog, used by clients to
// populate a crop-type selector.
func handleListCrops(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, priceshock.GetAllCrops())
}
