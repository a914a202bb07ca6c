package api

import (
	"encoding/json"
	"net/http"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/cba"
)

// handleCBA is the CBA time-series endpoint spec §6 names: it decodes
// cba.Inputs directly from the request body and returns the two discounted
// cost streams plus breakeven year and total ROI.
func handleCBA(w http.ResponseWriter, r *http.Request) {
	var in cba.Inputs
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondErrorKind(w, nil, atlaserr.Wrap(atlaserr.InvalidInput, "MALFORMED_JSON", err))
		return
	}
	if in.Years <= 0 {
		respondErrorKind(w, nil, atlaserr.Invalid("INVALID_YEARS", "years must be positive"))
		return
	}

	respondSuccess(w, cba.Build(in))
}
