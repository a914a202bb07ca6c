package api

import (
	"net/http"
	"strconv"

	"github.com/atlasrisk/engine/internal/atlaserr"
)

func parseLatLon(r *http.Request) (lat, lon float64, err error) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		return 0, 0, atlaserr.Invalid("MISSING_COORDINATES", "lat and lon query parameters are required")
	}
	return lat, lon, nil
}

// handleHazardLookup is the {lat, lon} -> {weather, terrain} endpoint, per
// spec §6, returning the full sample (weather/terrain/coastal/climatology)
// plus its provenance tag.
func (s *Server) handleHazardLookup(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := parseLatLon(r)
	if err != nil {
		respondErrorKind(w, s.Log, err)
		return
	}
	sample := s.Hazard.Sample(r.Context(), lat, lon)
	respondSuccess(w, sample)
}

type ndviPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// handleNDVI is the {lat, lon} -> 12-month NDVI series endpoint, per spec
// §6, reshaping the hazard sample's bare [12]float64 into {month, value}
// pairs labelled January-first.
func (s *Server) handleNDVI(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := parseLatLon(r)
	if err != nil {
		respondErrorKind(w, s.Log, err)
		return
	}
	sample := s.Hazard.Sample(r.Context(), lat, lon)

	months := [12]string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12"}
	series := make([]ndviPoint, 12)
	for i := 0; i < 12; i++ {
		series[i] = ndviPoint{Month: "YYYY-" + months[i], Value: sample.NDVI[i]}
	}
	respondSuccess(w, series)
}
