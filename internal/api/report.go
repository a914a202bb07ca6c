package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/logging"
	"github.com/atlasrisk/engine/internal/models"
	"github.com/atlasrisk/engine/internal/reports"
	"github.com/atlasrisk/engine/internal/scenario"
	"github.com/atlasrisk/engine/internal/storage"
)

// reportRequest mirrors assessRequest: a PDF report is rendered from the
// same Scenario Runner output a /assess call would produce, just packaged
// as a document instead of JSON.
type reportRequest struct {
	AssetName string          `json:"assetName"`
	Asset     models.Asset    `json:"asset"`
	Scenario  models.Scenario `json:"scenario"`
	Seed      int64           `json:"seed,omitempty"`
}

type reportResponse struct {
	AssetID     string `json:"assetId"`
	StoragePath string `json:"storagePath"`
	SizeBytes   int    `json:"sizeBytes"`
}

// handleGenerateReport runs the full Scenario Runner pipeline for one
// asset, renders the result to PDF via internal/reports, and persists it
// encrypted at rest via internal/storage, returning the storage path
// rather than the PDF bytes themselves so large reports don't bloat the
// JSON response.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorKind(w, s.Log, atlaserr.Wrap(atlaserr.InvalidInput, "MALFORMED_JSON", err))
		return
	}
	if req.Asset.ID == "" {
		respondErrorKind(w, s.Log, atlaserr.Invalid("MISSING_ASSET_ID", "asset.id is required"))
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = 1
	}

	hazardSample := s.Hazard.Sample(r.Context(), req.Asset.Geometry.Lat, req.Asset.Geometry.Lon)

	report, err := scenario.Run(r.Context(), req.Asset, req.Scenario, hazardSample, seed, s.Deps)
	if err != nil {
		logging.ForRequest(s.Log, requestIDFrom(r.Context())).Warn("report assessment failed", zap.String("asset_id", req.Asset.ID), zap.Error(err))
		respondErrorKind(w, s.Log, err)
		return
	}

	assetName := req.AssetName
	if assetName == "" {
		assetName = req.Asset.ID
	}

	pdf, err := reports.GenerateAssetReport(reports.ReportData{
		AssetName: assetName,
		Asset:     req.Asset,
		Report:    report,
	})
	if err != nil {
		respondErrorKind(w, s.Log, atlaserr.Wrap(atlaserr.Internal, "REPORT_RENDER_FAILED", err))
		return
	}

	path, err := storage.SaveReportPDF(req.Asset.ID, pdf)
	if err != nil {
		respondErrorKind(w, s.Log, atlaserr.Wrap(atlaserr.Internal, "REPORT_SAVE_FAILED", err))
		return
	}

	respondSuccess(w, reportResponse{AssetID: req.Asset.ID, StoragePath: path, SizeBytes: len(pdf)})
}
