// Package api is the HTTP/JSON surface: a thin collaborator (spec §1) that
// marshals requests into the scenario/orchestrator/priceshock/cba/health/
// montecarlo packages and marshals their results back out as JSON. It
// carries no domain logic of its own.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlasrisk/engine/internal/hazard"
	"github.com/atlasrisk/engine/internal/logging"
	"github.com/atlasrisk/engine/internal/regressor"
	"github.com/atlasrisk/engine/internal/scenario"
)

// Server bundles the collaborators every handler needs: the Scenario
// Runner's dependency bundle, the hazard provider, the surrogate registry,
// and a logger. Handlers are methods on *Server rather than free functions
// so they share these without package-level globals.
type Server struct {
	Deps     scenario.Deps
	Hazard   *hazard.Provider
	Registry *regressor.Registry
	Log      *zap.Logger
	MCTrials int

	// AdminEmail/AdminPasswordHash back the single bearer-token endpoint
	// (spec §1: auth is a thin collaborator, not a user system — there is
	// exactly one operator credential, bcrypt-hashed at config time).
	AdminEmail        string
	AdminPasswordHash string
}

// NewRouter builds the full HTTP handler tree: public risk-assessment
// endpoints, the batch upload endpoint, hazard/NDVI lookups, the standalone
// price-shock/CBA/health/CVaR engines, and the PDF report endpoint,
// wrapped with CORS and a per-request id.
func NewRouter(s *Server) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", handleLiveness)

	mux.HandleFunc("POST /api/v1/assess", s.handleAssess)
	mux.HandleFunc("POST /api/v1/batch", s.handleBatch)

	mux.HandleFunc("GET /api/v1/hazard", s.handleHazardLookup)
	mux.HandleFunc("GET /api/v1/ndvi", s.handleNDVI)

	mux.HandleFunc("POST /api/v1/price-shock", handlePriceShock)
	mux.HandleFunc("GET /api/v1/price-shock/crops", handleListCrops)
	mux.HandleFunc("POST /api/v1/cba", handleCBA)
	mux.HandleFunc("POST /api/v1/public-health-impact", handlePublicHealthImpact)
	mux.HandleFunc("POST /api/v1/monte-carlo/cvar", s.handleCVaR)

	mux.HandleFunc("POST /api/v1/report", s.handleGenerateReport)
	mux.HandleFunc("POST /api/v1/intervention-tiers", handleInterventionTiers)

	mux.HandleFunc("POST /api/v1/auth/token", s.handleIssueToken)

	return requestIDMiddleware(corsMiddleware(mux))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

// requestIDMiddleware stamps every request with a UUID, set as the
// X-Request-Id response header and stored in the request context, from
// which the assess and report handlers add it to their failure log lines.
// It is not attached to atlaserr.Error values, and respondErrorKind's log
// line does not carry it.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := contextWithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func handleLiveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// envelope is the response shape every endpoint shares, per spec §7:
// {status, code?, message?, ...data}.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondSuccess(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusOK, successEnvelope{Status: "success", Data: data})
}

func respondErrorKind(w http.ResponseWriter, log *zap.Logger, err error) {
	status, code, message := classifyError(err)
	if log != nil && status >= 500 {
		log.Error("request failed", zap.Error(err))
	}
	respondJSON(w, status, errorEnvelope{Status: "error", Code: code, Message: message})
}

type successEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorEnvelope struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
