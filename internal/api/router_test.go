package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atlasrisk/engine/internal/atlaserr"
	"github.com/atlasrisk/engine/internal/authstub"
	"github.com/atlasrisk/engine/internal/hazard"
	"github.com/atlasrisk/engine/internal/regressor"
	"github.com/atlasrisk/engine/internal/scenario"
	"github.com/atlasrisk/engine/internal/storage"
)

func testServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	hash, err := authstub.HashPassword("correct-horse")
	require.NoError(t, err)

	s := &Server{
		Deps: scenario.Deps{
			DefaultCapexUSD: 100_000, DefaultOpexUSD: 5_000,
			DefaultDiscountRate: 0.08, DefaultYears: 10,
			PricePerTonUSD: 180, TonsPerYieldPoint: 1, BenefitFraction: 0.6,
			MonteCarloTrials: 50,
		},
		Hazard:            hazard.New(nil),
		Registry:          regressor.NewRegistry(t.TempDir()),
		Log:               zap.NewNop(),
		MCTrials:          50,
		AdminEmail:        "admin@atlasrisk.local",
		AdminPasswordHash: hash,
	}
	return s, NewRouter(s)
}

func decodeSuccess(t *testing.T, body *bytes.Buffer) map[string]any {
	t.Helper()
	var env successEnvelope
	require.NoError(t, json.Unmarshal(body.Bytes(), &env))
	assert.Equal(t, "success", env.Status)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	return data
}

func TestHandleLiveness_ReturnsOK(t *testing.T) {
	_, router := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestHandleAssess_ValidAgricultureAssetSucceeds(t *testing.T) {
	_, router := testServer(t)
	body := `{
		"asset": {"id": "a1", "projectKind": "agriculture", "crop": "maize", "exposure": {"assetValueUsd": 1000000}},
		"scenario": {"year": 2030, "tempDeltaC": 1}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeSuccess(t, rec.Body)
	assert.Equal(t, "a1", data["assetId"])
}

func TestHandleAssess_MissingAssetIDIsBadRequest(t *testing.T) {
	_, router := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", bytes.NewBufferString(`{"asset": {}, "scenario": {}}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAssess_MalformedJSONIsBadRequest(t *testing.T) {
	_, router := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assess", bytes.NewBufferString(`not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHazardLookup_MissingCoordinatesIsBadRequest(t *testing.T) {
	_, router := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/hazard", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHazardLookup_ValidCoordinatesSucceeds(t *testing.T) {
	_, router := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/hazard?lat=13.75&lon=100.5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleNDVI_ReturnsTwelveMonths(t *testing.T) {
	_, router := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ndvi?lat=13.75&lon=100.5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Status string `json:"status"`
		Data   []struct {
			Month string  `json:"month"`
			Value float64 `json:"value"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Len(t, env.Data, 12)
}

func TestHandlePriceShock_ValidRequestSucceeds(t *testing.T) {
	_, router := testServer(t)
	body := `{"cropType": "maize", "baselineYieldTons": 100, "stressedYieldTons": 70}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/price-shock", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleListCrops_ReturnsCatalog(t *testing.T) {
	_, router := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/price-shock/crops", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleCBA_InvalidYearsIsBadRequest(t *testing.T) {
	_, router := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cba", bytes.NewBufferString(`{"years": 0}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCBA_ValidRequestSucceeds(t *testing.T) {
	_, router := testServer(t)
	body := `{"years": 10, "discountRate": 0.08, "baselineAnnualDamageUsd": 50000, "interventionCapexUsd": 100000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cba", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePublicHealthImpact_InvalidPopulationIsBadRequest(t *testing.T) {
	_, router := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public-health-impact", bytes.NewBufferString(`{"population": 0}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePublicHealthImpact_ValidRequestSucceeds(t *testing.T) {
	_, router := testServer(t)
	body := `{"population": 10000, "gdpPerCapitaUsd": 5000, "wbgt": 30, "malariaRiskScore": 50}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public-health-impact", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleCVaR_InvalidAssetValueIsBadRequest(t *testing.T) {
	_, router := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/monte-carlo/cvar", bytes.NewBufferString(`{"assetValueUsd": 0}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCVaR_ValidRequestSucceeds(t *testing.T) {
	_, router := testServer(t)
	body := `{"assetValueUsd": 1000000, "meanDamagePct": 0.1, "volatilityPct": 0.05, "numSimulations": 200, "seed": 7}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/monte-carlo/cvar", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeSuccess(t, rec.Body)
	assert.Equal(t, float64(200), data["trials"])
}

func TestHandleIssueToken_WrongPasswordIsUnauthorizedShapeBadRequest(t *testing.T) {
	_, router := testServer(t)
	body := `{"email": "admin@atlasrisk.local", "password": "wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleIssueToken_CorrectCredentialsIssuesToken(t *testing.T) {
	_, router := testServer(t)
	body := `{"email": "admin@atlasrisk.local", "password": "correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeSuccess(t, rec.Body)
	assert.NotEmpty(t, data["token"])
}

func TestHandleGenerateReport_ValidRequestPersistsPDF(t *testing.T) {
	require.NoError(t, storage.InitStorage(t.TempDir(), "test-key"))
	_, router := testServer(t)

	body := `{
		"assetName": "Test Farm",
		"asset": {"id": "a1", "projectKind": "agriculture", "crop": "maize", "exposure": {"assetValueUsd": 1000000}},
		"scenario": {"year": 2030, "tempDeltaC": 1}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/report", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeSuccess(t, rec.Body)
	assert.Equal(t, "a1", data["assetId"])
	assert.NotEmpty(t, data["storagePath"])
	assert.Greater(t, data["sizeBytes"], float64(0))
}

func TestHandleGenerateReport_MissingAssetIDIsBadRequest(t *testing.T) {
	require.NoError(t, storage.InitStorage(t.TempDir(), "test-key"))
	_, router := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/report", bytes.NewBufferString(`{"asset": {}, "scenario": {}}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleInterventionTiers_AgricultureValidRequestSucceeds(t *testing.T) {
	_, router := testServer(t)
	body := `{
		"projectKind": "agriculture",
		"physics": {"yieldPct": 60},
		"monteCarlo": {"meanNpv": 500000}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/intervention-tiers", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeSuccess(t, rec.Body)
	assert.NotEmpty(t, data["recommendedTier"])
	options, ok := data["options"].([]any)
	require.True(t, ok)
	assert.Len(t, options, 3)
}

func TestHandleInterventionTiers_UnsupportedProjectKindIsBadRequest(t *testing.T) {
	_, router := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/intervention-tiers", bytes.NewBufferString(`{"projectKind": "health"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCorsMiddleware_HandlesPreflightOptions(t *testing.T) {
	_, router := testServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/assess", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestClassifyError_MapsKindsToHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{atlaserr.Invalid("BAD", "bad input"), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		status, _, _ := classifyError(tc.err)
		assert.Equal(t, tc.status, status)
	}
}
