package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultsWhenNoEnvSet(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Dev)
	assert.True(t, cfg.UseMockData)
	assert.Equal(t, 2050, cfg.DefaultScenarioYear)
	assert.Equal(t, 10, cfg.FinancialYears)
	assert.Equal(t, "admin@atlasrisk.local", cfg.AdminEmail)
}

func TestLoad_ReadsOverridesFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ATLAS_LOG_DEV", "true")
	t.Setenv("FINANCIAL_YEARS", "15")
	t.Setenv("ATLAS_ADMIN_EMAIL", "ops@example.com")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Dev)
	assert.Equal(t, 15, cfg.FinancialYears)
	assert.Equal(t, "ops@example.com", cfg.AdminEmail)
}

func TestGetEnvBool_AcceptsMultipleTruthyForms(t *testing.T) {
	t.Setenv("TEST_BOOL_FLAG", "True")
	assert.True(t, getEnvBool("TEST_BOOL_FLAG", false))
}

func TestGetEnvInt_FallsBackOnInvalidValue(t *testing.T) {
	t.Setenv("TEST_INT_FLAG", "not-a-number")
	assert.Equal(t, 42, getEnvInt("TEST_INT_FLAG", 42))
}

func TestGetEnvFloat_FallsBackOnInvalidValue(t *testing.T) {
	t.Setenv("TEST_FLOAT_FLAG", "not-a-number")
	assert.InDelta(t, 1.5, getEnvFloat("TEST_FLOAT_FLAG", 1.5), 1e-9)
}

func TestGetEnv_FallsBackWhenUnset(t *testing.T) {
	assert.Equal(t, "fallback", getEnv("TEST_ENV_DEFINITELY_UNSET", "fallback"))
}
