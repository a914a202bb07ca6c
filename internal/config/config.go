// Package config loads the service's environment configuration exactly
// once into an immutable Settings record. No core package reads os.Getenv
// directly (spec: "core receives configuration as an immutable settings
// record constructed once at process start"); the one exception outside the
// core is internal/authstub, which reads its token secret from
// ATLAS_TOKEN_SECRET at init.
package config

import (
	"os"
	"strconv"
)

// Settings is the full set of environment-derived configuration the core
// and its cmd/ entry points depend on.
type Settings struct {
	Port string
	Dev  bool

	UseMockData               bool
	DefaultScenarioYear        int
	DefaultSLRProjectionM      float64
	DefaultRainIntensityPctInc float64

	FinancialCapexUSD     float64
	FinancialOpexUSD      float64
	FinancialDiscountRate float64
	FinancialYears        int

	StoragePath         string
	StorageEncryptionKey string
	SurrogateModelDir   string

	// JWTSecretKey is loaded from JWT_SECRET_KEY but not passed anywhere:
	// the auth stub signs tokens with its own ATLAS_TOKEN_SECRET, and the
	// risk-engine core never inspects it.
	JWTSecretKey string

	// AdminEmail/AdminPasswordHash identify the single operator credential
	// the auth stub's token endpoint accepts. No user database exists.
	AdminEmail        string
	AdminPasswordHash string
}

// Load builds a Settings record from the process environment. Call once at
// startup; pass the result down explicitly rather than re-reading the
// environment elsewhere.
func Load() Settings {
	return Settings{
		Port: getEnv("PORT", "8080"),
		Dev:  getEnvBool("ATLAS_LOG_DEV", false),

		UseMockData:                getEnvBool("ATLAS_USE_MOCK_DATA", true),
		DefaultScenarioYear:        getEnvInt("ATLAS_SCENARIO_YEAR", 2050),
		DefaultSLRProjectionM:      getEnvFloat("ATLAS_SLR_PROJECTION_M", 1.0),
		DefaultRainIntensityPctInc: getEnvFloat("ATLAS_RAIN_INTENSITY_INCREASE_PCT", 0.25),

		FinancialCapexUSD:     getEnvFloat("FINANCIAL_CAPEX", 2000),
		FinancialOpexUSD:      getEnvFloat("FINANCIAL_OPEX", 425),
		FinancialDiscountRate: getEnvFloat("FINANCIAL_DISCOUNT_RATE", 0.10),
		FinancialYears:        getEnvInt("FINANCIAL_YEARS", 10),

		StoragePath:          getEnv("STORAGE_PATH", "./data/reports"),
		StorageEncryptionKey: getEnv("STORAGE_ENCRYPTION_KEY", "default-encryption-key-change-in-production"),
		SurrogateModelDir:    getEnv("ATLAS_MODEL_DIR", "./data/models"),

		JWTSecretKey: os.Getenv("JWT_SECRET_KEY"),

		AdminEmail:        getEnv("ATLAS_ADMIN_EMAIL", "admin@atlasrisk.local"),
		AdminPasswordHash: os.Getenv("ATLAS_ADMIN_PASSWORD_HASH"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "1" || v == "true" || v == "True"
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
