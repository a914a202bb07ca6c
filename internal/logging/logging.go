// Package logging wraps zap with the logger construction and
// request/asset-scoped child-logger helpers used across the service.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process-wide logger. Production builds use JSON encoding;
// set ATLAS_LOG_DEV for human-readable console output during development.
func New(dev bool) *zap.Logger {
	var cfg zap.Config
	if dev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		// Logger construction failing is itself unloggable; fall back to a
		// no-op logger rather than aborting process start.
		return zap.NewNop()
	}
	return logger
}

// ForRequest returns a child logger annotated with a request id.
func ForRequest(l *zap.Logger, requestID string) *zap.Logger {
	return l.With(zap.String("request_id", requestID))
}

// ForAsset returns a child logger annotated with an asset id, used inside
// the batch orchestrator so each worker's logs are attributable.
func ForAsset(l *zap.Logger, assetID string) *zap.Logger {
	return l.With(zap.String("asset_id", assetID))
}
