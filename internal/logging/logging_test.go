package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_ProductionAndDevBothReturnUsableLoggers(t *testing.T) {
	assert.NotNil(t, New(false))
	assert.NotNil(t, New(true))
}

func TestForRequest_AnnotatesChildLogger(t *testing.T) {
	base := New(false)
	child := ForRequest(base, "req-123")
	assert.NotNil(t, child)
	assert.NotSame(t, base, child)
}

func TestForAsset_AnnotatesChildLogger(t *testing.T) {
	base := New(false)
	child := ForAsset(base, "asset-9")
	assert.NotNil(t, child)
	assert.NotSame(t, base, child)
}
