package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "warn", "json", "test")

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("kept")
	assert.Contains(t, buf.String(), `"service":"api-films"`)
	assert.Contains(t, buf.String(), `"env":"test"`)
	assert.Contains(t, buf.String(), `"message":"kept"`)
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "bogus", "json", "test")

	log.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())
	log.Info().Msg("kept")
	assert.NotZero(t, buf.Len())
}
