package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	log.Info().Str("invoice", "FAC-000001").Msg("factura creada")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "FAC-000001", line["invoice"])
	assert.Equal(t, "factura creada", line["message"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("no se escribe")
	assert.Zero(t, buf.Len(), "info por debajo de warn")

	log.Warn().Msg("sí se escribe")
	assert.NotZero(t, buf.Len())
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Error().Msg("descartado") })
}
