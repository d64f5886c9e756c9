package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"calendrette/internal/infra/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTo_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	InitTo(&config.AppConfig{LogLevel: "warn", Environment: "production"}, &buf)
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())

	WithComponent("storage").Info("hidden")
	WithComponent("storage").Warn("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "storage", entry["component"])
}

func TestInitTo_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitTo(&config.AppConfig{LogLevel: "chatty", Environment: "development"}, &buf)
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level")
}
