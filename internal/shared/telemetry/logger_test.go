package telemetry

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetLogger(New(&buf))
	t.Cleanup(restore)

	Info("lead.created", map[string]any{"lead_id": "l-1", "source": "contact"})

	var payload map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload))
	assert.Equal(t, "info", payload["level"])
	assert.Equal(t, "lead.created", payload["msg"])
	assert.Equal(t, "l-1", payload["lead_id"])
	assert.NotEmpty(t, payload["ts"])
}

func TestErrorCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := SetLogger(zap.New(core))
	t.Cleanup(restore)

	Error("diagnostic.config.load_failed", map[string]any{"error": "boom"})

	entries := logs.FilterMessage("diagnostic.config.load_failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
}

func TestSetLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	restore := SetLogger(New(&buf))
	t.Cleanup(restore)
	t.Cleanup(func() { SetLevel("info") })

	SetLevel("warn")
	Info("hidden", nil)
	Warn("shown", nil)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
