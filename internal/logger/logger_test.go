package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitProductionWritesJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	flush := Init(Options{Output: &buf})
	flush()

	slog.Debug("hidden")
	slog.Info("file saved", "file_id", "f1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "file saved", record["msg"])
	assert.Equal(t, "f1", record["file_id"])
	assert.Same(t, Log, slog.Default())
}

func TestInitDevelopmentLogsDebug(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Init(Options{Development: true, Output: &buf})

	slog.Debug("upload target issued", "storage_id", "uploads/x")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "storage_id=uploads/x")
}
