package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("json format emits json records", func(t *testing.T) {
		out := &bytes.Buffer{}
		logger := newLogger(&Config{LogFormat: "json", LogLevel: "info"}, out)
		logger.Info("hello", "key", "value")

		var record map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "value", record["key"])
	})

	t.Run("text format is the default", func(t *testing.T) {
		out := &bytes.Buffer{}
		logger := newLogger(&Config{LogFormat: "text", LogLevel: "info"}, out)
		logger.Info("hello")
		assert.Contains(t, out.String(), "msg=hello")
	})

	t.Run("level threshold filters lower records", func(t *testing.T) {
		out := &bytes.Buffer{}
		logger := newLogger(&Config{LogFormat: "text", LogLevel: "error"}, out)
		logger.Warn("dropped")
		assert.Empty(t, out.String())
		logger.Error("kept")
		assert.Contains(t, out.String(), "kept")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		out := &bytes.Buffer{}
		logger := newLogger(&Config{LogFormat: "text", LogLevel: ""}, out)
		logger.Debug("dropped")
		assert.Empty(t, out.String())
		logger.Info("kept")
		assert.Contains(t, out.String(), "kept")
	})
}
