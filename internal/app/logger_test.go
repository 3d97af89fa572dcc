package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("json format emits parseable entries", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger("debug", "json", &buf)
		logger.Debug("decoding arguments", "node", "v1")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "decoding arguments", entry["msg"])
		assert.Equal(t, "DEBUG", entry["level"])
		assert.Equal(t, "v1", entry["node"])
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger("loud", "text", &buf)

		logger.Debug("hidden")
		assert.Empty(t, buf.String())

		logger.Info("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("non-json format uses the text handler", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger("info", "text", &buf).Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})
}
