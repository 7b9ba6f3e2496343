package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "production")

	log.WithFields(map[string]interface{}{"product_id": "42"}).Error("Failed to get product", errors.New("boom"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "Failed to get product", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "42", entry["product_id"])
}

func TestLogger_DebugSuppressedOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "production")

	log.Debug("cache miss")

	assert.Empty(t, buf.String())
}

func TestLogger_Nop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().With("key", "value").Warnf("ignored %d", 1)
	})
}
