package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", "json")

	log.Info("hidden")
	log.WithField("request_id", "abc").Warn("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "abc", entry["request_id"])
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := NewWithWriter(&bytes.Buffer{}, "loud", "text")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
