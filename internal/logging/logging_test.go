package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newWithOutput(&buf, "debug", "json")
	log.WithField("user_id", "u-1").Debug("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "u-1", entry["user_id"])
	assert.Equal(t, "debug", entry["level"])
}

func TestTextFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newWithOutput(&buf, "warn", "text")
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, New("chatty", "text").GetLevel())
}
