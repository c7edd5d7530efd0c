package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, parseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, logrus.ErrorLevel, parseLevel("error"))
	assert.Equal(t, logrus.InfoLevel, parseLevel(""))
	assert.Equal(t, logrus.InfoLevel, parseLevel("verbose"))
}

func TestNew_JSONIncludesService(t *testing.T) {
	logger := New("server", "info", "json")
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	logger.WithField("route", "/api/table").Info("request served")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "server", entry["service"])
	assert.Equal(t, "/api/table", entry["route"])
	assert.Equal(t, "request served", entry["msg"])
}
