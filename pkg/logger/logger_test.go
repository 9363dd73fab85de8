package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name          string
		logLevel      string
		isDevelopment bool
		logFormat     string
		expectedLevel logrus.Level
		expectJSON    bool
	}{
		{name: "production defaults to info json", expectedLevel: logrus.InfoLevel, expectJSON: true},
		{name: "development defaults to debug text", isDevelopment: true, expectedLevel: logrus.DebugLevel},
		{name: "development forced to json", isDevelopment: true, logFormat: "json", logLevel: "warn", expectedLevel: logrus.WarnLevel, expectJSON: true},
		{name: "case insensitive level", logLevel: "ERROR", expectedLevel: logrus.ErrorLevel, expectJSON: true},
		{name: "invalid level falls back to info", logLevel: "loud", expectedLevel: logrus.InfoLevel, expectJSON: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", "")
			t.Setenv("LOG_FORMAT", tt.logFormat)
			Logger = nil

			log := InitLogger(tt.logLevel, tt.isDevelopment)
			assert.Equal(t, tt.expectedLevel, log.GetLevel())
			assert.Same(t, log, GetLogger())

			_, isJSON := log.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.expectJSON, isJSON)
		})
	}
}

func TestWithService(t *testing.T) {
	Logger = nil
	log := InitLogger("info", false)
	var buf bytes.Buffer
	log.SetOutput(&buf)

	WithService("sports-query-engine").Info("Starting")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "sports-query-engine", line["service"])
	assert.Equal(t, "Starting", line["msg"])
}
