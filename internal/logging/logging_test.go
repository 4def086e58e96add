package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/cinema-booking-system/internal/config"
)

func TestConfigure_FileOutputJSON(t *testing.T) {
	dir := t.TempDir()
	logger := logrus.New()

	closer, err := Configure(logger, config.LogConfig{
		Level:  "debug",
		Format: "json",
		Output: config.LogOutputFile,
		File:   "logs/boxoffice.log",
	}, dir)
	require.NoError(t, err)

	logger.WithField("ticket_id", 1000).Debug("Ticket issued")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(filepath.Join(dir, "logs", "boxoffice.log"))
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, "Ticket issued", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, float64(1000), entry["ticket_id"])
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestConfigure_Stderr(t *testing.T) {
	logger := logrus.New()

	closer, err := Configure(logger, config.LogConfig{Level: "warn", Format: "text", Output: config.LogOutputStderr}, t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.Equal(t, os.Stderr, logger.Out)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}

func TestConfigure_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
	}{
		{"bad level", config.LogConfig{Level: "loud", Output: config.LogOutputStderr}},
		{"bad format", config.LogConfig{Level: "info", Format: "xml", Output: config.LogOutputStderr}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Configure(logrus.New(), tt.cfg, t.TempDir())
			assert.Error(t, err)
		})
	}
}
