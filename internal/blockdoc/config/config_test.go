package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadConfigDefaults(t *testing.T) {
	cfg := ReadConfig()
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 400, cfg.HistoryDebounceMS)
	assert.Equal(t, 200*1024, cfg.ExportWarnSize)
	assert.False(t, cfg.ExportMinify)
}

func TestReadConfigFromEnv(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "100")
	t.Setenv("HISTORY_DEBOUNCE_MS", "250")
	t.Setenv("EXPORT_MINIFY", "true")

	cfg := ReadConfig()
	assert.Equal(t, 100, cfg.HistoryLimit)
	assert.Equal(t, 250, cfg.HistoryDebounceMS)
	assert.True(t, cfg.ExportMinify)
}

func TestReadConfigClampsOutOfRange(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "100000")
	t.Setenv("HISTORY_DEBOUNCE_MS", "-5")

	cfg := ReadConfig()
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 400, cfg.HistoryDebounceMS)
}

func TestReadConfigIgnoresInvalidValues(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "not-a-number")

	cfg := ReadConfig()
	assert.Equal(t, 50, cfg.HistoryLimit)
}
