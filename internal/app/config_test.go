package app_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/haspcfg/internal/app"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := app.NewConfig(app.Config{ConfigDir: filepath.Join("work", "config")})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("work", "output"), cfg.OutputDir)
	assert.Equal(t, app.DefaultWorkerCount, cfg.WorkerCount)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNewConfig_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     app.Config
		wantErr string
	}{
		{"missing config dir", app.Config{}, "ConfigDir is a required"},
		{"bad log format", app.Config{ConfigDir: "c", LogFormat: "xml"}, "invalid log format"},
		{"bad log level", app.Config{ConfigDir: "c", LogLevel: "trace"}, "invalid log level"},
		{"negative workers", app.Config{ConfigDir: "c", WorkerCount: -1}, "invalid worker count"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := app.NewConfig(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNewConfig_NormalizesCase(t *testing.T) {
	cfg, err := app.NewConfig(app.Config{ConfigDir: "c", OutputDir: "out", LogFormat: "JSON", LogLevel: "DEBUG", WorkerCount: 2})
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.WorkerCount)
}
