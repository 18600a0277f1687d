package bootstrap

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orc-hfg/uploader/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("NODE_ENV", "test")
	t.Setenv("CI", "true")
	t.Setenv("SERVICES", "http,metrics")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Mock.AuthenticationEnabled)
	assert.Equal(t, []string{"http", "metrics"}, GetEnabledServices(&cfg))
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("SERVICES", "scheduler")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestGetEnabledServices_InvalidConfig(t *testing.T) {
	assert.Empty(t, GetEnabledServices(nil))
	assert.Empty(t, GetEnabledServices(&config.AppConfig{Services: ",,"}))
}
