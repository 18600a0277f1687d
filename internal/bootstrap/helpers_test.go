package bootstrap

import (
	"io"
	"log/slog"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/require"

	"github.com/orc-hfg/uploader/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// parseTestConfig loads AppConfig from the environment the way LoadConfig does,
// after applying the given variables.
func parseTestConfig(t *testing.T, vars map[string]string) *config.AppConfig {
	t.Helper()
	t.Setenv("NODE_ENV", "test")
	for k, v := range vars {
		t.Setenv(k, v)
	}
	var cfg config.AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	require.NoError(t, cfg.Validate())
	return &cfg
}
