package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/orc-hfg/uploader/config"
	"github.com/orc-hfg/uploader/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	return bootstrap.RunServicesWithShutdown(ctx, &bootstrap.ServiceOrchestrationConfig{
		Config: &cfg,
		Logger: logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting uploader",
		"auth_server_url", cfg.Authentication.ServerURL,
		"path_prefix", cfg.HTTP.PathPrefix,
		"guard_mode", cfg.Authentication.GuardMode,
		"mock_authentication", cfg.Mock.AuthenticationEnabled,
		"validation_cache", cfg.ValidationCache.Enabled,
		"enabled_services", bootstrap.GetEnabledServices(cfg))
}
