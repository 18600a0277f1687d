package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/afero"

	"github.com/orc-hfg/uploader/config"
	"github.com/orc-hfg/uploader/internal/adapters/authinfo"
	"github.com/orc-hfg/uploader/internal/adapters/mockauth"
	domainauth "github.com/orc-hfg/uploader/internal/domain/auth"
	"github.com/orc-hfg/uploader/internal/domain/pages"
	httpx "github.com/orc-hfg/uploader/internal/http"
	"github.com/orc-hfg/uploader/internal/observability/statsd"
	"github.com/orc-hfg/uploader/internal/ports"
)

// HandlerDeps contains everything needed to assemble the uploader's HTTP handler.
type HandlerDeps struct {
	Config *config.AppConfig
	// HTTP sends the server's outbound auth calls. Defaults to a client with the configured timeout.
	HTTP    ports.HTTPDoer
	Cache   ports.ValidationCache // Optional
	Metrics ObservabilityContainer
	// FS serves public/deploy-info.json. Defaults to the OS filesystem.
	FS     afero.Fs
	Logger *slog.Logger
}

// BuildHTTPHandler wires the route guard, pages, health check and optional mock
// into a router with the standard middleware chain.
func BuildHTTPHandler(deps HandlerDeps) (http.Handler, error) {
	if deps.Config == nil {
		return nil, errors.New("app config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := statsd.OrNop(deps.Metrics.Sink)

	client := deps.HTTP
	if client == nil {
		client = &http.Client{Timeout: cfg.Authentication.HTTPTimeout}
	}

	userInfoURL, err := url.JoinPath(cfg.Authentication.ServerURL, cfg.Authentication.UserInfoPath)
	if err != nil {
		return nil, fmt.Errorf("build user info URL: %w", err)
	}
	info, err := authinfo.New(authinfo.Options{HTTP: client, URL: userInfoURL, Logger: logger})
	if err != nil {
		return nil, err
	}

	var cacheTTL time.Duration
	cache := deps.Cache
	if cache != nil {
		cacheTTL = cfg.ValidationCache.TTL
	}

	fs := deps.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	locale, _ := pages.ParseLocale(cfg.HTTP.DefaultLocale)

	services := httpx.RouterServices{
		PathPrefix:    cfg.HTTP.PathPrefix,
		DefaultLocale: locale,
		Guard: httpx.GuardConfig{
			Mode: cfg.Authentication.GuardMode,
			Authenticator: &httpx.RequestAuthenticator{
				Config:       cfg.Authentication,
				HTTP:         client,
				UserInfo:     info,
				Cache:        cache,
				CacheTTL:     cacheTTL,
				CookieDomain: cfg.HTTP.CookieDomain,
				Logger:       logger,
				Metrics:      sink,
			},
			Metrics: sink,
			Logger:  logger,
		},
		Health: &httpx.HealthHandler{
			FS:        fs,
			PublicDir: cfg.HTTP.PublicDir,
			Logger:    logger,
		},
		Logger: logger,
	}

	if cfg.Mock.AuthenticationEnabled || cfg.Mock.AuthenticationInfoEnabled {
		mock, mockErr := buildMockAuth(cfg, sink, logger)
		if mockErr != nil {
			return nil, mockErr
		}
		services.MockAuth = mock
		logger.Warn("authentication mock enabled",
			"sign_in", cfg.Mock.AuthenticationEnabled,
			"auth_info", cfg.Mock.AuthenticationInfoEnabled,
			"paths", mock.MockPaths(cfg.HTTP.PathPrefix))
	}

	// Prometheus is scraped on the main listener unless the dedicated metrics listener runs.
	if deps.Metrics.Handler != nil && !cfg.IsMetricsListenerEnabled() {
		services.MetricsHandler = deps.Metrics.Handler
	}

	if cfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		services.Compression = &httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel, Logger: logger}
	}

	return httpx.NewRouter(services)
}

func buildMockAuth(cfg *config.AppConfig, sink statsd.Sink, logger *slog.Logger) (*httpx.MockAuthHandlers, error) {
	u := cfg.Mock.User
	provider, err := mockauth.NewProvider(mockauth.Config{
		User: domainauth.User{
			ID:        u.ID,
			Login:     u.Login,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
		},
		Password:       u.Password,
		ReuseCSRFToken: cfg.Mock.ReuseCSRFToken,
	})
	if err != nil {
		return nil, fmt.Errorf("build authentication mock: %w", err)
	}
	return &httpx.MockAuthHandlers{
		Provider:     provider,
		Auth:         cfg.Authentication,
		Mock:         cfg.Mock,
		CookieDomain: cfg.HTTP.CookieDomain,
		Metrics:      sink,
		Logger:       logger,
	}, nil
}

func newServer(addr string, handler http.Handler) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":3000"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
