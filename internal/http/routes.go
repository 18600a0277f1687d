package httpx

import (
	"log/slog"
	"net/http"
	"path"

	"github.com/orc-hfg/uploader/internal/domain/pages"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	// PathPrefix is the app base path, e.g. "/uploader". Empty mounts at "/".
	PathPrefix    string
	DefaultLocale pages.Locale

	Guard GuardConfig

	// Optional: mock Madek endpoints. Which ones mount follows MockAuth.Mock.
	MockAuth *MockAuthHandlers
	// Optional: readiness endpoint at {prefix}/health.
	Health *HealthHandler
	// Optional: Prometheus handler at /metrics.
	MetricsHandler http.Handler
	// Optional: gzip for text responses.
	Compression *CompressionConfig

	Logger *slog.Logger
}

// NewRouter creates and configures the uploader's HTTP handler.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pageHandler, err := NewPageHandler(PageHandlerOptions{
		PathPrefix:    services.PathPrefix,
		DefaultLocale: services.DefaultLocale,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}

	guardCfg := services.Guard
	guardCfg.PathPrefix = services.PathPrefix
	if guardCfg.DefaultLocale == "" {
		guardCfg.DefaultLocale = services.DefaultLocale
	}
	if guardCfg.Logger == nil {
		guardCfg.Logger = logger
	}

	mux := http.NewServeMux()
	prefix := services.PathPrefix

	mux.HandleFunc("GET "+prefix+"/{$}", pageHandler.RedirectToIndex)
	mux.Handle("GET "+prefix+"/", RouteGuard(guardCfg)(pageHandler))

	if services.Health != nil {
		mux.Handle("GET "+path.Join("/", prefix, "health"), services.Health)
		mux.Handle("HEAD "+path.Join("/", prefix, "health"), services.Health)
	}
	if services.MockAuth != nil {
		registerMockAuthRoutes(mux, prefix, services.MockAuth)
	}
	if services.MetricsHandler != nil {
		mux.Handle("GET /metrics", services.MetricsHandler)
	}

	var handler http.Handler = mux
	if services.Compression != nil {
		handler = Compression(*services.Compression)(handler)
	}
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	handler = RequestID()(handler)
	return handler, nil
}

// MockAuthPaths are the mount points of the mock endpoints for a given prefix.
type MockAuthPaths struct {
	InitSession string
	SignIn      string
	SignOut     string
	AuthInfo    string
}

// MockPaths derives the mock endpoint paths from the authentication config,
// mirroring how the client builds its URLs.
func (h *MockAuthHandlers) MockPaths(prefix string) MockAuthPaths {
	a := h.Auth
	return MockAuthPaths{
		InitSession: path.Join("/", prefix, a.BasePath, a.SignInPathName, a.SystemPathName),
		SignIn: path.Join("/", prefix, a.BasePath, a.SignInPathName, a.SystemPathName,
			a.DefaultSystemName, a.DefaultSystemName, a.SignInPathName),
		SignOut:  path.Join("/", prefix, a.BasePath, a.SignOutPathName),
		AuthInfo: path.Join("/", prefix, a.UserInfoPath),
	}
}

func registerMockAuthRoutes(mux *http.ServeMux, prefix string, h *MockAuthHandlers) {
	p := h.MockPaths(prefix)
	if h.Mock.AuthenticationEnabled {
		mux.HandleFunc("GET "+p.InitSession, h.InitSession)
		mux.HandleFunc("GET "+p.InitSession+"/{$}", h.InitSession)
		mux.HandleFunc("POST "+p.SignIn, h.SignIn)
		mux.HandleFunc("GET "+p.SignOut, h.SignOut)
	}
	if h.Mock.AuthenticationInfoEnabled {
		mux.HandleFunc("GET "+p.AuthInfo, h.AuthInfo)
	}
	h.logger().Info("authentication mock mounted",
		"sign_in", h.Mock.AuthenticationEnabled,
		"auth_info", h.Mock.AuthenticationInfoEnabled,
		"init_session_path", p.InitSession)
}
