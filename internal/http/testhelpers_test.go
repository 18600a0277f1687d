package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orc-hfg/uploader/config"
	"github.com/orc-hfg/uploader/internal/adapters/authinfo"
	"github.com/orc-hfg/uploader/internal/adapters/mockauth"
	domainauth "github.com/orc-hfg/uploader/internal/domain/auth"
	"github.com/orc-hfg/uploader/internal/domain/pages"
)

const (
	testPrefix        = "/uploader"
	testCSRFCookie    = "madek.auth.anti-csrf-token"
	testSessionCookie = "madek-session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAuthConfig(serverURL string) config.AuthenticationConfig {
	cfg := config.AuthenticationConfig{
		ServerURL:             serverURL,
		BasePath:              "auth/",
		SignInPathName:        "sign-in",
		SignOutPathName:       "sign-out",
		SystemPathName:        "auth-systems",
		DefaultSystemName:     "password",
		AppPathName:           "uploader",
		EmailOrLoginParameter: "email-or-login",
		ReturnToParameter:     "return-to",
		CSRFCookieName:        testCSRFCookie,
		CSRFHeaderName:        testCSRFCookie,
		SessionCookieName:     testSessionCookie,
		UserInfoPath:          "api/auth-info",
		SignOut:               config.SignOutPolicy{ClearCSRFCookie: true},
	}
	cfg.Sanitize()
	return cfg
}

func testMockConfig() config.MockConfig {
	return config.MockConfig{
		AuthenticationEnabled:     true,
		AuthenticationInfoEnabled: true,
		SessionMaxAge:             24 * time.Hour,
	}
}

func testProvider(t *testing.T) *mockauth.Provider {
	t.Helper()
	prov, err := mockauth.NewProvider(mockauth.Config{
		User:     domainauth.User{ID: "test-123", Login: "test", FirstName: "first_name", LastName: "last_name"},
		Password: "123",
	})
	require.NoError(t, err)
	return prov
}

type recordedCount struct {
	name string
	tags map[string]string
}

type recordingSink struct {
	mu     sync.Mutex
	counts []recordedCount
}

func (r *recordingSink) Count(name string, _ int64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, recordedCount{name: name, tags: tags})
}

func (r *recordingSink) Gauge(string, float64, map[string]string)        {}
func (r *recordingSink) Timing(string, time.Duration, map[string]string) {}

func (r *recordingSink) find(name string) []map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []map[string]string
	for _, c := range r.counts {
		if c.name == name {
			out = append(out, c.tags)
		}
	}
	return out
}

type testServerOptions struct {
	mode config.GuardMode
	mock config.MockConfig
	sink *recordingSink
}

// newTestServer starts the full router behind an httptest server whose URL is
// also the authentication server URL, like local development.
func newTestServer(t *testing.T, opts testServerOptions) *httptest.Server {
	t.Helper()

	var handler http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	authCfg := testAuthConfig(srv.URL + testPrefix + "/")
	info, err := authinfo.New(authinfo.Options{
		HTTP:   srv.Client(),
		URL:    srv.URL + testPrefix + "/api/auth-info",
		Logger: discardLogger(),
	})
	require.NoError(t, err)

	if opts.mock == (config.MockConfig{}) {
		opts.mock = testMockConfig()
	}

	services := RouterServices{
		PathPrefix:    testPrefix,
		DefaultLocale: pages.LocaleDE,
		Guard: GuardConfig{
			Mode: opts.mode,
			Authenticator: &RequestAuthenticator{
				Config:   authCfg,
				HTTP:     srv.Client(),
				UserInfo: info,
				Logger:   discardLogger(),
			},
		},
		MockAuth: &MockAuthHandlers{
			Provider: testProvider(t),
			Auth:     authCfg,
			Mock:     opts.mock,
			Logger:   discardLogger(),
		},
		Health: &HealthHandler{},
		Logger: discardLogger(),
	}
	if opts.sink != nil {
		services.Guard.Metrics = opts.sink
		services.MockAuth.Metrics = opts.sink
	}

	handler, err = NewRouter(services)
	require.NoError(t, err)
	return srv
}

// noRedirectClient returns a client that reports redirects instead of following them.
func noRedirectClient(srv *httptest.Server) *http.Client {
	c := *srv.Client()
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return &c
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
