package service

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orc-hfg/uploader/config"
	fakes "github.com/orc-hfg/uploader/internal/mocks/auth"
	"github.com/orc-hfg/uploader/internal/ports"
)

const (
	testCSRFCookie    = "madek.auth.anti-csrf-token"
	testSessionCookie = "madek-session"
	testCSRFValue     = "test-cookie=value123"
)

func testAuthConfig() config.AuthenticationConfig {
	cfg := config.AuthenticationConfig{
		ServerURL:             "https://test.server.de/",
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

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceDeps struct {
	cfg      config.AuthenticationConfig
	http     ports.HTTPDoer
	cookies  *fakes.MemoryCookieStore
	userInfo ports.UserInfoSource
	cache    ports.ValidationCache
	state    *SessionState
}

func newTestService(t *testing.T, deps serviceDeps) *AuthenticationService {
	t.Helper()
	if deps.cfg.ServerURL == "" {
		deps.cfg = testAuthConfig()
	}
	if deps.cookies == nil {
		deps.cookies = fakes.NewMemoryCookieStore(nil)
	}
	if deps.userInfo == nil {
		deps.userInfo = fakes.NewStubUserInfo()
	}
	if deps.http == nil {
		deps.http = http.DefaultClient
	}
	svc, err := NewAuthenticationService(AuthenticationServiceOptions{
		Config:   deps.cfg,
		HTTP:     deps.http,
		Cookies:  deps.cookies,
		UserInfo: deps.userInfo,
		Cache:    deps.cache,
		State:    deps.state,
		Logger:   discardLogger(),
	})
	require.NoError(t, err)
	return svc
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
