package browser

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orc-hfg/uploader/config"
	"github.com/orc-hfg/uploader/internal/adapters/authinfo"
	"github.com/orc-hfg/uploader/internal/adapters/mockauth"
	domainauth "github.com/orc-hfg/uploader/internal/domain/auth"
	"github.com/orc-hfg/uploader/internal/domain/pages"
	httpx "github.com/orc-hfg/uploader/internal/http"
)

const (
	csrfCookie    = "madek.auth.anti-csrf-token"
	sessionCookie = "madek-session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type uploader struct {
	srv    *httptest.Server
	auth   config.AuthenticationConfig
	appURL string
}

// startUploader runs the uploader with the authentication mock on one
// httptest server, the way local development and CI run it.
func startUploader(t *testing.T, mock config.MockConfig) *uploader {
	t.Helper()

	var handler http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	authCfg := config.AuthenticationConfig{
		ServerURL:             srv.URL + "/uploader/",
		BasePath:              "auth/",
		SignInPathName:        "sign-in",
		SignOutPathName:       "sign-out",
		SystemPathName:        "auth-systems",
		DefaultSystemName:     "password",
		AppPathName:           "uploader",
		EmailOrLoginParameter: "email-or-login",
		ReturnToParameter:     "return-to",
		CSRFCookieName:        csrfCookie,
		CSRFHeaderName:        csrfCookie,
		SessionCookieName:     sessionCookie,
		UserInfoPath:          "api/auth-info",
		HTTPTimeout:           5 * time.Second,
		SignOut:               config.SignOutPolicy{ClearCSRFCookie: true},
	}
	authCfg.Sanitize()

	provider, err := mockauth.NewProvider(mockauth.Config{
		User:     domainauth.User{ID: "test-123", Login: "test", FirstName: "first_name", LastName: "last_name"},
		Password: "123",
	})
	require.NoError(t, err)

	info, err := authinfo.New(authinfo.Options{HTTP: srv.Client(), URL: srv.URL + "/uploader/api/auth-info"})
	require.NoError(t, err)

	handler, err = httpx.NewRouter(httpx.RouterServices{
		PathPrefix:    "/uploader",
		DefaultLocale: pages.LocaleDE,
		Guard: httpx.GuardConfig{
			Authenticator: &httpx.RequestAuthenticator{
				Config:   authCfg,
				HTTP:     srv.Client(),
				UserInfo: info,
				Logger:   discardLogger(),
			},
		},
		MockAuth: &httpx.MockAuthHandlers{
			Provider: provider,
			Auth:     authCfg,
			Mock:     mock,
			Logger:   discardLogger(),
		},
		Logger: discardLogger(),
	})
	require.NoError(t, err)

	return &uploader{srv: srv, auth: authCfg, appURL: srv.URL + "/uploader"}
}

func defaultMock() config.MockConfig {
	return config.MockConfig{
		AuthenticationEnabled:     true,
		AuthenticationInfoEnabled: true,
		SessionMaxAge:             time.Hour,
	}
}

func (u *uploader) newTab(t *testing.T, mode config.GuardMode) *Tab {
	t.Helper()
	tab, err := New(Options{
		AppURL:    u.appURL,
		Auth:      u.auth,
		GuardMode: mode,
		Logger:    discardLogger(),
	})
	require.NoError(t, err)
	return tab
}

func openPage(t *testing.T, tab *Tab, path string) Page {
	t.Helper()
	page, err := tab.Navigate(context.Background(), path)
	require.NoError(t, err)
	return page
}
