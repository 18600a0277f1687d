package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/orc-hfg/uploader/config"
	"github.com/orc-hfg/uploader/internal/adapters/cookies"
	"github.com/orc-hfg/uploader/internal/adapters/mockauth"
	domainauth "github.com/orc-hfg/uploader/internal/domain/auth"
	apperrors "github.com/orc-hfg/uploader/internal/errors"
	"github.com/orc-hfg/uploader/internal/observability/metrics"
	"github.com/orc-hfg/uploader/internal/observability/statsd"
)

// Messages returned by the mock, matching the Madek server.
const (
	MsgCSRFMismatch       = "The CSRF token does not match."
	MsgInvalidCredentials = "The provided credentials are invalid."
	MsgInvalidSession     = "The session is invalid or has expired."
)

// MockAuthHandlers serve the local stand-in for the Madek authentication endpoints.
// The session cookie is the capability; nothing is stored server-side.
type MockAuthHandlers struct {
	Provider *mockauth.Provider
	Auth     config.AuthenticationConfig
	Mock     config.MockConfig

	CookieDomain string
	Metrics      statsd.Sink
	Logger       *slog.Logger
}

func (h *MockAuthHandlers) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// InitSession handles GET {base}{sign-in}/{auth-systems}: it issues the CSRF cookie.
func (h *MockAuthHandlers) InitSession(w http.ResponseWriter, r *http.Request) {
	store := cookies.NewRequestStore(w, r, h.CookieDomain)

	token, err := h.Provider.IssueCSRFToken(store.Get(h.Auth.CSRFCookieName))
	if err != nil {
		h.logger().ErrorContext(r.Context(), "mint csrf token", "error", err)
		WriteStatusError(w, apperrors.Internal("Could not create a CSRF token."))
		return
	}
	store.Set(&http.Cookie{
		Name:     h.Auth.CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
	})
	w.WriteHeader(http.StatusNoContent)
}

type mockSignInBody struct {
	Password string `json:"password"`
}

// SignIn handles POST {base}{sign-in}/{auth-systems}/{system}/{system}/{sign-in}.
// The CSRF check runs before the credential check.
func (h *MockAuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	store := cookies.NewRequestStore(w, r, h.CookieDomain)
	sink := statsd.OrNop(h.Metrics)

	if !mockauth.CSRFMatches(store.Get(h.Auth.CSRFCookieName), r.Header.Get(h.Auth.CSRFHeaderName)) {
		metrics.EmitMockSignIn(sink, metrics.MockResultCSRFMismatch)
		WriteStatusError(w, apperrors.Forbidden(MsgCSRFMismatch))
		return
	}

	var body mockSignInBody
	if !decodeJSONLenient(r, &body) {
		body = mockSignInBody{}
	}
	login := r.URL.Query().Get(h.Auth.EmailOrLoginParameter)
	if !h.Provider.CheckCredentials(login, body.Password) {
		metrics.EmitMockSignIn(sink, metrics.MockResultInvalidCredentials)
		WriteStatusError(w, apperrors.Unauthorized(MsgInvalidCredentials))
		return
	}

	session := &http.Cookie{
		Name:     h.Auth.SessionCookieName,
		Value:    h.Provider.SessionValue(),
		Path:     "/",
		HttpOnly: true,
	}
	if maxAge := h.Mock.SessionMaxAge; maxAge > 0 {
		session.MaxAge = int(maxAge / time.Second)
	}
	store.Set(session)
	metrics.EmitMockSignIn(sink, metrics.ResultSuccess)
	h.logger().InfoContext(r.Context(), "mock sign-in succeeded", "login", login)
	w.WriteHeader(http.StatusNoContent)
}

// SignOut handles GET {base}{sign-out}.
func (h *MockAuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	store := cookies.NewRequestStore(w, r, h.CookieDomain)
	store.Delete(h.Auth.SessionCookieName)
	if h.Mock.SignOutDeletesCSRFCookie {
		store.Delete(h.Auth.CSRFCookieName)
	}
	w.WriteHeader(http.StatusNoContent)
}

// AuthInfo handles GET {user-info path}.
func (h *MockAuthHandlers) AuthInfo(w http.ResponseWriter, r *http.Request) {
	var value string
	if c, err := r.Cookie(h.Auth.SessionCookieName); err == nil {
		value = c.Value
	}
	user, ok := h.Provider.UserForSession(value)
	if !ok {
		WriteStatusError(w, apperrors.Unauthorized(MsgInvalidSession))
		return
	}
	WriteJSON(w, http.StatusOK, domainauth.AuthInfo{User: user})
}
