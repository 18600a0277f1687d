package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orc-hfg/uploader/internal/adapters/mockauth"
	domainauth "github.com/orc-hfg/uploader/internal/domain/auth"
)

func newRecorderRequest(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

const signInPath = "/uploader/auth/sign-in/auth-systems/password/password/sign-in?email-or-login=test&return-to=uploader"

func newMockRouter(t *testing.T, sink *recordingSink) http.Handler {
	t.Helper()
	h := &MockAuthHandlers{
		Provider: testProvider(t),
		Auth:     testAuthConfig("http://localhost:3000/uploader/"),
		Mock:     testMockConfig(),
		Logger:   discardLogger(),
	}
	if sink != nil {
		h.Metrics = sink
	}
	router, err := NewRouter(RouterServices{PathPrefix: testPrefix, MockAuth: h, Logger: discardLogger()})
	require.NoError(t, err)
	return router
}

func signInRequest(body, csrfCookie, csrfHeader string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, signInPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if csrfCookie != "" {
		req.AddCookie(&http.Cookie{Name: testCSRFCookie, Value: csrfCookie})
	}
	if csrfHeader != "" {
		req.Header.Set(testCSRFCookie, csrfHeader)
	}
	return req
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) StatusBody {
	t.Helper()
	var body StatusBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestMockAuth_InitSessionSetsCSRFCookie(t *testing.T) {
	router := newMockRouter(t, nil)

	for _, target := range []string{
		"/uploader/auth/sign-in/auth-systems?email-or-login=test",
		"/uploader/auth/sign-in/auth-systems/?email-or-login=test",
	} {
		rec := newRecorderRequest(router, http.MethodGet, target)
		require.Equal(t, http.StatusNoContent, rec.Code, target)

		resp := rec.Result()
		c := findCookie(resp, testCSRFCookie)
		require.NotNil(t, c, target)
		assert.True(t, strings.HasPrefix(c.Value, mockauth.CSRFTokenPrefix))
		assert.Equal(t, "/", c.Path)
		assert.False(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		resp.Body.Close()
	}
}

func TestMockAuth_SignIn(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		cookie     string
		header     string
		wantStatus int
		wantMsg    string
		wantResult string
	}{
		{"valid", `{"password":"123"}`, "mock-csrf-AbC", "mock-csrf-AbC", http.StatusNoContent, "", "success"},
		{"header differs only in case", `{"password":"123"}`, "mock-csrf-AbC", "MOCK-CSRF-abc", http.StatusNoContent, "", "success"},
		{"csrf mismatch", `{"password":"123"}`, "mock-csrf-AbC", "mock-csrf-other", http.StatusForbidden, MsgCSRFMismatch, "csrf_mismatch"},
		{"missing header", `{"password":"123"}`, "mock-csrf-AbC", "", http.StatusForbidden, MsgCSRFMismatch, "csrf_mismatch"},
		{"missing cookie and header", `{"password":"123"}`, "", "", http.StatusNoContent, "", "success"},
		{"missing cookie", `{"password":"123"}`, "", "mock-csrf-AbC", http.StatusForbidden, MsgCSRFMismatch, "csrf_mismatch"},
		{"wrong password", `{"password":"wrong"}`, "mock-csrf-AbC", "mock-csrf-AbC", http.StatusUnauthorized, MsgInvalidCredentials, "invalid_credentials"},
		{"malformed body", `{"password":`, "mock-csrf-AbC", "mock-csrf-AbC", http.StatusUnauthorized, MsgInvalidCredentials, "invalid_credentials"},
		{"csrf checked before credentials", `{"password":"wrong"}`, "mock-csrf-AbC", "nope", http.StatusForbidden, MsgCSRFMismatch, "csrf_mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			router := newMockRouter(t, sink)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, signInRequest(tt.body, tt.cookie, tt.header))
			require.Equal(t, tt.wantStatus, rec.Code)

			resp := rec.Result()
			defer resp.Body.Close()
			session := findCookie(resp, testSessionCookie)

			if tt.wantStatus == http.StatusNoContent {
				require.NotNil(t, session)
				assert.Equal(t, "mock-session-test-123", session.Value)
				assert.True(t, session.HttpOnly)
				assert.Equal(t, 86400, session.MaxAge)
				assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
			} else {
				assert.Nil(t, session)
				body := decodeStatus(t, rec)
				assert.Equal(t, tt.wantStatus, body.StatusCode)
				assert.Equal(t, tt.wantMsg, body.StatusMessage)
			}

			results := sink.find("mock.sign_in")
			require.Len(t, results, 1)
			assert.Equal(t, tt.wantResult, results[0]["result"])
		})
	}
}

func TestMockAuth_SignInWrongLogin(t *testing.T) {
	router := newMockRouter(t, nil)

	req := signInRequest(`{"password":"123"}`, "mock-csrf-AbC", "mock-csrf-AbC")
	req.URL.RawQuery = "email-or-login=someone&return-to=uploader"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMockAuth_SignOut(t *testing.T) {
	t.Run("deletes session only by default", func(t *testing.T) {
		router := newMockRouter(t, nil)
		rec := newRecorderRequest(router, http.MethodGet, "/uploader/auth/sign-out")
		require.Equal(t, http.StatusNoContent, rec.Code)

		resp := rec.Result()
		defer resp.Body.Close()
		session := findCookie(resp, testSessionCookie)
		require.NotNil(t, session)
		assert.Less(t, session.MaxAge, 0)
		assert.Nil(t, findCookie(resp, testCSRFCookie))
	})

	t.Run("deletes csrf cookie when configured", func(t *testing.T) {
		h := &MockAuthHandlers{
			Provider: testProvider(t),
			Auth:     testAuthConfig("http://localhost:3000/uploader/"),
			Mock:     testMockConfig(),
			Logger:   discardLogger(),
		}
		h.Mock.SignOutDeletesCSRFCookie = true

		rec := httptest.NewRecorder()
		h.SignOut(rec, httptest.NewRequest(http.MethodGet, "/uploader/auth/sign-out", nil))

		resp := rec.Result()
		defer resp.Body.Close()
		csrf := findCookie(resp, testCSRFCookie)
		require.NotNil(t, csrf)
		assert.Less(t, csrf.MaxAge, 0)
	})
}

func TestMockAuth_AuthInfo(t *testing.T) {
	router := newMockRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/uploader/api/auth-info", nil)
	req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: "mock-session-test-123"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var info domainauth.AuthInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "test-123", info.User.ID)
	assert.Equal(t, "test", info.User.Login)

	for _, value := range []string{"", "mock-session-other", "test-123"} {
		req := httptest.NewRequest(http.MethodGet, "/uploader/api/auth-info", nil)
		if value != "" {
			req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: value})
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code, value)
		assert.Equal(t, MsgInvalidSession, decodeStatus(t, rec).StatusMessage)
	}
}

func TestMockAuth_DisabledRoutesAreNotMounted(t *testing.T) {
	h := &MockAuthHandlers{
		Provider: testProvider(t),
		Auth:     testAuthConfig("http://localhost:3000/uploader/"),
		Logger:   discardLogger(),
	}
	router, err := NewRouter(RouterServices{PathPrefix: testPrefix, MockAuth: h, Logger: discardLogger()})
	require.NoError(t, err)

	rec := newRecorderRequest(router, http.MethodGet, "/uploader/api/auth-info")
	// Falls through to the page handler's error page.
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestMockAuth_Paths(t *testing.T) {
	h := &MockAuthHandlers{Auth: testAuthConfig("http://localhost:3000/uploader/")}
	p := h.MockPaths("/uploader")
	assert.Equal(t, "/uploader/auth/sign-in/auth-systems", p.InitSession)
	assert.Equal(t, "/uploader/auth/sign-in/auth-systems/password/password/sign-in", p.SignIn)
	assert.Equal(t, "/uploader/auth/sign-out", p.SignOut)
	assert.Equal(t, "/uploader/api/auth-info", p.AuthInfo)

	root := h.MockPaths("")
	assert.Equal(t, "/auth/sign-out", root.SignOut)
}
