package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// GuardMode selects how the route guard decides whether a request is authenticated.
type GuardMode string

const (
	// GuardModeValidate calls the user-info endpoint for every protected navigation.
	GuardModeValidate GuardMode = "validate"
	// GuardModeSessionState delegates to the session state store (cookie presence plus
	// the one-shot post-sign-in flag).
	GuardModeSessionState GuardMode = "session-state"
)

// UnmarshalText implements encoding.TextUnmarshaler for GuardMode.
func (g *GuardMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "validate", "session-state":
		*g = GuardMode(v)
		return nil
	default:
		return fmt.Errorf("invalid GuardMode: %q (valid options: validate, session-state)", v)
	}
}

// AuthenticationConfig describes how the uploader talks to the Madek authentication endpoints.
//
// Path segments are joined onto ServerURL in the order
// BasePath / SignInPathName / SystemPathName / DefaultSystemName / DefaultSystemName / SignInPathName,
// mirroring the Madek password auth-system routes.
type AuthenticationConfig struct {
	// ServerURL is the absolute URL of the Madek server, e.g. "https://madek.example.org/".
	// Locally the mock runs under the app prefix, e.g. "http://localhost:3000/uploader/".
	ServerURL string `env:"AUTH_SERVER_URL" envDefault:"http://localhost:3000/uploader/"`

	BasePath          string `env:"AUTH_BASE_PATH"           envDefault:"auth/"`
	SignInPathName    string `env:"AUTH_SIGN_IN_PATH_NAME"   envDefault:"sign-in"`
	SignOutPathName   string `env:"AUTH_SIGN_OUT_PATH_NAME"  envDefault:"sign-out"`
	SystemPathName    string `env:"AUTH_SYSTEM_PATH_NAME"    envDefault:"auth-systems"`
	DefaultSystemName string `env:"AUTH_DEFAULT_SYSTEM_NAME" envDefault:"password"`

	// AppPathName is sent as the return-to value on sign-in.
	AppPathName string `env:"AUTH_APP_PATH_NAME" envDefault:"uploader"`

	EmailOrLoginParameter string `env:"AUTH_EMAIL_OR_LOGIN_PARAMETER" envDefault:"email-or-login"`
	ReturnToParameter     string `env:"AUTH_RETURN_TO_PARAMETER"      envDefault:"return-to"`

	CSRFCookieName    string `env:"AUTH_CSRF_COOKIE_NAME"    envDefault:"madek.auth.anti-csrf-token"`
	CSRFHeaderName    string `env:"AUTH_CSRF_HEADER_NAME"    envDefault:"madek.auth.anti-csrf-token"`
	SessionCookieName string `env:"AUTH_SESSION_COOKIE_NAME" envDefault:"madek-session"`

	// UserInfoPath is the "who am I" endpoint, relative to ServerURL.
	UserInfoPath string `env:"AUTH_USER_INFO_PATH" envDefault:"api/auth-info"`

	// HTTPTimeout bounds every outbound authentication request.
	HTTPTimeout time.Duration `env:"AUTH_HTTP_TIMEOUT" envDefault:"10s"`

	// GuardMode selects the route guard strategy for server-rendered pages.
	GuardMode GuardMode `env:"GUARD_MODE" envDefault:"validate"`

	SignOut SignOutPolicy
}

// SignOutPolicy controls which cookies the client clears locally after calling the sign-out endpoint.
// The real server's deletion behavior is not pinned down, so both are configurable.
type SignOutPolicy struct {
	ClearCSRFCookie    bool `env:"AUTH_SIGN_OUT_CLEAR_CSRF_COOKIE"    envDefault:"true"`
	ClearSessionCookie bool `env:"AUTH_SIGN_OUT_CLEAR_SESSION_COOKIE" envDefault:"false"`
}

// Sanitize trims whitespace and applies fallbacks for values that must never be empty.
func (c *AuthenticationConfig) Sanitize() {
	c.ServerURL = strings.TrimSpace(c.ServerURL)
	if c.ServerURL != "" && !strings.HasSuffix(c.ServerURL, "/") {
		c.ServerURL += "/"
	}
	c.CSRFHeaderName = strings.TrimSpace(c.CSRFHeaderName)
	if c.CSRFHeaderName == "" {
		c.CSRFHeaderName = c.CSRFCookieName
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	if c.GuardMode == "" {
		c.GuardMode = GuardModeValidate
	}
}

// Validate reports every required field that is missing.
func (c *AuthenticationConfig) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"AUTH_SERVER_URL", c.ServerURL},
		{"AUTH_SIGN_IN_PATH_NAME", c.SignInPathName},
		{"AUTH_SIGN_OUT_PATH_NAME", c.SignOutPathName},
		{"AUTH_SYSTEM_PATH_NAME", c.SystemPathName},
		{"AUTH_DEFAULT_SYSTEM_NAME", c.DefaultSystemName},
		{"AUTH_EMAIL_OR_LOGIN_PARAMETER", c.EmailOrLoginParameter},
		{"AUTH_RETURN_TO_PARAMETER", c.ReturnToParameter},
		{"AUTH_CSRF_COOKIE_NAME", c.CSRFCookieName},
		{"AUTH_CSRF_HEADER_NAME", c.CSRFHeaderName},
		{"AUTH_SESSION_COOKIE_NAME", c.SessionCookieName},
		{"AUTH_USER_INFO_PATH", c.UserInfoPath},
	}

	var errs []error
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}
	return errors.Join(errs...)
}

// MockConfig controls the local authentication mock used for development and end-to-end tests.
type MockConfig struct {
	// AuthenticationEnabled mounts the sign-in, session-init and sign-out mock endpoints.
	AuthenticationEnabled bool `env:"MOCK_AUTHENTICATION_ENABLED" envDefault:"false"`
	// AuthenticationInfoEnabled mounts the mock user-info endpoint.
	AuthenticationInfoEnabled bool `env:"MOCK_AUTHENTICATION_INFO_ENABLED" envDefault:"false"`

	// ReuseCSRFToken re-issues an existing CSRF cookie instead of minting a new one.
	ReuseCSRFToken bool `env:"MOCK_REUSE_CSRF_TOKEN" envDefault:"false"`
	// SignOutDeletesCSRFCookie makes the mock sign-out endpoint delete the CSRF cookie as well.
	SignOutDeletesCSRFCookie bool `env:"MOCK_SIGN_OUT_DELETES_CSRF_COOKIE" envDefault:"false"`

	SessionMaxAge time.Duration `env:"MOCK_SESSION_MAX_AGE" envDefault:"24h"`

	User MockUserConfig `envPrefix:"MOCK_USER_"`
}

// MockUserConfig is the single valid identity accepted by the mock.
type MockUserConfig struct {
	ID        string `env:"ID"         envDefault:"test-123"`
	Login     string `env:"LOGIN"      envDefault:"test"`
	Password  string `env:"PASSWORD"   envDefault:"123"`
	FirstName string `env:"FIRST_NAME" envDefault:"first_name"`
	LastName  string `env:"LAST_NAME"  envDefault:"last_name"`
	Email     string `env:"EMAIL"`
}

// Sanitize disables the mock session lifetime when it is negative.
func (c *MockConfig) Sanitize() {
	if c.SessionMaxAge < 0 {
		c.SessionMaxAge = 0
	}
}
