package mockauth

// Package mockauth holds the credential and token rules of the local
// authentication mock. HTTP handling lives in the httpx package.

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	domainauth "github.com/orc-hfg/uploader/internal/domain/auth"
)

const (
	// CSRFTokenPrefix marks tokens minted by the mock.
	CSRFTokenPrefix = "mock-csrf-"
	// SessionPrefix marks session cookie values minted by the mock.
	SessionPrefix = "mock-session-"

	csrfTokenBytes = 12
)

// Config controls the mock provider.
// User.ID, User.Login and Password are required.
type Config struct {
	User     domainauth.User
	Password string
	// ReuseCSRFToken hands back an existing token instead of minting a new one.
	ReuseCSRFToken bool
}

// Provider validates sign-in attempts against a single configured identity.
// It keeps no server-side state: the session cookie value is the capability.
type Provider struct {
	user     domainauth.User
	password string
	reuse    bool
}

// NewProvider constructs a mock provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.User.ID == "" {
		return nil, errors.New("mock auth: user ID is required")
	}
	if cfg.User.Login == "" {
		return nil, errors.New("mock auth: user login is required")
	}
	if cfg.Password == "" {
		return nil, errors.New("mock auth: password is required")
	}
	return &Provider{user: cfg.User, password: cfg.Password, reuse: cfg.ReuseCSRFToken}, nil
}

// User returns the configured identity.
func (p *Provider) User() domainauth.User { return p.user }

// IssueCSRFToken returns the token to set on session initialization.
// With reuse enabled a non-empty existing token is returned unchanged.
func (p *Provider) IssueCSRFToken(existing string) (string, error) {
	if p.reuse && existing != "" {
		return existing, nil
	}
	return NewCSRFToken()
}

// NewCSRFToken mints "mock-csrf-" followed by 12 random bytes in unpadded base64url.
func NewCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return CSRFTokenPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// CSRFMatches compares the cookie and header values case-insensitively.
// An absent cookie and an absent header compare equal.
func CSRFMatches(cookieValue, headerValue string) bool {
	a := []byte(strings.ToLower(cookieValue))
	b := []byte(strings.ToLower(headerValue))
	return subtle.ConstantTimeCompare(a, b) == 1
}

// CheckCredentials reports whether login and password belong to the configured user.
func (p *Provider) CheckCredentials(login, password string) bool {
	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(p.user.Login)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(p.password)) == 1
	return loginOK && passwordOK
}

// SessionValue is the session cookie value issued after a successful sign-in.
func (p *Provider) SessionValue() string {
	return SessionPrefix + p.user.ID
}

// UserForSession resolves a session cookie value back to the configured user.
func (p *Provider) UserForSession(value string) (domainauth.User, bool) {
	id, ok := strings.CutPrefix(value, SessionPrefix)
	if !ok || id != p.user.ID {
		return domainauth.User{}, false
	}
	return p.user, true
}
