package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"net/http"
	"time"

	domainauth "github.com/orc-hfg/uploader/internal/domain/auth"
)

// CookieStore reads and writes the cookies visible to one execution context:
// a browser-like cookie jar on the client, or the request/response pair on the server.
type CookieStore interface {
	// Get returns the cookie value, or "" when the cookie is absent.
	Get(name string) string
	Set(cookie *http.Cookie)
	Delete(name string)
}

// HTTPDoer sends outbound HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// UserInfoSource calls the "who am I" endpoint with the current session credentials.
type UserInfoSource interface {
	GetAuthInfo(ctx context.Context) (domainauth.User, error)
}

// ValidationCache remembers recent positive session validations.
// Keys are opaque digests; values are never the session itself.
type ValidationCache interface {
	// Lookup reports whether key holds a positive validation.
	Lookup(ctx context.Context, key string) (bool, error)
	Store(ctx context.Context, key string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// AuthenticationChecker answers whether the current context holds a usable session.
type AuthenticationChecker interface {
	IsAuthenticated(ctx context.Context) bool
}
