package cookies

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/orc-hfg/uploader/internal/ports"
)

// RequestStore reads cookies from an incoming request and writes them to its response.
// Writes are visible to later reads through the same store.
type RequestStore struct {
	r      *http.Request
	w      http.ResponseWriter
	domain string

	mu      sync.Mutex
	pending map[string]string
}

var _ ports.CookieStore = (*RequestStore)(nil)

// NewRequestStore creates a store for one request. domain is written on every
// Set-Cookie header when non-empty.
func NewRequestStore(w http.ResponseWriter, r *http.Request, domain string) *RequestStore {
	return &RequestStore{r: r, w: w, domain: domain, pending: map[string]string{}}
}

// IsSecureRequest reports whether the request arrived over TLS, directly or behind a proxy.
func IsSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// Get returns a value written through this store, else the request cookie value.
func (s *RequestStore) Get(name string) string {
	s.mu.Lock()
	v, ok := s.pending[name]
	s.mu.Unlock()
	if ok {
		return v
	}
	c, err := s.r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// Set writes a Set-Cookie header. Path defaults to "/", SameSite to Lax, and
// Secure follows the request scheme unless already set.
func (s *RequestStore) Set(cookie *http.Cookie) {
	if cookie == nil {
		return
	}
	c := *cookie
	if c.Path == "" {
		c.Path = "/"
	}
	if c.Domain == "" {
		c.Domain = s.domain
	}
	if c.SameSite == 0 || c.SameSite == http.SameSiteDefaultMode {
		c.SameSite = http.SameSiteLaxMode
	}
	if !c.Secure {
		c.Secure = IsSecureRequest(s.r)
	}
	http.SetCookie(s.w, &c)

	s.mu.Lock()
	defer s.mu.Unlock()
	if c.MaxAge < 0 {
		s.pending[c.Name] = ""
		return
	}
	s.pending[c.Name] = c.Value
}

// Delete expires the cookie on the client.
func (s *RequestStore) Delete(name string) {
	s.Set(&http.Cookie{
		Name:    name,
		Value:   "",
		MaxAge:  -1,
		Expires: time.Unix(0, 0).UTC(),
	})
}
