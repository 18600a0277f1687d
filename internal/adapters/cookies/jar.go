// Package cookies implements ports.CookieStore for the two execution contexts of the
// uploader: a browser-like cookie jar for outbound clients, and the request/response
// pair of an incoming server request.
package cookies

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/orc-hfg/uploader/internal/ports"
)

// JarStore is a cookie jar scoped to one server URL. It implements both
// http.CookieJar, so an *http.Client can send and receive through it, and
// ports.CookieStore, so the authentication client can inspect it.
type JarStore struct {
	server *url.URL

	mu  sync.RWMutex
	jar *cookiejar.Jar
}

var (
	_ http.CookieJar    = (*JarStore)(nil)
	_ ports.CookieStore = (*JarStore)(nil)
)

// NewJarStore creates an empty jar for serverURL.
func NewJarStore(serverURL string) (*JarStore, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parse server URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server URL %q must be absolute", serverURL)
	}
	jar, err := newJar()
	if err != nil {
		return nil, err
	}
	return &JarStore{server: u, jar: jar}, nil
}

func newJar() (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

// SetCookies implements http.CookieJar.
func (s *JarStore) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.jar.SetCookies(u, cookies)
}

// Cookies implements http.CookieJar.
func (s *JarStore) Cookies(u *url.URL) []*http.Cookie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jar.Cookies(u)
}

// Get returns the value of the named cookie as sent to the server URL.
func (s *JarStore) Get(name string) string {
	for _, c := range s.Cookies(s.server) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// Set stores a cookie as if the server URL had sent it. Path defaults to "/".
func (s *JarStore) Set(cookie *http.Cookie) {
	if cookie == nil {
		return
	}
	c := *cookie
	if c.Path == "" {
		c.Path = "/"
	}
	s.SetCookies(s.server, []*http.Cookie{&c})
}

// Delete expires the named cookie at "/" and at the server URL path.
func (s *JarStore) Delete(name string) {
	paths := []string{"/"}
	if p := s.server.Path; p != "" && p != "/" {
		paths = append(paths, p)
	}
	expired := make([]*http.Cookie, 0, len(paths))
	for _, p := range paths {
		expired = append(expired, &http.Cookie{Name: name, Path: p, MaxAge: -1, Expires: time.Unix(0, 0)})
	}
	s.SetCookies(s.server, expired)
}

// Clear drops every cookie, like a browser context with cleared cookies.
func (s *JarStore) Clear() error {
	jar, err := newJar()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jar = jar
	return nil
}

// Names lists the cookies currently sent to the server URL.
func (s *JarStore) Names() []string {
	cookies := s.Cookies(s.server)
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name)
	}
	return names
}

// ServerURL returns the URL the jar is scoped to.
func (s *JarStore) ServerURL() *url.URL {
	u := *s.server
	return &u
}

// HTTPClient returns a client that sends and stores cookies through the jar.
func (s *JarStore) HTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Jar: s, Timeout: timeout}
}
