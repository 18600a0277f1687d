package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/orc-hfg/uploader/internal/domain/auth"
	"github.com/orc-hfg/uploader/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CookieStore     = (*MemoryCookieStore)(nil)
	_ ports.UserInfoSource  = (*StubUserInfo)(nil)
	_ ports.ValidationCache = (*MemoryValidationCache)(nil)
)

// MemoryCookieStore is a name-keyed cookie store without domain or path scoping.
type MemoryCookieStore struct {
	mu      sync.Mutex
	cookies map[string]string
}

// NewMemoryCookieStore creates a store pre-populated with name/value pairs.
func NewMemoryCookieStore(values map[string]string) *MemoryCookieStore {
	s := &MemoryCookieStore{cookies: make(map[string]string, len(values))}
	for k, v := range values {
		s.cookies[k] = v
	}
	return s
}

func (s *MemoryCookieStore) Get(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cookies[name]
}

func (s *MemoryCookieStore) Set(c *http.Cookie) {
	if c == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cookies == nil {
		s.cookies = map[string]string{}
	}
	if c.MaxAge < 0 {
		delete(s.cookies, c.Name)
		return
	}
	s.cookies[c.Name] = c.Value
}

func (s *MemoryCookieStore) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cookies, name)
}

// Has reports whether the cookie is present (even with an empty value).
func (s *MemoryCookieStore) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cookies[name]
	return ok
}

// StubUserInfo returns a fixed user or error and counts calls.
type StubUserInfo struct {
	GetAuthInfoFunc func(ctx context.Context) (domainauth.User, error)

	User domainauth.User
	Err  error

	calls atomic.Int32
}

// NewStubUserInfo returns a stub that reports the default mock user.
func NewStubUserInfo() *StubUserInfo {
	return &StubUserInfo{User: domainauth.User{
		ID:        "test-123",
		Login:     "test",
		FirstName: "first_name",
		LastName:  "last_name",
	}}
}

func (s *StubUserInfo) GetAuthInfo(ctx context.Context) (domainauth.User, error) {
	s.calls.Add(1)
	if s.GetAuthInfoFunc != nil {
		return s.GetAuthInfoFunc(ctx)
	}
	if s.Err != nil {
		return domainauth.User{}, s.Err
	}
	return s.User, nil
}

// Calls returns how many times GetAuthInfo ran.
func (s *StubUserInfo) Calls() int { return int(s.calls.Load()) }

// MemoryValidationCache is an in-memory ValidationCache honoring TTLs.
type MemoryValidationCache struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time

	// FailWith makes every operation return this error when set.
	FailWith error
}

// NewMemoryValidationCache creates an empty cache.
func NewMemoryValidationCache() *MemoryValidationCache {
	return &MemoryValidationCache{entries: map[string]time.Time{}, now: time.Now}
}

// WithClock replaces the time source used for expiry.
func (c *MemoryValidationCache) WithClock(now func() time.Time) *MemoryValidationCache {
	c.now = now
	return c
}

func (c *MemoryValidationCache) Lookup(_ context.Context, key string) (bool, error) {
	if c.FailWith != nil {
		return false, c.FailWith
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	exp, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	if !c.now().Before(exp) {
		delete(c.entries, key)
		return false, nil
	}
	return true, nil
}

func (c *MemoryValidationCache) Store(_ context.Context, key string, ttl time.Duration) error {
	if c.FailWith != nil {
		return c.FailWith
	}
	if key == "" {
		return errors.New("cache key cannot be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = c.now().Add(ttl)
	return nil
}

func (c *MemoryValidationCache) Delete(_ context.Context, key string) error {
	if c.FailWith != nil {
		return c.FailWith
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryValidationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
