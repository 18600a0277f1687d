package service

import (
	"log/slog"
	"sync"

	"github.com/orc-hfg/uploader/internal/ports"
)

// SessionStateOptions groups dependencies for SessionState.
type SessionStateOptions struct {
	Cookies           ports.CookieStore // Required: cookies of the owning context
	CSRFCookieName    string            // Required
	SessionCookieName string            // Required
	Logger            *slog.Logger      // Optional: structured logger
}

// SessionState tracks the client-side authentication status of one tab or request.
//
// It is advisory only: protected API endpoints verify the session themselves.
// One instance exists per execution context; it is never shared process-wide.
type SessionState struct {
	cookies           ports.CookieStore
	csrfCookieName    string
	sessionCookieName string
	logger            *slog.Logger

	mu              sync.Mutex
	isLoggedIn      bool
	hasJustSignedIn bool
}

// NewSessionState constructs a SessionState with both flags false.
func NewSessionState(opts SessionStateOptions) *SessionState {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionState{
		cookies:           opts.Cookies,
		csrfCookieName:    opts.CSRFCookieName,
		sessionCookieName: opts.SessionCookieName,
		logger:            logger.With("component", "session_state"),
	}
}

// IsLoggedIn returns the result of the last cookie-based check.
func (s *SessionState) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoggedIn
}

// HasJustSignedIn reports whether the one-shot post-sign-in flag is pending.
func (s *SessionState) HasJustSignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasJustSignedIn
}

// MarkSignedIn arms the one-shot flag so the first navigation after sign-in
// succeeds even before the new cookies are observable.
func (s *SessionState) MarkSignedIn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasJustSignedIn = true
	s.isLoggedIn = true
}

// IsUserAuthenticated consumes a pending post-sign-in flag and returns true without
// reading cookies. Otherwise it requires both the CSRF and session cookies to be
// non-empty and records the outcome in IsLoggedIn.
func (s *SessionState) IsUserAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("checking authentication status", "has_just_signed_in", s.hasJustSignedIn)

	if s.hasJustSignedIn {
		s.hasJustSignedIn = false
		return true
	}

	s.isLoggedIn = s.hasValidCookies()
	s.logger.Debug("authentication status checked", "is_logged_in", s.isLoggedIn)
	return s.isLoggedIn
}

// Reset clears both flags, e.g. after sign-out.
func (s *SessionState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoggedIn = false
	s.hasJustSignedIn = false
}

func (s *SessionState) hasValidCookies() bool {
	if s.cookies == nil {
		return false
	}
	return s.cookies.Get(s.csrfCookieName) != "" && s.cookies.Get(s.sessionCookieName) != ""
}
