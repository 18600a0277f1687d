package service

import (
	"context"

	"github.com/orc-hfg/uploader/config"
	"github.com/orc-hfg/uploader/internal/domain/pages"
	"github.com/orc-hfg/uploader/internal/ports"
)

// GuardOutcome is the route guard's verdict for one navigation.
type GuardOutcome int

const (
	// GuardSkip means the route is exempt (index page or skip-authentication meta).
	GuardSkip GuardOutcome = iota
	// GuardAllow means the checker confirmed the session.
	GuardAllow
	// GuardRedirect means the navigation must go to the localized index route.
	GuardRedirect
)

func (o GuardOutcome) String() string {
	switch o {
	case GuardSkip:
		return "skip"
	case GuardAllow:
		return "allow"
	case GuardRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// EvaluateGuard decides one navigation. The index route and routes flagged
// SkipAuthentication never consult the checker, which keeps the redirect target
// itself reachable. Both the server middleware and client-side navigation use it.
func EvaluateGuard(ctx context.Context, route pages.Route, checker ports.AuthenticationChecker) GuardOutcome {
	if route.IsIndex() || route.Meta.SkipAuthentication {
		return GuardSkip
	}
	if checker == nil || !checker.IsAuthenticated(ctx) {
		return GuardRedirect
	}
	return GuardAllow
}

// ValidatorChecker authenticates by calling the user-info endpoint.
type ValidatorChecker struct {
	Auth *AuthenticationService
}

// IsAuthenticated implements ports.AuthenticationChecker.
func (c ValidatorChecker) IsAuthenticated(ctx context.Context) bool {
	if c.Auth == nil {
		return false
	}
	return c.Auth.ValidateAuthentication(ctx)
}

// SessionStateChecker authenticates through the session state store.
type SessionStateChecker struct {
	State *SessionState
}

// IsAuthenticated implements ports.AuthenticationChecker.
func (c SessionStateChecker) IsAuthenticated(context.Context) bool {
	if c.State == nil {
		return false
	}
	return c.State.IsUserAuthenticated()
}

// CheckerFunc adapts a function to ports.AuthenticationChecker.
type CheckerFunc func(ctx context.Context) bool

// IsAuthenticated implements ports.AuthenticationChecker.
func (f CheckerFunc) IsAuthenticated(ctx context.Context) bool {
	if f == nil {
		return false
	}
	return f(ctx)
}

// CheckerFor selects the checker matching the configured guard mode.
func CheckerFor(mode config.GuardMode, auth *AuthenticationService) ports.AuthenticationChecker {
	if mode == config.GuardModeSessionState && auth != nil && auth.State() != nil {
		return SessionStateChecker{State: auth.State()}
	}
	return ValidatorChecker{Auth: auth}
}

var (
	_ ports.AuthenticationChecker = ValidatorChecker{}
	_ ports.AuthenticationChecker = SessionStateChecker{}
	_ ports.AuthenticationChecker = CheckerFunc(nil)
)
