package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/orc-hfg/uploader/config"
	"github.com/orc-hfg/uploader/internal/adapters/authinfo"
	"github.com/orc-hfg/uploader/internal/adapters/cookies"
	"github.com/orc-hfg/uploader/internal/domain/pages"
	"github.com/orc-hfg/uploader/internal/observability/metrics"
	"github.com/orc-hfg/uploader/internal/observability/statsd"
	"github.com/orc-hfg/uploader/internal/ports"
	"github.com/orc-hfg/uploader/internal/service"
)

// RequestAuthenticator builds the authentication client for one incoming request:
// cookies come from the request, and the user-info call forwards them.
type RequestAuthenticator struct {
	Config       config.AuthenticationConfig
	HTTP         ports.HTTPDoer
	UserInfo     *authinfo.Client
	Cache        ports.ValidationCache
	CacheTTL     time.Duration
	CookieDomain string
	Logger       *slog.Logger
	Metrics      statsd.Sink
}

// ForRequest returns a request-scoped AuthenticationService.
func (a *RequestAuthenticator) ForRequest(w http.ResponseWriter, r *http.Request) (*service.AuthenticationService, error) {
	if a.UserInfo == nil {
		return nil, errors.New("user info client is required")
	}
	store := cookies.NewRequestStore(w, r, a.CookieDomain)
	state := service.NewSessionState(service.SessionStateOptions{
		Cookies:           store,
		CSRFCookieName:    a.Config.CSRFCookieName,
		SessionCookieName: a.Config.SessionCookieName,
		Logger:            a.Logger,
	})
	return service.NewAuthenticationService(service.AuthenticationServiceOptions{
		Config:   a.Config,
		HTTP:     a.HTTP,
		Cookies:  store,
		UserInfo: a.UserInfo.ForRequest(r),
		Cache:    a.Cache,
		CacheTTL: a.CacheTTL,
		State:    state,
		Logger:   a.Logger,
		Metrics:  a.Metrics,
	})
}

// GuardConfig configures RouteGuard.
type GuardConfig struct {
	Mode          config.GuardMode
	Authenticator *RequestAuthenticator
	PathPrefix    string
	DefaultLocale pages.Locale
	Metrics       statsd.Sink
	Logger        *slog.Logger
}

// RouteGuard returns a middleware that gates page routes. Index and
// skip-authentication routes pass untouched; unknown paths fall through to
// the error page; everything else needs an authenticated session or is
// redirected (302) to the localized sign-in page.
func RouteGuard(cfg GuardConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "route_guard")
	sink := statsd.OrNop(cfg.Metrics)
	mode := cfg.Mode
	if mode == "" {
		mode = config.GuardModeValidate
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rel := strings.TrimPrefix(r.URL.Path, cfg.PathPrefix)
			match, ok := pages.Resolve(rel)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			checker := service.CheckerFunc(func(ctx context.Context) bool {
				if cfg.Authenticator == nil {
					return false
				}
				auth, err := cfg.Authenticator.ForRequest(w, r)
				if err != nil {
					logger.ErrorContext(ctx, "build request authenticator", "error", err)
					return false
				}
				return service.CheckerFor(mode, auth).IsAuthenticated(ctx)
			})

			outcome := service.EvaluateGuard(r.Context(), match.Route, checker)
			metrics.EmitGuardDecision(sink, match.Route.Name, string(mode), outcome.String())

			if outcome == service.GuardRedirect {
				target := cfg.PathPrefix + pages.IndexPath(match.Locale)
				logger.DebugContext(r.Context(), "redirecting unauthenticated navigation",
					"path", r.URL.Path, "target", target)
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
