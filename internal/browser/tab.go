// Package browser models one browser tab of the uploader: a cookie jar, the
// session state store and an authentication client, plus client-side
// navigation through the route guard. The CLI and end-to-end tests drive it.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/orc-hfg/uploader/config"
	"github.com/orc-hfg/uploader/internal/adapters/authinfo"
	"github.com/orc-hfg/uploader/internal/adapters/cookies"
	domainauth "github.com/orc-hfg/uploader/internal/domain/auth"
	"github.com/orc-hfg/uploader/internal/domain/pages"
	apperrors "github.com/orc-hfg/uploader/internal/errors"
	"github.com/orc-hfg/uploader/internal/observability/metrics"
	"github.com/orc-hfg/uploader/internal/observability/statsd"
	"github.com/orc-hfg/uploader/internal/ports"
	"github.com/orc-hfg/uploader/internal/service"
)

// Sign-in form messages shown inline on the index page.
var (
	InvalidCredentialsMessages = map[pages.Locale]string{
		pages.LocaleDE: "Die Anmeldedaten sind ungültig.",
		pages.LocaleEN: "The credentials are invalid.",
	}
	SignInFailedMessages = map[pages.Locale]string{
		pages.LocaleDE: "Die Anmeldung ist fehlgeschlagen.",
		pages.LocaleEN: "Sign-in failed.",
	}
)

// Options configures a Tab.
type Options struct {
	// AppURL is the absolute app base URL, e.g. "http://localhost:3000/uploader".
	AppURL string
	Auth   config.AuthenticationConfig

	// GuardMode selects the client-side checker; defaults to validate.
	GuardMode     config.GuardMode
	DefaultLocale pages.Locale

	Cache    ports.ValidationCache // Optional
	CacheTTL time.Duration         // Optional

	Logger  *slog.Logger // Optional
	Metrics statsd.Sink  // Optional
}

// Page is the tab's current location.
type Page struct {
	// Path is app-relative, e.g. "/de/projekte".
	Path   string
	Status int
	Document
}

// Tab is a single browsing context. Its methods are safe for concurrent use,
// but navigations are serialized like in a browser.
type Tab struct {
	app     *url.URL
	jar     *cookies.JarStore
	client  *http.Client
	state   *service.SessionState
	auth    *service.AuthenticationService
	mode    config.GuardMode
	logger  *slog.Logger
	metrics statsd.Sink

	navMu sync.Mutex

	mu          sync.Mutex
	page        Page
	locale      pages.Locale
	formMessage string
}

// New opens a tab with an empty cookie jar.
func New(opts Options) (*Tab, error) {
	app, err := url.Parse(strings.TrimRight(opts.AppURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse app URL: %w", err)
	}
	if !app.IsAbs() {
		return nil, fmt.Errorf("app URL %q must be absolute", opts.AppURL)
	}

	jar, err := cookies.NewJarStore(opts.Auth.ServerURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Auth.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := jar.HTTPClient(timeout)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userInfoURL, err := url.JoinPath(opts.Auth.ServerURL, opts.Auth.UserInfoPath)
	if err != nil {
		return nil, fmt.Errorf("build user info URL: %w", err)
	}
	info, err := authinfo.New(authinfo.Options{HTTP: client, URL: userInfoURL, Logger: logger})
	if err != nil {
		return nil, err
	}

	state := service.NewSessionState(service.SessionStateOptions{
		Cookies:           jar,
		CSRFCookieName:    opts.Auth.CSRFCookieName,
		SessionCookieName: opts.Auth.SessionCookieName,
		Logger:            logger,
	})
	auth, err := service.NewAuthenticationService(service.AuthenticationServiceOptions{
		Config:   opts.Auth,
		HTTP:     client,
		Cookies:  jar,
		UserInfo: info,
		Cache:    opts.Cache,
		CacheTTL: opts.CacheTTL,
		State:    state,
		Logger:   logger,
		Metrics:  opts.Metrics,
	})
	if err != nil {
		return nil, err
	}

	locale := opts.DefaultLocale
	if locale == "" {
		locale = pages.LocaleDE
	}
	mode := opts.GuardMode
	if mode == "" {
		mode = config.GuardModeValidate
	}

	return &Tab{
		app:     app,
		jar:     jar,
		client:  client,
		state:   state,
		auth:    auth,
		mode:    mode,
		logger:  logger.With("component", "browser_tab"),
		metrics: statsd.OrNop(opts.Metrics),
		locale:  locale,
	}, nil
}

// Auth returns the tab's authentication client.
func (t *Tab) Auth() *service.AuthenticationService { return t.auth }

// State returns the tab's session state store.
func (t *Tab) State() *service.SessionState { return t.state }

// Cookie returns the value of a cookie held for the authentication server.
func (t *Tab) Cookie(name string) string { return t.jar.Get(name) }

// ClearCookies empties the jar and forgets local session state.
func (t *Tab) ClearCookies() error {
	t.state.Reset()
	return t.jar.Clear()
}

// Current returns the page the tab is showing.
func (t *Tab) Current() Page {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}

// Locale returns the locale of the current page.
func (t *Tab) Locale() pages.Locale {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.locale
}

// FormMessage returns the inline sign-in error, empty after a successful attempt.
func (t *Tab) FormMessage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.formMessage
}

// Navigate performs a client-side navigation to an app-relative path. Guarded
// routes are checked before the request; the server runs its own guard again.
func (t *Tab) Navigate(ctx context.Context, path string) (Page, error) {
	t.navMu.Lock()
	defer t.navMu.Unlock()
	return t.navigate(ctx, path)
}

func (t *Tab) navigate(ctx context.Context, path string) (Page, error) {
	rel := "/" + strings.TrimPrefix(path, "/")

	if match, ok := pages.Resolve(rel); ok {
		outcome := service.EvaluateGuard(ctx, match.Route, service.CheckerFor(t.mode, t.auth))
		metrics.EmitGuardDecision(t.metrics, match.Route.Name, string(t.mode), outcome.String())
		if outcome == service.GuardRedirect {
			rel = pages.IndexPath(match.Locale)
			t.logger.DebugContext(ctx, "client guard redirect", "from", path, "to", rel)
		}
	}

	target := t.app.JoinPath(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("build navigation request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := t.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("navigate to %s: %w", rel, err)
	}
	defer resp.Body.Close()

	doc, err := parseDocument(resp.Body)
	if err != nil {
		return Page{}, fmt.Errorf("parse %s: %w", rel, err)
	}

	page := Page{
		Path:     strings.TrimPrefix(resp.Request.URL.Path, t.app.Path),
		Status:   resp.StatusCode,
		Document: doc,
	}

	t.mu.Lock()
	t.page = page
	if locale, ok := pages.ParseLocale(doc.Lang); ok {
		t.locale = locale
	} else {
		t.locale = pages.LocaleOf(page.Path, t.locale)
	}
	t.mu.Unlock()
	return page, nil
}

// SignIn runs the two-step handshake and, on success, opens the projects page.
// On failure the tab stays where it is and FormMessage holds the localized error.
func (t *Tab) SignIn(ctx context.Context, emailOrLogin, password string) error {
	t.navMu.Lock()
	defer t.navMu.Unlock()

	locale := t.Locale()
	if err := t.auth.SignIn(ctx, emailOrLogin, password); err != nil {
		msg := SignInFailedMessages[locale]
		if apperrors.IsUnauthorized(err) {
			msg = InvalidCredentialsMessages[locale]
		}
		t.setFormMessage(msg)
		t.logger.InfoContext(ctx, "sign-in rejected", "status", apperrors.StatusCodeOf(err))
		return err
	}

	t.setFormMessage("")
	_, err := t.navigate(ctx, pages.PathFor(pages.NameProjects, locale, ""))
	return err
}

// SignOut ends the session and returns to the sign-in page.
func (t *Tab) SignOut(ctx context.Context) error {
	t.navMu.Lock()
	defer t.navMu.Unlock()

	signOutErr := t.auth.SignOut(ctx)
	if _, err := t.navigate(ctx, pages.IndexPath(t.Locale())); err != nil {
		return errors.Join(signOutErr, err)
	}
	return signOutErr
}

// CurrentUser asks the authentication server who the tab is signed in as.
func (t *Tab) CurrentUser(ctx context.Context) (domainauth.User, error) {
	return t.auth.CurrentUser(ctx)
}

func (t *Tab) setFormMessage(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.formMessage = msg
}
