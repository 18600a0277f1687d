package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/orc-hfg/uploader/config"
	domainauth "github.com/orc-hfg/uploader/internal/domain/auth"
	apperrors "github.com/orc-hfg/uploader/internal/errors"
	"github.com/orc-hfg/uploader/internal/observability/metrics"
	"github.com/orc-hfg/uploader/internal/observability/statsd"
	"github.com/orc-hfg/uploader/internal/ports"
)

// TracerName identifies spans emitted by the authentication client.
const TracerName = "github.com/orc-hfg/uploader/internal/service"

// Operation names used in structured error messages.
const (
	opSessionInitialization = "Session initialization"
	opSignIn                = "Sign-in"
	opSignOut               = "Sign-out"
	opUserInfo              = "User info"
)

// MsgCSRFTokenRequired is returned when the session-init call left no CSRF cookie behind.
const MsgCSRFTokenRequired = "A valid CSRF token is required for authentication."

const maxErrorBodyBytes = 64 << 10

// AuthenticationServiceOptions groups dependencies for AuthenticationService.
type AuthenticationServiceOptions struct {
	Config   config.AuthenticationConfig // Required: endpoints and cookie names
	HTTP     ports.HTTPDoer              // Required: sends cookies of the owning context
	Cookies  ports.CookieStore           // Required: reads the CSRF and session cookies
	UserInfo ports.UserInfoSource        // Required: "who am I" endpoint
	Cache    ports.ValidationCache       // Optional: remembers positive validations
	CacheTTL time.Duration               // Optional: defaults to 30s when Cache is set
	State    *SessionState               // Optional: armed after sign-in, reset on sign-out
	Logger   *slog.Logger                // Optional: structured logger
	Metrics  statsd.Sink                 // Optional: metrics sink
	Tracer   trace.Tracer                // Optional: defaults to the global provider
}

// AuthenticationService drives the Madek cookie/CSRF handshake for one execution context.
type AuthenticationService struct {
	cfg      config.AuthenticationConfig
	http     ports.HTTPDoer
	cookies  ports.CookieStore
	userInfo ports.UserInfoSource
	cache    ports.ValidationCache
	cacheTTL time.Duration
	state    *SessionState
	logger   *slog.Logger
	metrics  statsd.Sink
	tracer   trace.Tracer
}

// NewAuthenticationService constructs a new AuthenticationService.
func NewAuthenticationService(opts AuthenticationServiceOptions) (*AuthenticationService, error) {
	if opts.HTTP == nil {
		return nil, errors.New("HTTPDoer is required")
	}
	if opts.Cookies == nil {
		return nil, errors.New("CookieStore is required")
	}
	if opts.UserInfo == nil {
		return nil, errors.New("UserInfoSource is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("authentication config: %w", err)
	}
	if _, err := url.Parse(opts.Config.ServerURL); err != nil {
		return nil, fmt.Errorf("parse server URL: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &AuthenticationService{
		cfg:      opts.Config,
		http:     opts.HTTP,
		cookies:  opts.Cookies,
		userInfo: opts.UserInfo,
		cache:    opts.Cache,
		cacheTTL: ttl,
		state:    opts.State,
		logger:   logger.With("component", "authentication_service"),
		metrics:  statsd.OrNop(opts.Metrics),
		tracer:   tracer,
	}, nil
}

// MustNewAuthenticationService constructs a new AuthenticationService and panics on error.
// Use this when you want fail-fast behavior during application startup.
func MustNewAuthenticationService(opts AuthenticationServiceOptions) *AuthenticationService {
	svc, err := NewAuthenticationService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return svc
}

// State returns the attached session state, if any.
func (s *AuthenticationService) State() *SessionState { return s.state }

// Config returns the authentication configuration in use.
func (s *AuthenticationService) Config() config.AuthenticationConfig { return s.cfg }

func (s *AuthenticationService) endpoint(segments ...string) *url.URL {
	base, err := url.Parse(s.cfg.ServerURL)
	if err != nil {
		// Validated in the constructor.
		return &url.URL{}
	}
	return base.JoinPath(segments...)
}

// BuildAuthenticationSystemURL returns the session-init URL that mints the CSRF cookie.
func (s *AuthenticationService) BuildAuthenticationSystemURL(emailOrLogin string) string {
	u := s.endpoint(s.cfg.BasePath, s.cfg.SignInPathName, s.cfg.SystemPathName)
	q := url.Values{}
	q.Set(s.cfg.EmailOrLoginParameter, emailOrLogin)
	u.RawQuery = q.Encode()
	return u.String()
}

// BuildSignInURL returns the credential submission URL.
func (s *AuthenticationService) BuildSignInURL(emailOrLogin string) string {
	u := s.endpoint(
		s.cfg.BasePath,
		s.cfg.SignInPathName,
		s.cfg.SystemPathName,
		s.cfg.DefaultSystemName,
		s.cfg.DefaultSystemName,
		s.cfg.SignInPathName,
	)
	q := url.Values{}
	q.Set(s.cfg.EmailOrLoginParameter, emailOrLogin)
	q.Set(s.cfg.ReturnToParameter, s.cfg.AppPathName)
	u.RawQuery = q.Encode()
	return u.String()
}

// BuildSignOutURL returns the sign-out URL.
func (s *AuthenticationService) BuildSignOutURL() string {
	return s.endpoint(s.cfg.BasePath, s.cfg.SignOutPathName).String()
}

// BuildUserInfoURL returns the "who am I" URL.
func (s *AuthenticationService) BuildUserInfoURL() string {
	return s.endpoint(s.cfg.UserInfoPath).String()
}

// HasValidCsrfToken reports whether the CSRF cookie is present and non-empty.
func (s *AuthenticationService) HasValidCsrfToken() bool {
	return s.cookies.Get(s.cfg.CSRFCookieName) != ""
}

// ValidateAuthentication reports whether the current cookies identify a live session.
// It never returns an error: any failure of the user-info call yields false.
// Without a CSRF token no network call is made.
func (s *AuthenticationService) ValidateAuthentication(ctx context.Context) bool {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "auth.ValidateAuthentication")
	defer span.End()

	if !s.HasValidCsrfToken() {
		span.SetAttributes(attribute.Bool("auth.valid", false), attribute.String("auth.reason", "missing_csrf"))
		s.emit(metrics.AuthMetric{Operation: metrics.OperationValidation, Result: metrics.ResultInvalid, Duration: time.Since(start)})
		return false
	}

	key := s.cacheKey()
	if s.cachedValid(ctx, key) {
		span.SetAttributes(attribute.Bool("auth.valid", true), attribute.Bool("auth.cached", true))
		s.emit(metrics.AuthMetric{Operation: metrics.OperationValidation, Result: metrics.ResultSuccess, Duration: time.Since(start), Cached: true})
		return true
	}

	if _, err := s.userInfo.GetAuthInfo(ctx); err != nil {
		s.logger.DebugContext(ctx, "session validation failed", "error", err)
		span.SetAttributes(attribute.Bool("auth.valid", false))
		s.emit(metrics.AuthMetric{Operation: metrics.OperationValidation, Result: metrics.ResultInvalid, Duration: time.Since(start), Err: err})
		return false
	}

	s.rememberValid(ctx, key)
	span.SetAttributes(attribute.Bool("auth.valid", true))
	s.emit(metrics.AuthMetric{Operation: metrics.OperationValidation, Result: metrics.ResultSuccess, Duration: time.Since(start)})
	return true
}

// CurrentUser returns the identity behind the current session.
func (s *AuthenticationService) CurrentUser(ctx context.Context) (domainauth.User, error) {
	user, err := s.userInfo.GetAuthInfo(ctx)
	if err != nil {
		return domainauth.User{}, apperrors.FromOperation(err, opUserInfo)
	}
	return user, nil
}

type signInRequest struct {
	Password string `json:"password"`
}

// SignIn performs the two-step handshake: a GET that mints the CSRF cookie, then a
// POST carrying the token in the CSRF header and the password in a JSON body.
// On success the attached SessionState is armed for the next navigation.
func (s *AuthenticationService) SignIn(ctx context.Context, emailOrLogin, password string) (err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "auth.SignIn")
	defer func() {
		s.finish(span, metrics.OperationSignIn, start, err)
	}()

	if err = s.initializeSession(ctx, emailOrLogin); err != nil {
		return err
	}

	token := s.cookies.Get(s.cfg.CSRFCookieName)
	if token == "" {
		return apperrors.Forbidden(MsgCSRFTokenRequired)
	}

	body, err := json.Marshal(signInRequest{Password: password})
	if err != nil {
		return apperrors.FromOperation(err, opSignIn)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BuildSignInURL(emailOrLogin), bytes.NewReader(body))
	if err != nil {
		return apperrors.FromOperation(err, opSignIn)
	}
	req.Header.Set(s.cfg.CSRFHeaderName, token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if err = s.do(req); err != nil {
		return apperrors.FromOperation(err, opSignIn)
	}

	if s.state != nil {
		s.state.MarkSignedIn()
	}
	s.logger.InfoContext(ctx, "signed in", "login", emailOrLogin)
	return nil
}

func (s *AuthenticationService) initializeSession(ctx context.Context, emailOrLogin string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BuildAuthenticationSystemURL(emailOrLogin), nil)
	if err != nil {
		return apperrors.FromOperation(err, opSessionInitialization)
	}
	req.Header.Set("Accept", "application/json")
	if err := s.do(req); err != nil {
		return apperrors.FromOperation(err, opSessionInitialization)
	}
	return nil
}

// SignOut calls the sign-out endpoint and then, whatever the outcome, clears local
// state: the CSRF cookie and optionally the session cookie per the configured
// policy, the attached SessionState, and any cached validation.
func (s *AuthenticationService) SignOut(ctx context.Context) (err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "auth.SignOut")
	defer func() {
		s.finish(span, metrics.OperationSignOut, start, err)
	}()

	key := s.cacheKey()
	callErr := s.callSignOut(ctx)
	s.clearLocalState(ctx, key)

	if callErr != nil {
		return apperrors.FromOperation(callErr, opSignOut)
	}
	s.logger.InfoContext(ctx, "signed out")
	return nil
}

func (s *AuthenticationService) callSignOut(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BuildSignOutURL(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/html")
	return s.do(req)
}

func (s *AuthenticationService) clearLocalState(ctx context.Context, key string) {
	if s.cfg.SignOut.ClearCSRFCookie {
		s.cookies.Delete(s.cfg.CSRFCookieName)
	}
	if s.cfg.SignOut.ClearSessionCookie {
		s.cookies.Delete(s.cfg.SessionCookieName)
	}
	if s.state != nil {
		s.state.Reset()
	}
	if s.cache != nil && key != "" {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to drop cached validation", "error", err)
		}
	}
}

// Login is the older name of SignIn.
func (s *AuthenticationService) Login(ctx context.Context, emailOrLogin, password string) error {
	return s.SignIn(ctx, emailOrLogin, password)
}

// Logout is the older name of SignOut.
func (s *AuthenticationService) Logout(ctx context.Context) error {
	return s.SignOut(ctx)
}

// do sends req and turns any non-2xx answer into an *apperrors.ResponseError.
func (s *AuthenticationService) do(req *http.Request) error {
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return responseError(req, resp)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))
	return nil
}

type statusBody struct {
	StatusMessage string `json:"statusMessage"`
}

func responseError(req *http.Request, resp *http.Response) *apperrors.ResponseError {
	out := &apperrors.ResponseError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil || len(raw) == 0 {
		return out
	}
	var body statusBody
	if json.Unmarshal(raw, &body) == nil {
		out.Message = body.StatusMessage
	}
	return out
}

// cacheKey digests the session cookie; it is empty when there is nothing to key on.
func (s *AuthenticationService) cacheKey() string {
	if s.cache == nil {
		return ""
	}
	session := s.cookies.Get(s.cfg.SessionCookieName)
	if session == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(session))
	return hex.EncodeToString(sum[:])
}

func (s *AuthenticationService) cachedValid(ctx context.Context, key string) bool {
	if s.cache == nil || key == "" {
		return false
	}
	hit, err := s.cache.Lookup(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "validation cache lookup failed", "error", err)
		return false
	}
	return hit
}

func (s *AuthenticationService) rememberValid(ctx context.Context, key string) {
	if s.cache == nil || key == "" {
		return
	}
	if err := s.cache.Store(ctx, key, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "validation cache store failed", "error", err)
	}
}

func (s *AuthenticationService) finish(span trace.Span, operation string, start time.Time, err error) {
	defer span.End()

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Int("http.status_code", apperrors.StatusCodeOf(err)))
		s.logger.Warn("authentication operation failed", "operation", operation, "error", err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	s.emit(metrics.AuthMetric{Operation: operation, Result: result, Duration: time.Since(start), Err: err})
}

func (s *AuthenticationService) emit(m metrics.AuthMetric) {
	metrics.EmitAuthOperation(s.metrics, m)
}
