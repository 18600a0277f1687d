// Package authinfo calls the Madek "who am I" endpoint.
package authinfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	domainauth "github.com/orc-hfg/uploader/internal/domain/auth"
	apperrors "github.com/orc-hfg/uploader/internal/errors"
	"github.com/orc-hfg/uploader/internal/ports"
)

const maxBodyBytes = 1 << 20

// ErrMissingUser is returned when a 2xx response carries no user id.
var ErrMissingUser = errors.New("auth info response has no user id")

// Options configures a Client.
type Options struct {
	HTTP   ports.HTTPDoer // Required: usually an *http.Client with a cookie jar
	URL    string         // Required: absolute user-info URL
	Logger *slog.Logger   // Optional
}

// Client implements ports.UserInfoSource over HTTP.
type Client struct {
	http   ports.HTTPDoer
	url    string
	logger *slog.Logger

	// cookieHeader is forwarded verbatim when the client acts for an incoming request.
	cookieHeader string
}

var _ ports.UserInfoSource = (*Client)(nil)

// New constructs a user-info client.
func New(opts Options) (*Client, error) {
	if opts.HTTP == nil {
		return nil, errors.New("HTTPDoer is required")
	}
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse user info URL: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("user info URL %q must be absolute", opts.URL)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{http: opts.HTTP, url: u.String(), logger: logger.With("component", "authinfo")}, nil
}

// ForRequest returns a copy that forwards the cookies of an incoming request,
// so a server-side check sees the same session as the browser.
func (c *Client) ForRequest(r *http.Request) *Client {
	cp := *c
	cp.cookieHeader = r.Header.Get("Cookie")
	return &cp
}

// GetAuthInfo fetches the current user. Any non-2xx answer is an *apperrors.ResponseError.
func (c *Client) GetAuthInfo(ctx context.Context) (domainauth.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domainauth.User{}, fmt.Errorf("build auth info request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cookieHeader != "" {
		req.Header.Set("Cookie", c.cookieHeader)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domainauth.User{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domainauth.User{}, fmt.Errorf("read auth info response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respErr := &apperrors.ResponseError{Method: req.Method, URL: c.url, StatusCode: resp.StatusCode}
		var status struct {
			StatusMessage string `json:"statusMessage"`
		}
		if json.Unmarshal(body, &status) == nil {
			respErr.Message = status.StatusMessage
		}
		return domainauth.User{}, respErr
	}

	var info domainauth.AuthInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return domainauth.User{}, fmt.Errorf("decode auth info: %w", err)
	}
	if info.User.IsZero() {
		return domainauth.User{}, ErrMissingUser
	}
	c.logger.DebugContext(ctx, "auth info fetched", "user_id", info.User.ID)
	return info.User, nil
}
