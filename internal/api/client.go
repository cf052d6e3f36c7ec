// Package api is the hand-written client for the ManagerLab REST backend.
// It plays the role the generated OpenAPI client plays in the web app:
// session auth, typed errors, and the read-retry policy live here so the
// packages above it never touch HTTP directly.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Plabrum/managerlab-sub002/internal/auth"
	"github.com/Plabrum/managerlab-sub002/internal/retry"
)

// SessionCookie is the cookie carrying the backend-issued session token.
const SessionCookie = "mlab_session"

// Client talks to one ManagerLab backend on behalf of one session.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *auth.SessionStore
	logger   *zap.Logger
	retry    retry.Config
}

// New builds a Client. sessions may be nil for unauthenticated use (tests,
// sign-in bootstrapping).
func New(baseURL string, sessions *auth.SessionStore, logger *zap.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		sessions: sessions,
		logger:   logger,
		retry:    retry.DefaultConfig(),
	}
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// errorBody is the JSON shape the backend uses for failures.
type errorBody struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors"`
}

// do performs one request/response cycle with no retry. The session token,
// when present, travels as a cookie exactly as a browser would send it.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessions != nil {
		token, err := c.sessions.Load()
		if err != nil {
			return err
		}
		if token != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return netError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.errorFrom(resp)
	}

	// Sign-in style endpoints refresh the session cookie.
	if c.sessions != nil {
		for _, cookie := range resp.Cookies() {
			if cookie.Name == SessionCookie {
				if cookie.MaxAge < 0 || cookie.Value == "" {
					if err := c.sessions.Clear(); err != nil {
						return err
					}
				} else if err := c.sessions.Save(cookie.Value); err != nil {
					return err
				}
			}
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorFrom turns a non-2xx response into an *Error. A 401 also clears the
// stored session: the token is dead and keeping it would loop every
// subsequent call through the same failure.
func (c *Client) errorFrom(resp *http.Response) error {
	apiErr := &Error{
		Kind:       kindForStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
	}

	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Detail = body.Error
		apiErr.Fields = body.Errors
	}

	if apiErr.Kind == KindUnauthorized && c.sessions != nil {
		if err := c.sessions.Clear(); err != nil {
			c.logger.Warn("failed to clear session after 401", zap.Error(err))
		}
	}

	c.logger.Debug("request failed",
		zap.String("kind", string(apiErr.Kind)),
		zap.Int("status", resp.StatusCode),
	)
	return apiErr
}

// get performs a read request with the retry policy: up to three attempts on
// 503 or transport failure, everything else returned immediately.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return retry.Do(ctx, c.retry, func() error {
		err := c.do(ctx, http.MethodGet, path, nil, out)
		if err == nil {
			return nil
		}
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Retryable() {
			return err
		}
		return retry.Permanent(err)
	})
}

// post performs a mutation. Mutations are never retried: the client cannot
// know whether a failed attempt reached the server.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Get exposes the read path (with its retry policy) to sibling packages
// that own their endpoint shapes, such as dashboards.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.get(ctx, path, out)
}

// Post exposes the mutation path to sibling packages.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.post(ctx, path, body, out)
}
