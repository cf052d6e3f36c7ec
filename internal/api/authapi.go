package api

import (
	"context"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

// SignIn exchanges credentials for a session. The backend answers with a
// Set-Cookie carrying the session token, which do() persists to the session
// store; nothing else in the body is needed.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}
	return c.post(ctx, "/v1/auth/sign_in", req, nil)
}

// VerifyMagicLink exchanges a magic-link token for a session, the passwordless
// variant of SignIn.
func (c *Client) VerifyMagicLink(ctx context.Context, token string) error {
	req := struct {
		Token string `json:"token"`
	}{Token: token}
	return c.post(ctx, "/v1/auth/verify", req, nil)
}

// SignOut hits the session expiry route. The backend responds with an
// immediately-expired cookie; the local session file is cleared regardless
// of whether the request succeeded, so a dead backend cannot pin a session.
func (c *Client) SignOut(ctx context.Context) error {
	reqErr := c.post(ctx, "/v1/auth/expire", nil, nil)
	if c.sessions != nil {
		if err := c.sessions.Clear(); err != nil {
			return err
		}
	}
	return reqErr
}

// Me returns the session's user.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.get(ctx, "/v1/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
