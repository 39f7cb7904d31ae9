package api

import (
	"context"
	"net/http"

	"zask/internal/domain"
)

// FetchSession returns the current login session. A nil session means the
// user is signed out.
func (c *Client) FetchSession(ctx context.Context) (*domain.Session, error) {
	var out domain.Session
	if err := c.do(ctx, http.MethodGet, "/auth/session", nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, nil
	}
	return &out, nil
}

// SignOut ends the session on the server
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/signout", nil, nil)
}

// SignInURL is where a browser starts the Google sign-in flow
func (c *Client) SignInURL() string {
	return c.baseURL + "/auth/signin/google"
}
