package client

import (
	"context"
	"time"
)

// LoginResponse carries a session token and its expiry.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.post(ctx, "/api/auth/register", body, nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp LoginResponse
	if err := c.post(ctx, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates the client's session token.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/api/auth/logout", nil, nil)
}
