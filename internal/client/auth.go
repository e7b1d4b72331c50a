package client

import (
	"context"
	"errors"
	"net/http"
)

var ErrPasswordMismatch = errors.New("client: password confirmation does not match")

// User is the signed-in account as the API reports it.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	HasProfile    bool   `json:"has_profile"`
	HasActivePlan bool   `json:"has_active_plan"`
}

type authResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Signup creates an account and stores its token. A confirmation mismatch
// is rejected before any request is sent.
func (c *Client) Signup(ctx context.Context, name, email, password, confirmation string) (User, error) {
	if password != confirmation {
		return User{}, ErrPasswordMismatch
	}
	body := map[string]any{"user": map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": confirmation,
	}}
	return c.authenticate(ctx, "/api/v1/auth/signup", body)
}

func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	body := map[string]any{"user": map[string]string{"email": email, "password": password}}
	return c.authenticate(ctx, "/api/v1/auth/login", body)
}

// Logout revokes the token remotely when possible and always clears it
// locally. Only a failure to clear the local token is returned.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/api/v1/auth/logout", nil, nil); err != nil {
		c.log.Sugar().Debugw("remote logout failed", "error", err)
	}
	return c.tokens.Clear()
}

func (c *Client) FetchCurrentUser(ctx context.Context) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return User{}, err
	}
	if err := c.tokens.SetToken(resp.Token); err != nil {
		return User{}, err
	}
	return resp.User, nil
}
