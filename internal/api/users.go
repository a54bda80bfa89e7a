package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"CareerNav/internal/backend"
	"CareerNav/internal/career"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var resp backend.TokenResponse
	err := c.do(ctx, call{
		name:        "users.login",
		method:      http.MethodPost,
		path:        "/users/login",
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("%w: login response without access_token", backend.ErrMalformedResponse)
	}
	return resp.AccessToken, nil
}

// Signup registers a user.
func (c *Client) Signup(ctx context.Context, name, email, password string) (career.User, error) {
	cl, err := jsonCall("users.signup", http.MethodPost, "/users/signup", backend.SignupRequest{
		Email: email, Password: password, Name: name,
	})
	if err != nil {
		return career.User{}, err
	}
	cl.auth = false

	var resp backend.User
	if err := c.do(ctx, cl, &resp); err != nil {
		return career.User{}, err
	}
	return backend.ToUser(resp)
}

// Me returns the profile for the stored token.
func (c *Client) Me(ctx context.Context) (career.User, error) {
	return c.me(ctx, "")
}

// MeWithToken returns the profile for a token that hasn't been stored yet.
func (c *Client) MeWithToken(ctx context.Context, token string) (career.User, error) {
	if token == "" {
		return career.User{}, ErrNotAuthenticated
	}
	return c.me(ctx, token)
}

func (c *Client) me(ctx context.Context, token string) (career.User, error) {
	var resp backend.User
	cl := call{name: "users.me", method: http.MethodGet, path: "/users/me", auth: true, token: token}
	if err := c.do(ctx, cl, &resp); err != nil {
		return career.User{}, err
	}
	return backend.ToUser(resp)
}

// UpdateMe changes the profile name and/or e-mail.
func (c *Client) UpdateMe(ctx context.Context, update backend.UserUpdateRequest) (career.User, error) {
	cl, err := jsonCall("users.update", http.MethodPut, "/users/me", update)
	if err != nil {
		return career.User{}, err
	}
	var resp backend.User
	if err := c.do(ctx, cl, &resp); err != nil {
		return career.User{}, err
	}
	return backend.ToUser(resp)
}

// ChangePassword changes the password of the logged-in user.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	cl, err := jsonCall("users.change_password", http.MethodPost, "/users/me/change-password", backend.PasswordChangeRequest{
		OldPassword: oldPassword, NewPassword: newPassword,
	})
	if err != nil {
		return err
	}
	return c.do(ctx, cl, nil)
}

// DeleteMe deletes the logged-in account.
func (c *Client) DeleteMe(ctx context.Context) error {
	return c.do(ctx, call{name: "users.delete", method: http.MethodDelete, path: "/users/me", auth: true}, nil)
}
