package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
}

// Login exchanges credentials for a bearer token and persists it in the
// credential store on success.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("login: %w: empty token in response", ErrTransient)
	}
	if err := c.creds.Save(out.AccessToken); err != nil {
		return "", fmt.Errorf("persist token: %w", err)
	}
	return out.AccessToken, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", req, nil)
}

// Activate confirms a new account via the emailed activation token.
func (c *Client) Activate(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodGet, "/auth/activate/"+url.PathEscape(token), nil, nil)
}
