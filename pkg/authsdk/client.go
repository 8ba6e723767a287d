package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the accounts service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new accounts service client with a 10s request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new account holding the default role.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", req)
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges a username and password for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the account the token was issued to.
func (c *Client) Me(ctx context.Context, token string) (*AccountResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		return nil, err
	}

	var out AccountResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
