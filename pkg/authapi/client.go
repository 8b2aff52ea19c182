// Package authapi talks to the platform's credential endpoints: login and
// token renewal. It knows nothing about persistence or scheduling; the
// session manager drives it.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/constants"
)

// Config controls how the client reaches the platform API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// Client issues login and refresh requests against the platform API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Credentials encapsulates the login inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse mirrors the token exchange response body. Both fields are
// required; a response missing either is treated as a failure.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Error conveys HTTP failures from the credential endpoints.
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("authapi: http %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// Rejected reports whether the server refused the credentials, as opposed
// to a transport-class failure such as a gateway error.
func (e *Error) Rejected() bool {
	return e.Status >= 400 && e.Status < 500
}

// ErrIncompleteTokenResponse marks a 2xx exchange whose body is missing
// the access or refresh token.
var ErrIncompleteTokenResponse = errors.New("authapi: token response missing access or refresh token")

// NewClient constructs a Client with sane defaults.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("authapi: base url required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = constants.DefaultUserAgent
	}
	return &Client{
		baseURL:    strings.TrimSuffix(base, "/"),
		httpClient: client,
		userAgent:  ua,
	}, nil
}

// Login exchanges user credentials for an access/refresh token pair.
func (c *Client) Login(ctx context.Context, creds Credentials) (TokenResponse, error) {
	if strings.TrimSpace(creds.Email) == "" || strings.TrimSpace(creds.Password) == "" {
		return TokenResponse{}, errors.New("authapi: email and password required")
	}
	return c.post(ctx, constants.AuthLoginPath, creds)
}

// Refresh swaps a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return TokenResponse{}, errors.New("authapi: refresh token required")
	}
	ctx, cancel := context.WithTimeout(ctx, constants.TokenRefreshTimeout)
	defer cancel()
	return c.post(ctx, constants.AuthRefreshPath, refreshRequest{RefreshToken: refreshToken})
}

func (c *Client) post(ctx context.Context, path string, payload any) (TokenResponse, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return TokenResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return TokenResponse{}, err
	}
	req.Header.Set("Content-Type", constants.ContentTypeJSON)
	req.Header.Set("Accept", constants.ContentTypeJSON)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TokenResponse{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenResponse{}, err
	}
	if resp.StatusCode >= 400 {
		return TokenResponse{}, &Error{Status: resp.StatusCode, Body: string(body)}
	}

	var tokens TokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return TokenResponse{}, fmt.Errorf("authapi: malformed token response: %w", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return TokenResponse{}, ErrIncompleteTokenResponse
	}
	return tokens, nil
}
