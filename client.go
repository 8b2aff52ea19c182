package vayd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/authapi"
	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/constants"
	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/session"
)

// Client provides authenticated access to the platform API. Every call
// goes through the session transport, which attaches the current access
// token and replays a request once after a renewed 401.
type Client struct {
	config  *Config
	session *session.Manager
	http    *http.Client
}

// NewClient creates a new client with the provided configuration options.
// If no options are provided, default configuration will be used.
func NewClient(opts ...ConfigOption) (*Client, error) {
	config := NewConfig(opts...)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	api, err := authapi.NewClient(authapi.Config{
		BaseURL:    config.BaseURL,
		HTTPClient: config.HTTPClient,
		UserAgent:  config.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	mgr, err := session.NewManager(session.ManagerConfig{
		Store:        config.TokenStore,
		API:          api,
		Broadcaster:  config.Broadcaster,
		RefreshSkew:  config.RefreshSkew,
		Now:          config.Now,
		Logger:       config.Logger,
		OnSessionEnd: config.OnSessionEnd,
	})
	if err != nil {
		return nil, err
	}

	base := http.RoundTripper(http.DefaultTransport)
	if config.HTTPClient != nil && config.HTTPClient.Transport != nil {
		base = config.HTTPClient.Transport
	}

	return &Client{
		config:  config,
		session: mgr,
		http: &http.Client{
			Timeout:   config.Timeout,
			Transport: &session.Transport{Base: base, Manager: mgr},
		},
	}, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.session.Login(ctx, authapi.Credentials{Email: email, Password: password})
}

// Logout ends the session in this and every other open context.
func (c *Client) Logout(ctx context.Context) {
	c.session.Logout(ctx)
}

// IsAuthenticated reports whether a session is present.
func (c *Client) IsAuthenticated() bool {
	return c.session.IsAuthenticated()
}

// Session exposes the session manager for advanced usage.
func (c *Client) Session() *session.Manager {
	return c.session
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *Config {
	return c.config
}

// Close detaches the client from the logout channel without ending the
// session for other contexts.
func (c *Client) Close() {
	c.session.Close()
}

// APIError is a non-success response from a platform endpoint.
type APIError struct {
	Status int
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vayd: %s: http %d: %s", e.Path, e.Status, strings.TrimSpace(e.Body))
}

// doJSON issues one JSON request through the session transport and
// decodes the response into out when it is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrapf(err, "encode %s request", path)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return errors.Wrapf(err, "build %s request", path)
	}
	if payload != nil {
		req.Header.Set("Content-Type", constants.ContentTypeJSON)
	}
	req.Header.Set("Accept", constants.ContentTypeJSON)
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "call %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "read %s response", path)
	}
	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Path: path, Body: string(data)}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Wrapf(err, "decode %s response", path)
		}
	}
	return nil
}
