// Package vayd provides the Go client for the VAYD practice-operations
// platform: appointment scheduling, route optimization, intake forms and
// surveys, all reached through a shared HTTP client whose session manager
// transparently renews the access/refresh token pair.
package vayd

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/broadcast"
	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/constants"
	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/storage"
)

// Config holds all configuration options for the client.
type Config struct {
	// API configuration.
	BaseURL   string `json:"baseUrl,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`

	// HTTP configuration.
	Timeout    time.Duration `json:"timeout,omitempty"`
	HTTPClient *http.Client  `json:"-"`

	// Session configuration.
	RefreshSkew time.Duration         `json:"refreshSkew,omitempty"`
	TokenStore  storage.TokenStore    `json:"-"`
	Broadcaster broadcast.Broadcaster `json:"-"`

	// Observability.
	Logger zerolog.Logger `json:"-"`

	// Now is the clock; injectable for testing.
	Now func() time.Time `json:"-"`

	// OnSessionEnd runs once per logout event, however the logout was
	// triggered. The UI layer hooks its teardown here.
	OnSessionEnd func() `json:"-"`
}

// ConfigOption defines a functional option for configuring the Config.
type ConfigOption func(*Config)

// WithBaseURL sets the platform API base URL.
func WithBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithUserAgent sets the User-Agent header on outgoing requests.
func WithUserAgent(ua string) ConfigOption {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithHTTPClient sets the HTTP client whose transport underlies all
// platform calls.
func WithHTTPClient(client *http.Client) ConfigOption {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithRefreshSkew sets the safety margin subtracted from the access token
// expiry when scheduling proactive renewal.
func WithRefreshSkew(skew time.Duration) ConfigOption {
	return func(c *Config) {
		c.RefreshSkew = skew
	}
}

// WithTokenStore sets a custom token store.
func WithTokenStore(store storage.TokenStore) ConfigOption {
	return func(c *Config) {
		c.TokenStore = store
	}
}

// WithBroadcaster sets the channel carrying cross-context logout events.
func WithBroadcaster(b broadcast.Broadcaster) ConfigOption {
	return func(c *Config) {
		c.Broadcaster = b
	}
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) ConfigOption {
	return func(c *Config) {
		c.Logger = log
	}
}

// WithClock sets the time source (primarily for testing).
func WithClock(now func() time.Time) ConfigOption {
	return func(c *Config) {
		c.Now = now
	}
}

// WithSessionEndHandler sets the callback invoked when the session ends.
func WithSessionEndHandler(fn func()) ConfigOption {
	return func(c *Config) {
		c.OnSessionEnd = fn
	}
}

// NewConfig creates a new configuration with the provided options. If no
// options are provided, returns a configuration with sensible defaults:
// filesystem token persistence under the user's home and an in-process
// logout channel.
func NewConfig(opts ...ConfigOption) *Config {
	config := &Config{
		BaseURL:     constants.DefaultBaseURL,
		UserAgent:   constants.DefaultUserAgent,
		Timeout:     constants.DefaultHTTPTimeout,
		RefreshSkew: constants.DefaultRefreshSkew,
		TokenStore:  storage.MustNewFileSystemStore(""),
		Broadcaster: broadcast.NewMemoryBroadcaster(),
		Logger:      zerolog.Nop(),
		Now:         time.Now,
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// Validate ensures the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return &ConfigError{Field: "BaseURL", Message: constants.ValidationErrorEmpty}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Field: "Timeout", Message: "must be positive"}
	}
	if c.RefreshSkew < 0 {
		return &ConfigError{Field: "RefreshSkew", Message: "must not be negative"}
	}
	if c.TokenStore == nil {
		return &ConfigError{Field: "TokenStore", Message: constants.ValidationErrorRequired}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return constants.ConfigErrorPrefix + e.Field + ": " + e.Message
}
