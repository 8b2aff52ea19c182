package constants

import "time"

const (
	LibraryVersion = "0.0.1"
	LibraryName    = "vayd-enterprise-manager"

	DefaultBaseURL   = "https://api.vayd.vet"
	DefaultUserAgent = "vayd-enterprise-manager/0.1"

	AuthLoginPath   = "/auth/login"
	AuthRefreshPath = "/auth/refresh"

	DefaultHTTPTimeout  = 30 * time.Second
	TokenRefreshTimeout = 15 * time.Second

	// DefaultRefreshSkew is subtracted from the access token expiry when
	// scheduling proactive renewal, so the pair is rotated before any
	// request can observe an expired credential.
	DefaultRefreshSkew = 10 * time.Second

	ContentTypeJSON = "application/json"

	// Keys shared by every storage backend. LegacyTokenKey is the
	// single-token slot written by pre-pair releases of the client; it is
	// read as a fallback and deleted on the first pair write.
	SessionTokenKey  = "vayd:session:token"
	LegacyTokenKey   = "vayd:token"
	LogoutChannel    = "vayd:session:logout"
	LogoutLastKey    = "vayd:session:logout:last"
	StorageOpTimeout = 5 * time.Second

	DirPermissions  = 0700
	FilePermissions = 0600

	DefaultStorageDir   = ".vayd"
	TokenFileName       = "session_token.json"
	LegacyTokenFileName = "access_token"

	ValidationErrorEmpty    = "cannot be empty"
	ValidationErrorRequired = "must be provided"
	ConfigErrorPrefix       = "config error in "
)
