// Package storage provides persistence backends for the VAYD session
// token pair. Backends are shared by every client context of the same
// account scope, so reads always reflect the most recently completed
// write, including writes made by a renewal finishing mid-request.
package storage

import (
	"errors"

	"golang.org/x/oauth2"
)

// TokenStore is the durable home of the current access/refresh token pair.
type TokenStore interface {
	// Load returns the stored token pair, or (nil, nil) when no session is
	// persisted. When only a legacy single-token value exists, Load
	// returns a pair with an empty RefreshToken.
	Load() (*oauth2.Token, error)

	// Store replaces the persisted pair as a whole and removes any legacy
	// single-token value. Partial updates are not possible through this
	// interface.
	Store(token *oauth2.Token) error

	// Clear removes the persisted pair and any legacy value. Clearing an
	// empty store is a no-op.
	Clear() error

	// HasToken reports whether a pair (or legacy token) is persisted.
	HasToken() bool
}

// Sentinel errors for storage operations.
var (
	ErrStorageCorrupted  = errors.New("storage data corrupted")
	ErrStoragePermission = errors.New("storage permission denied")
)
