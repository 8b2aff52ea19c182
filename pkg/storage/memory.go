package storage

import (
	"sync"

	"golang.org/x/oauth2"
)

// MemoryStore is an in-process TokenStore. It backs single-process use and
// tests; sharing a session across processes needs FileSystemStore or
// RedisStore.
type MemoryStore struct {
	mu     sync.RWMutex
	token  *oauth2.Token
	legacy string
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SeedLegacyToken installs a value under the legacy single-token slot, as
// left behind by pre-pair releases of the client.
func (m *MemoryStore) SeedLegacyToken(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.legacy = raw
}

// Load implements TokenStore.Load.
func (m *MemoryStore) Load() (*oauth2.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token != nil {
		tok := *m.token
		return &tok, nil
	}
	if m.legacy != "" {
		return &oauth2.Token{AccessToken: m.legacy}, nil
	}
	return nil, nil
}

// Store implements TokenStore.Store.
func (m *MemoryStore) Store(token *oauth2.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok := *token
	m.token = &tok
	m.legacy = ""
	return nil
}

// Clear implements TokenStore.Clear.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = nil
	m.legacy = ""
	return nil
}

// HasToken implements TokenStore.HasToken.
func (m *MemoryStore) HasToken() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != nil || m.legacy != ""
}
