package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	tok, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, tok)
	require.False(t, store.HasToken())

	require.NoError(t, store.Store(&oauth2.Token{AccessToken: "A1", RefreshToken: "R1"}))
	require.True(t, store.HasToken())

	tok, err = store.Load()
	require.NoError(t, err)
	require.Equal(t, "A1", tok.AccessToken)
	require.Equal(t, "R1", tok.RefreshToken)
}

func TestMemoryStoreLegacyFallback(t *testing.T) {
	store := NewMemoryStore()
	store.SeedLegacyToken("old-single-token")

	tok, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "old-single-token", tok.AccessToken)
	require.Empty(t, tok.RefreshToken)
	require.True(t, store.HasToken())
}

func TestMemoryStoreWriteDeletesLegacy(t *testing.T) {
	store := NewMemoryStore()
	store.SeedLegacyToken("old-single-token")

	require.NoError(t, store.Store(&oauth2.Token{AccessToken: "A2", RefreshToken: "R2"}))
	require.NoError(t, store.Clear())

	// Clearing after a pair write must not resurrect the legacy value.
	tok, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, tok)
}

func TestMemoryStoreClearIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Clear())

	require.NoError(t, store.Store(&oauth2.Token{AccessToken: "A1", RefreshToken: "R1"}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	require.False(t, store.HasToken())
}

func TestMemoryStoreLoadReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Store(&oauth2.Token{AccessToken: "A1", RefreshToken: "R1"}))

	tok, err := store.Load()
	require.NoError(t, err)
	tok.AccessToken = "mutated"

	again, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "A1", again.AccessToken)
}
