package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/constants"
)

func TestFileSystemStoreRoundTrip(t *testing.T) {
	store, err := NewFileSystemStore(t.TempDir())
	require.NoError(t, err)

	tok, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, tok)

	require.NoError(t, store.Store(&oauth2.Token{AccessToken: "A1", RefreshToken: "R1"}))
	require.True(t, store.HasToken())

	tok, err = store.Load()
	require.NoError(t, err)
	require.Equal(t, "A1", tok.AccessToken)
	require.Equal(t, "R1", tok.RefreshToken)
}

func TestFileSystemStoreLegacyFallback(t *testing.T) {
	dir := t.TempDir()
	legacyPath := filepath.Join(dir, constants.LegacyTokenFileName)
	require.NoError(t, os.WriteFile(legacyPath, []byte("old-single-token\n"), 0600))

	store, err := NewFileSystemStore(dir)
	require.NoError(t, err)

	tok, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "old-single-token", tok.AccessToken)
	require.Empty(t, tok.RefreshToken)

	// A pair write removes the legacy file.
	require.NoError(t, store.Store(&oauth2.Token{AccessToken: "A2", RefreshToken: "R2"}))
	_, serr := os.Stat(legacyPath)
	require.True(t, os.IsNotExist(serr), "legacy token file must be deleted on write")
}

func TestFileSystemStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSystemStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.TokenFileName), []byte("{not json"), 0600))

	_, err = store.Load()
	require.ErrorIs(t, err, ErrStorageCorrupted)
}

func TestFileSystemStoreClearIsIdempotent(t *testing.T) {
	store, err := NewFileSystemStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Store(&oauth2.Token{AccessToken: "A1", RefreshToken: "R1"}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	require.False(t, store.HasToken())
}
