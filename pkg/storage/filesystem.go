package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/constants"
)

// FileSystemStore persists the token pair under a dot-directory in the
// user's home, shared by every process running as the same user. The
// legacy single-token file written by older releases is read as a
// fallback and removed on the first pair write.
type FileSystemStore struct {
	baseDir string
}

// NewFileSystemStore creates a filesystem-backed token store. If baseDir
// is empty the default directory (~/.vayd) is used.
func NewFileSystemStore(baseDir string) (*FileSystemStore, error) {
	if baseDir == "" {
		var err error
		baseDir, err = defaultStorageDir()
		if err != nil {
			return nil, err
		}
	}

	if err := ensureDir(baseDir); err != nil {
		return nil, err
	}

	return &FileSystemStore{baseDir: baseDir}, nil
}

// MustNewFileSystemStore creates a filesystem store and panics on error.
// Useful for initialization code where errors are not expected.
func MustNewFileSystemStore(baseDir string) *FileSystemStore {
	store, err := NewFileSystemStore(baseDir)
	if err != nil {
		panic(err)
	}
	return store
}

// Load implements TokenStore.Load.
func (fs *FileSystemStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(fs.tokenPath())
	if err == nil {
		var token oauth2.Token
		if uerr := json.Unmarshal(data, &token); uerr != nil {
			return nil, fmt.Errorf("failed to parse token file at %s: %w", fs.tokenPath(), ErrStorageCorrupted)
		}
		return &token, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read token file at %s: %w", fs.tokenPath(), err)
	}

	// Fall back to the single-token file written by pre-pair releases.
	raw, err := os.ReadFile(fs.legacyPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read legacy token file at %s: %w", fs.legacyPath(), err)
	}
	access := strings.TrimSpace(string(raw))
	if access == "" {
		return nil, nil
	}
	return &oauth2.Token{AccessToken: access}, nil
}

// Store implements TokenStore.Store.
func (fs *FileSystemStore) Store(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token pair: %w", err)
	}

	if err := ensureDir(fs.baseDir); err != nil {
		return err
	}

	if err := os.WriteFile(fs.tokenPath(), data, constants.FilePermissions); err != nil {
		return fmt.Errorf("failed to write token file at %s: %w", fs.tokenPath(), err)
	}

	return removeFile(fs.legacyPath())
}

// Clear implements TokenStore.Clear.
func (fs *FileSystemStore) Clear() error {
	if err := removeFile(fs.tokenPath()); err != nil {
		return err
	}
	return removeFile(fs.legacyPath())
}

// HasToken implements TokenStore.HasToken.
func (fs *FileSystemStore) HasToken() bool {
	return fileExists(fs.tokenPath()) || fileExists(fs.legacyPath())
}

// StoragePath returns the directory holding the persisted session files.
func (fs *FileSystemStore) StoragePath() string {
	return fs.baseDir
}

func (fs *FileSystemStore) tokenPath() string {
	return filepath.Join(fs.baseDir, constants.TokenFileName)
}

func (fs *FileSystemStore) legacyPath() string {
	return filepath.Join(fs.baseDir, constants.LegacyTokenFileName)
}

func defaultStorageDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, constants.DefaultStorageDir), nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file at %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
