package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// TokenKey is the key the session token is persisted under.
const TokenKey = "token"

// TokenStore persists the session token between runs.
type TokenStore interface {
	// Load returns "" with a nil error when nothing is stored.
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps {"token": "..."} in a single JSON file with 0600
// permissions.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultTokenPath is ~/.config/skatectl/session.json, or the platform
// equivalent of the user config directory.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("client: locating config dir: %w", err)
	}
	return filepath.Join(dir, "skatectl", "session.json"), nil
}

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("client: reading %s: %w", s.path, err)
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return "", fmt.Errorf("client: parsing %s: %w", s.path, err)
	}
	return values[TokenKey], nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("client: creating %s: %w", filepath.Dir(s.path), err)
	}
	data, err := json.Marshal(map[string]string{TokenKey: token})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("client: writing %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the file. Clearing an absent token is not an error.
func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("client: removing %s: %w", s.path, err)
	}
	return nil
}
