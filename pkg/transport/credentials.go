package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CredentialProvider supplies the bearer token for outgoing requests. An
// empty token means the request goes out unauthenticated.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, mostly for tests and scripts.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

// FileCredentials keeps the session in a small JSON file, the terminal
// client's equivalent of browser local storage.
type FileCredentials struct {
	Path string

	mu sync.Mutex
}

type storedSession struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

func (f *FileCredentials) Token(context.Context) (string, error) {
	s, err := f.load()
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

// RefreshToken returns the stored refresh token, if any.
func (f *FileCredentials) RefreshToken() (string, error) {
	s, err := f.load()
	if err != nil {
		return "", err
	}
	return s.RefreshToken, nil
}

// Save persists a new session with 0600 permissions.
func (f *FileCredentials) Save(token, refresh string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("credentials dir: %w", err)
	}
	data, err := json.Marshal(storedSession{Token: token, RefreshToken: refresh})
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o600)
}

// Clear removes the stored session.
func (f *FileCredentials) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *FileCredentials) load() (storedSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var s storedSession
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read credentials: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode credentials: %w", err)
	}
	return s, nil
}
