// Package token keeps the external sync credential. It prefers the OS
// keyring and falls back to a file readable only by the current user.
package token

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/zalando/go-keyring"
)

const user = "sync-token"

// ErrNotFound is returned when no token has been stored
var ErrNotFound = errors.New("no sync token stored")

// Store reads and writes the sync token. It performs no validation of the
// token itself.
type Store struct {
	service       string
	fallbackPath  string
	usingFallback bool
	log           zerolog.Logger
}

// NewStore creates a token store for a keyring service name
func NewStore(service, configDir string, log zerolog.Logger) *Store {
	return &Store{
		service:      service,
		fallbackPath: filepath.Join(configDir, "token"),
		log:          log,
	}
}

// IsUsingFallback reports whether the last write went to the file instead
// of the OS keyring
func (s *Store) IsUsingFallback() bool {
	return s.usingFallback
}

// Get returns the stored token
func (s *Store) Get() (string, error) {
	secret, err := keyring.Get(s.service, user)
	if err == nil {
		return secret, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		s.log.Debug().Err(err).Msg("Keyring unavailable, reading token file")
	}

	data, ferr := os.ReadFile(s.fallbackPath)
	if errors.Is(ferr, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if ferr != nil {
		return "", fmt.Errorf("failed to read token file: %w", ferr)
	}
	return string(data), nil
}

// Set stores the token. An empty token removes it.
func (s *Store) Set(token string) error {
	if token == "" {
		return s.Delete()
	}

	err := keyring.Set(s.service, user, token)
	if err == nil {
		s.usingFallback = false
		// Drop any copy left by an earlier fallback write
		_ = os.Remove(s.fallbackPath)
		return nil
	}

	s.log.Warn().Err(err).Str("path", s.fallbackPath).Msg("Keyring unavailable, storing token in file")
	if err := os.MkdirAll(filepath.Dir(s.fallbackPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(s.fallbackPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	s.usingFallback = true
	return nil
}

// Delete removes the token from both the keyring and the fallback file
func (s *Store) Delete() error {
	if err := keyring.Delete(s.service, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		s.log.Debug().Err(err).Msg("Keyring delete failed")
	}
	if err := os.Remove(s.fallbackPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}
