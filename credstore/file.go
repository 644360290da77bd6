package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// FileStore defines a public type used by authgate APIs.
//
// FileStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type FileStore struct {
	path string
}

type fileRecord struct {
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// NewFileStore describes the newfilestore operation and its observable behavior.
//
// NewFileStore may return an error when input validation, dependency calls, or security checks fail.
// NewFileStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("credential file path required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
	}
	return &FileStore{path: path}, nil
}

// Get describes the get operation and its observable behavior.
//
// Get never fails: a missing, unreadable, or corrupt credential file yields
// the Anonymous credentials.
func (s *FileStore) Get(_ context.Context) Credentials {
	if s == nil {
		return Credentials{}
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Print("authgate: credential file unreadable, treating as anonymous")
		}
		return Credentials{}
	}
	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Print("authgate: credential file corrupt, treating as anonymous")
		return Credentials{}
	}
	return Credentials{AccessToken: rec.Token, RefreshToken: rec.RefreshToken}
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set replaces both stored values in one atomic rename so a concurrent Get
// observes either the old pair or the new pair, never a mix.
func (s *FileStore) Set(_ context.Context, creds Credentials) error {
	if s == nil {
		return errors.New("file store not initialized")
	}
	data, err := json.Marshal(fileRecord{
		Token:        creds.AccessToken,
		RefreshToken: creds.RefreshToken,
	})
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear is idempotent: clearing an absent credential file succeeds.
func (s *FileStore) Clear(_ context.Context) error {
	if s == nil {
		return nil
	}
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
