package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/devbm7/synthgen/internal/session"
)

// GetAppDataDir returns the application data directory
func GetAppDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	appDataDir := filepath.Join(homeDir, ".synthgen")
	if err := os.MkdirAll(appDataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create app data directory: %w", err)
	}

	return appDataDir, nil
}

// Store persists sessions as JSON files keyed by their token
type Store struct {
	dir string
}

// NewStore creates a store rooted at the default app data directory
func NewStore() (*Store, error) {
	appDataDir, err := GetAppDataDir()
	if err != nil {
		return nil, err
	}
	return NewStoreAt(filepath.Join(appDataDir, "sessions"))
}

// NewStoreAt creates a store rooted at an explicit directory
func NewStoreAt(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// NewToken mints a fresh session token
func NewToken() string {
	return uuid.NewString()
}

func (s *Store) sessionPath(token string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.json", token))
}

// Save writes the session state to its token-keyed file
func (s *Store) Save(sess *session.Session) error {
	if sess.Token == "" {
		return fmt.Errorf("session has no token")
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.sessionPath(sess.Token), data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load reads a session back by its token
func (s *Store) Load(token string) (*session.Session, error) {
	data, err := os.ReadFile(s.sessionPath(token))
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", token, err)
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", token, err)
	}

	return &sess, nil
}

// Delete removes a persisted session
func (s *Store) Delete(token string) error {
	if err := os.Remove(s.sessionPath(token)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session %s: %w", token, err)
	}
	return nil
}

// Current returns the token of the active session, if one is set
func (s *Store) Current() (string, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, "current"))
	if err != nil {
		return "", false
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

// SetCurrent marks a session token as the active one
func (s *Store) SetCurrent(token string) error {
	if err := os.WriteFile(filepath.Join(s.dir, "current"), []byte(token), 0644); err != nil {
		return fmt.Errorf("failed to record current session: %w", err)
	}
	return nil
}

// List returns the tokens of all persisted sessions
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var tokens []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		tokens = append(tokens, strings.TrimSuffix(name, ".json"))
	}

	return tokens, nil
}
