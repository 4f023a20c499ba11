package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lenslab/internal/domain"
)

const usersFile = "users.json"

// UserStore persists user records as a single JSON file on the local
// filesystem. The full record set is small enough that rewriting the file on
// every mutation is acceptable; a RWMutex keeps concurrent requests safe.
type UserStore struct {
	mu   sync.RWMutex
	path string
}

// NewUserStore initializes a UserStore rooted at dataDir, creating the
// directory and an empty users file when absent.
func NewUserStore(dataDir string) (*UserStore, error) {
	dataDir = strings.TrimSpace(dataDir)
	if dataDir == "" {
		return nil, errors.New("store: data dir is required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure data dir: %w", err)
	}
	path := filepath.Join(dataDir, usersFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(path, []byte("[]"), 0o600); err != nil {
			return nil, fmt.Errorf("store: init users file: %w", err)
		}
	}
	return &UserStore{path: path}, nil
}

// Create registers a new user with an empty API configuration. Email
// comparison is case-insensitive and duplicates are rejected.
func (s *UserStore) Create(email, username, passwordHash string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		return domain.User{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return domain.User{}, domain.ErrDuplicateEmail
		}
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	users = append(users, user)
	if err := s.write(users); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// FindByEmail looks a user up by email, case-insensitively.
func (s *UserStore) FindByEmail(email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, err := s.read()
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

// FindByID looks a user up by id.
func (s *UserStore) FindByID(id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, err := s.read()
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

// UpdateAPIConfig stores the user's upstream endpoint and key.
func (s *UserStore) UpdateAPIConfig(id, apiBaseURL, apiKey string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		return domain.User{}, err
	}
	for i := range users {
		if users[i].ID == id {
			users[i].APIBaseURL = strings.TrimSpace(apiBaseURL)
			users[i].APIKey = strings.TrimSpace(apiKey)
			if err := s.write(users); err != nil {
				return domain.User{}, err
			}
			return users[i], nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *UserStore) read() ([]domain.User, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("store: read users file: %w", err)
	}
	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		// A corrupt file should not brick the service; treat it as empty.
		return nil, nil
	}
	return users, nil
}

func (s *UserStore) write(users []domain.User) error {
	raw, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal users: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("store: write users file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("store: replace users file: %w", err)
	}
	return nil
}
