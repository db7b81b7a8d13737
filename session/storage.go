package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gametrade/users"
)

var (
	// ErrNotFound is returned by Load when no session has been persisted.
	ErrNotFound = errors.New("no persisted session")

	// ErrCorrupt is returned by Load when the persisted session is missing
	// one of its three keys. Partial state is never trusted.
	ErrCorrupt = errors.New("persisted session incomplete")
)

// Record is the persisted session triple. All three fields are written
// together by Establish and removed together by Clear.
type Record struct {
	Token     string
	User      users.AuthenticatedUser
	ExpiresAt int64 // seconds since epoch
}

// Storage persists the session across process restarts.
type Storage interface {
	Save(Record) error
	Load() (Record, error)
	Delete() error
}

const sessionFileName = "auth.json"

// fileRecord mirrors Record on disk. Pointer fields distinguish an absent
// key from a zero value so partial writes are detected as corrupt.
type fileRecord struct {
	Token     *string          `json:"auth.token"`
	User      *json.RawMessage `json:"auth.user"`
	ExpiresAt *int64           `json:"auth.tokenExpiration"`
}

// FileStorage keeps the session in a single JSON file under the
// application data folder. The device analog of a keychain entry.
type FileStorage struct {
	path string
}

func NewFileStorage(dataFolder string) *FileStorage {
	return &FileStorage{path: filepath.Join(dataFolder, sessionFileName)}
}

func (f *FileStorage) Save(rec Record) error {
	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	raw := json.RawMessage(userJSON)
	data, err := json.Marshal(fileRecord{
		Token:     &rec.Token,
		User:      &raw,
		ExpiresAt: &rec.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create data folder: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (f *FileStorage) Load() (Record, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("read session file: %w", err)
	}

	var stored fileRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if stored.Token == nil || stored.User == nil || stored.ExpiresAt == nil {
		return Record{}, ErrCorrupt
	}

	var user users.AuthenticatedUser
	if err := json.Unmarshal(*stored.User, &user); err != nil {
		return Record{}, fmt.Errorf("%w: bad user payload: %v", ErrCorrupt, err)
	}
	return Record{Token: *stored.Token, User: user, ExpiresAt: *stored.ExpiresAt}, nil
}

func (f *FileStorage) Delete() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
