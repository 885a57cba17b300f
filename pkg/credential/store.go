package credential

import (
	"errors"
	"sync"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned when no credential is stored under a key.
var ErrNotFound = errors.New("credential not found")

// Store persists the bypass credential for the lifetime of a session.
type Store interface {
	// Get retrieves a value by key
	Get(key string) (string, error)

	// Set stores a key with a value
	Set(key, value string) error

	// Delete removes a key
	Delete(key string) error
}

// MemoryStore implements Store with an in-process map. This is the
// default session-scoped backend: values live exactly as long as the
// process, mirroring browser session storage.
type MemoryStore struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewMemoryStore creates a new MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]string),
	}
}

// Get retrieves a value by key
func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores a key with a value
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Delete removes a key
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// KeyringStore implements Store on top of the OS keychain, so a
// credential survives process restarts without ever touching disk in
// plain text.
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a KeyringStore scoped to a service name.
func NewKeyringStore(service string) *KeyringStore {
	return &KeyringStore{service: service}
}

// Get retrieves a value by key
func (s *KeyringStore) Get(key string) (string, error) {
	value, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores a key with a value
func (s *KeyringStore) Set(key, value string) error {
	return keyring.Set(s.service, key, value)
}

// Delete removes a key
func (s *KeyringStore) Delete(key string) error {
	err := keyring.Delete(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
