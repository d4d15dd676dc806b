// Package cache is a small disk-backed TTL cache. The kiosk uses it to
// keep the last good weather observation across restarts so the overlay
// widgets paint immediately instead of waiting for the first fetch.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// entry is the JSON envelope persisted for each key.
type entry struct {
	Key     string          `json:"key"`
	Created int64           `json:"created"` // UnixNano
	TTLNS   int64           `json:"ttl_ns"`  // 0 = never expires
	Data    json.RawMessage `json:"data"`
}

// Store is a disk-backed key-value cache with TTL expiry. Writes are
// atomic via temp-file-then-rename.
type Store struct {
	dir        string
	defaultTTL time.Duration

	mu sync.Mutex
}

// NewStore creates a Store rooted at dir, creating it if needed.
// defaultTTL of 0 means entries never expire unless a per-put TTL is set.
func NewStore(dir string, defaultTTL time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory %s: %w", dir, err)
	}
	return &Store{dir: dir, defaultTTL: defaultTTL}, nil
}

// Get returns the raw data for key, or ok=false when missing or expired.
// Expired entries are removed on read.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		os.Remove(path)
		return nil, false
	}
	if e.TTLNS > 0 && time.Since(time.Unix(0, e.Created)) > time.Duration(e.TTLNS) {
		os.Remove(path)
		return nil, false
	}
	return e.Data, true
}

// Put stores data under key with the store's default TTL.
func (s *Store) Put(key string, data json.RawMessage) error {
	return s.PutWithTTL(key, data, s.defaultTTL)
}

// PutWithTTL stores data under key with an explicit TTL.
func (s *Store) PutWithTTL(key string, data json.RawMessage, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{Key: key, Created: time.Now().UnixNano(), TTLNS: int64(ttl), Data: data}
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("cache: marshal entry %q: %w", key, err)
	}
	tmp, err := os.CreateTemp(s.dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("cache: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("cache: write entry %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: close entry %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.pathFor(key)); err != nil {
		return fmt.Errorf("cache: store entry %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Missing keys are not an error.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	os.Remove(s.pathFor(key))
}

func (s *Store) pathFor(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:8])+".cache")
}

// GetTyped deserializes a cached JSON value into T. Returns ok=false when
// the key is missing, expired, or not valid JSON for T.
func GetTyped[T any](s *Store, key string) (T, bool) {
	var v T
	data, ok := s.Get(key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// PutTyped serializes value as JSON and stores it with the default TTL.
func PutTyped[T any](s *Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal typed value for %q: %w", key, err)
	}
	return s.Put(key, data)
}
