package mirasdk

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned by KVStore.Get when the key does not exist.
var ErrNotFound = errors.New("kv: key not found")

// KVStore is the pluggable persistence backend for mood profiles.
//
// Data is organized by namespace (typically one per session or user) and
// key. Set must replace the value atomically: readers observe either the
// previous value or the new one, never a partial write.
type KVStore interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
	ListKeys(ctx context.Context, namespace string) ([]string, error)
	Close() error
}

// InMemoryKVStore is a thread-safe in-memory KVStore for development
// and tests. Data is lost on restart.
type InMemoryKVStore struct {
	mu sync.RWMutex
	kv map[string]map[string]string
}

// NewInMemoryKVStore creates a new in-memory store.
func NewInMemoryKVStore() *InMemoryKVStore {
	return &InMemoryKVStore{kv: make(map[string]map[string]string)}
}

func (s *InMemoryKVStore) Get(_ context.Context, namespace, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ns, ok := s.kv[namespace]; ok {
		if v, ok := ns[key]; ok {
			return v, nil
		}
	}
	return "", ErrNotFound
}

func (s *InMemoryKVStore) Set(_ context.Context, namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv[namespace] == nil {
		s.kv[namespace] = make(map[string]string)
	}
	s.kv[namespace][key] = value
	return nil
}

func (s *InMemoryKVStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.kv[namespace]; ok {
		delete(ns, key)
	}
	return nil
}

func (s *InMemoryKVStore) ListKeys(_ context.Context, namespace string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.kv[namespace]))
	for k := range s.kv[namespace] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *InMemoryKVStore) Close() error { return nil }
