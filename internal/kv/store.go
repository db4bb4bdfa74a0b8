package kv

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrNotFound is returned by backends and Store.Get for missing keys.
var ErrNotFound = errors.New("kv key not found")

// Backend persists encoded values.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Store encodes values onto a Backend.
type Store struct {
	backend Backend
}

// NewStore creates a Store over backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Get loads and decodes the value at key.
func (s *Store) Get(ctx context.Context, key string) (*Value, error) {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}
	v, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}
	return v, nil
}

// Put encodes and stores v at key.
func (s *Store) Put(ctx context.Context, key string, v *Value) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("kv put %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, data); err != nil {
		return fmt.Errorf("kv put %s: %w", key, err)
	}
	return nil
}

// Keys lists keys starting with prefix, sorted.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.backend.Keys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("kv keys %s: %w", prefix, err)
	}
	slices.Sort(keys)
	return keys, nil
}

// MemoryBackend is an in-process Backend.
type MemoryBackend struct {
	data sync.Map // map[string][]byte
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := b.data.Load(key)
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(value.([]byte)), nil
}

func (b *MemoryBackend) Put(_ context.Context, key string, data []byte) error {
	b.data.Store(key, slices.Clone(data))
	return nil
}

func (b *MemoryBackend) Keys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	b.data.Range(func(k, _ any) bool {
		if key := k.(string); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return true
	})
	return keys, nil
}
