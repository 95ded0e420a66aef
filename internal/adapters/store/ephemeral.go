// Package store implements the cache store backends. The ephemeral store
// keeps entries in memory for one session; the durable store persists them as
// compressed files addressed by their key digest.
package store

import (
	"sync"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

// Ephemeral is an in-memory cache store. Entries live for the session and
// vanish on process exit. Safe for concurrent use.
type Ephemeral struct {
	mu      sync.RWMutex
	entries map[domain.CacheKey]domain.CacheEntry
}

// NewEphemeral creates an empty in-memory store.
func NewEphemeral() *Ephemeral {
	return &Ephemeral{entries: make(map[domain.CacheKey]domain.CacheEntry)}
}

// Get retrieves the entry for a key. Returns nil, nil if not found.
func (s *Ephemeral) Get(key domain.CacheKey) (*domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Put stores the entry under the key, replacing any previous entry.
func (s *Ephemeral) Put(key domain.CacheKey, entry domain.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return nil
}

// Info reports the entry count. Stored bytes are not tracked in memory.
func (s *Ephemeral) Info() (ports.StoreInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ports.StoreInfo{
		Backend: "ephemeral",
		Entries: len(s.entries),
	}, nil
}

// Clear removes every entry.
func (s *Ephemeral) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[domain.CacheKey]domain.CacheEntry)
	return nil
}
