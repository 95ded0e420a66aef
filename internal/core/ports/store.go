package ports

import "go.trai.ch/memo/internal/core/domain"

// CacheStore persists evaluation results keyed by their content digest. The
// two backends (ephemeral, durable) are interchangeable behind this
// interface; callers never branch on the backend.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Get retrieves the entry for a key.
	// Returns nil, nil if not found.
	Get(key domain.CacheKey) (*domain.CacheEntry, error)

	// Put stores the entry under the key, replacing any previous entry.
	Put(key domain.CacheKey, entry domain.CacheEntry) error

	// Info reports the backend name, entry count, and stored bytes.
	Info() (StoreInfo, error)

	// Clear removes every entry from the store.
	Clear() error
}

// StoreInfo describes the current state of a cache store backend.
type StoreInfo struct {
	Backend string
	Entries int
	Bytes   int64
}
