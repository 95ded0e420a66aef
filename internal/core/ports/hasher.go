package ports

import (
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/lang"
)

// ObjectHasher computes stable content digests for named objects. Digests
// are memoized per binding name for the lifetime of a session; an unchanged
// large object is serialized and hashed at most once between modifications.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type ObjectHasher interface {
	// Hash returns the content digest of value, currently bound to name.
	// Returns domain.ErrUnhashable for values with no deterministic
	// serialized form.
	Hash(name string, value lang.Value) (domain.Digest, error)

	// Forget drops the memoized digest for name. Called when the binding is
	// deleted, so a later rebinding under the same name starts fresh.
	Forget(name string)
}
