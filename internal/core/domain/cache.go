package domain

import (
	"encoding/hex"
	"time"

	"go.trai.ch/memo/internal/lang"
)

// KeySize is the byte length of a CacheKey digest (SHA-256).
const KeySize = 32

// CacheKey is the collision-resistant digest identifying one cacheable unit
// of work: structure, free-variable content, and cache-relevant options.
// Equal inputs always yield equal keys.
type CacheKey [KeySize]byte

// Hex returns the lowercase hex encoding, used as the durable store filename.
func (k CacheKey) Hex() string {
	return hex.EncodeToString(k[:])
}

// ParseCacheKey decodes a lowercase hex digest back into a CacheKey.
func ParseCacheKey(s string) (CacheKey, error) {
	var k CacheKey
	raw, err := hex.DecodeString(s)
	if err != nil {
		return k, ErrBadCacheKey
	}
	if len(raw) != KeySize {
		return k, ErrBadCacheKey
	}
	copy(k[:], raw)
	return k, nil
}

// MarshalText implements encoding.TextMarshaler.
func (k CacheKey) MarshalText() ([]byte, error) {
	return []byte(k.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *CacheKey) UnmarshalText(text []byte) error {
	parsed, err := ParseCacheKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Digest is the content digest of one object's serialized form, as produced
// by the object hasher and folded into cache keys.
type Digest [KeySize]byte

// Hex returns the lowercase hex encoding of the digest.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// EnvironmentDiff is the minimal recorded set of binding changes caused by
// one expression's evaluation. Replaying it onto the pre-execution
// environment reproduces the post-execution environment observationally.
type EnvironmentDiff struct {
	// Set holds bindings created or modified, with their post-execution
	// snapshot values.
	Set map[InternedString]lang.Value `json:"set,omitempty"`
	// Deleted holds names of bindings removed during evaluation.
	Deleted []InternedString `json:"deleted,omitempty"`
}

// Empty reports whether the evaluation changed no bindings.
func (d EnvironmentDiff) Empty() bool {
	return len(d.Set) == 0 && len(d.Deleted) == 0
}

// CacheEntry is one stored evaluation result. Immutable once written; never
// mutated in place, only replaced by a fresh write under the same key.
type CacheEntry struct {
	Record   EvaluationRecord `json:"record"`
	Diff     EnvironmentDiff  `json:"diff"`
	StoredAt time.Time        `json:"stored_at"`
	Cost     time.Duration    `json:"cost"`
}
