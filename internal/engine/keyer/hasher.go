package keyer

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/lang"
	"go.trai.ch/zerr"
)

var _ ports.ObjectHasher = (*Hasher)(nil)

// hashRecord memoizes one binding's content digest together with the cheap
// proxy signature that decides whether the digest is still current.
type hashRecord struct {
	sig    uint64
	digest domain.Digest
}

// Hasher computes content digests for named objects, memoized per binding
// name for the lifetime of one evaluation session. The proxy signature is an
// xxhash over the value's kind tag, length, and backing-array identity, so
// deciding "unchanged" never touches the full content of a large vector.
type Hasher struct {
	mu      sync.Mutex
	records map[domain.InternedString]hashRecord

	recomputes uint64
}

// NewHasher creates an empty session hash table.
func NewHasher() *Hasher {
	return &Hasher{records: make(map[domain.InternedString]hashRecord)}
}

// Hash returns the content digest of value, currently bound to name. The
// expensive serialize-and-hash path runs at most once between modifications
// of the binding.
func (h *Hasher) Hash(name string, value lang.Value) (domain.Digest, error) {
	sig, ok := signature(value)
	if !ok {
		return domain.Digest{}, zerr.With(zerr.Wrap(domain.ErrUnhashable, "no deterministic serialized form"), "name", name)
	}

	key := domain.NewInternedString(name)

	h.mu.Lock()
	defer h.mu.Unlock()

	if rec, found := h.records[key]; found && rec.sig == sig {
		return rec.digest, nil
	}

	digest, err := contentDigest(value)
	if err != nil {
		return domain.Digest{}, zerr.With(zerr.Wrap(err, "content digest failed"), "name", name)
	}
	h.recomputes++
	h.records[key] = hashRecord{sig: sig, digest: digest}
	return digest, nil
}

// Forget drops the memoized record for name. Used when a binding is deleted.
func (h *Hasher) Forget(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.records, domain.NewInternedString(name))
}

// Recomputes reports how many times the full serialize-and-hash path ran.
func (h *Hasher) Recomputes() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.recomputes
}

// signature computes the cheap change-detection proxy: kind tag, length, and
// reference identity of slice-backed values. Scalars fold their payload
// directly since that is no more expensive than any proxy.
func signature(v lang.Value) (uint64, bool) {
	d := xxhash.New()
	_, _ = d.Write([]byte{byte(v.Kind)})

	switch v.Kind {
	case lang.KindNull:
	case lang.KindBool:
		if v.Data.(bool) {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
	case lang.KindInt:
		writeUint64(d, uint64(v.Data.(int64)))
	case lang.KindFloat:
		writeFloat(d, v.Data.(float64))
	case lang.KindStr:
		_, _ = d.WriteString(v.Data.(string))
	case lang.KindIntVec, lang.KindFloatVec, lang.KindStrVec:
		rv := reflect.ValueOf(v.Data)
		writeUint64(d, uint64(rv.Len()))
		writeUint64(d, uint64(rv.Pointer()))
	default:
		// Handles and builtins have no deterministic serialized form.
		return 0, false
	}
	return d.Sum64(), true
}

func writeUint64(d *xxhash.Digest, n uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	_, _ = d.Write(buf[:])
}

func writeFloat(d *xxhash.Digest, f float64) {
	writeUint64(d, math.Float64bits(f))
}

// contentDigest is the expensive path: a SHA-256 over the value's canonical
// serialized form.
func contentDigest(v lang.Value) (domain.Digest, error) {
	data, err := v.MarshalJSON()
	if err != nil {
		return domain.Digest{}, domain.ErrUnhashable
	}
	return domain.Digest(sha256.Sum256(data)), nil
}
