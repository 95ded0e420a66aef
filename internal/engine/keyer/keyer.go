package keyer

import (
	"crypto/sha256"
	"hash"
	"strconv"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/lang"
	"go.trai.ch/zerr"
)

// unboundMarker is folded into the key, together with the variable's name,
// when a free variable has no binding. The name participates here because an
// unbound lookup has no value to erase the name behind: its observable result
// is an error that spells the name out. Defining the variable later changes
// the key.
const unboundMarker = "unbound"

// KeyBuilder combines an expression's structural parts, the content digests
// of its free variables, and the cache-relevant options into one
// collision-resistant CacheKey.
type KeyBuilder struct {
	hasher ports.ObjectHasher
}

// NewKeyBuilder creates a KeyBuilder over the given object hasher.
func NewKeyBuilder(hasher ports.ObjectHasher) *KeyBuilder {
	return &KeyBuilder{hasher: hasher}
}

// BuildKey produces the cache key for one decomposed expression evaluated
// against env under opts. Identical inputs always yield identical keys.
//
// Free-variable digests are folded in first-appearance order with the names
// themselves erased, so structurally identical expressions over
// identically-valued bindings key the same regardless of variable naming.
func (b *KeyBuilder) BuildKey(parts domain.StructuralParts, env *lang.Env, opts domain.Options) (domain.CacheKey, error) {
	h := sha256.New()

	// Structure and literal content.
	for _, p := range parts.Parts {
		text := p.Text
		if p.Kind == domain.PartFreeVar {
			// Name-erased positional marker.
			text = ""
		}
		_, _ = h.Write([]byte{byte(p.Kind)})
		_, _ = h.Write([]byte(text))
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0}) // Section separator

	// Free-variable content.
	for _, name := range parts.FreeVars() {
		value, err := env.Get(name)
		if err != nil {
			_, _ = h.Write([]byte(unboundMarker))
			_, _ = h.Write([]byte(name))
			_, _ = h.Write([]byte{0})
			continue
		}
		digest, err := b.hasher.Hash(name, value)
		if err != nil {
			return domain.CacheKey{}, zerr.Wrap(err, "failed to fingerprint free variable")
		}
		_, _ = h.Write(digest[:])
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0})

	// Cache-relevant configuration, pinned allow-list. Anything here that
	// changes invalidates existing entries; anything missing here that
	// affects output causes wrong hits. Keep in sync with domain.Options.
	writeOption(h, "cache.enabled", strconv.FormatBool(opts.CacheEnabled))
	writeOption(h, "cache.mode", string(opts.CacheMode))
	writeOption(h, "cache.dir", opts.CacheDir)
	writeOption(h, "cache.min_cost", opts.MinCacheCost.String())
	writeOption(h, "render.digits", strconv.Itoa(opts.Digits))
	writeOption(h, "render.width", strconv.Itoa(opts.Width))

	var key domain.CacheKey
	copy(key[:], h.Sum(nil))
	return key, nil
}

func writeOption(h hash.Hash, name, value string) {
	_, _ = h.Write([]byte(name))
	_, _ = h.Write([]byte{'='})
	_, _ = h.Write([]byte(value))
	_, _ = h.Write([]byte{0})
}
