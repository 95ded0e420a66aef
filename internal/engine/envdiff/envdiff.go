// Package envdiff snapshots evaluation scopes around an execution and
// records the minimal set of binding changes, so a cache hit can reproduce
// an expression's environment mutations without re-executing it.
package envdiff

import (
	"slices"
	"strings"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/lang"
	"go.trai.ch/zerr"
)

// Snapshot is the pre-execution fingerprint of an environment: one digest
// per visible binding. Bindings whose values cannot be fingerprinted carry
// the zero digest and are treated as always-changed.
type Snapshot struct {
	digests map[string]domain.Digest
	// unhashable holds the prior value for bindings with no digest, so a
	// later Capture can still detect change by identity.
	unhashable map[string]lang.Value
}

// Tracker captures and replays environment diffs. Digests come from the
// session's object hasher, so snapshotting an unchanged large object costs
// one memoized lookup.
type Tracker struct {
	hasher ports.ObjectHasher
}

// NewTracker creates a Tracker over the given object hasher.
func NewTracker(hasher ports.ObjectHasher) *Tracker {
	return &Tracker{hasher: hasher}
}

// Snapshot fingerprints every visible binding of env.
func (t *Tracker) Snapshot(env *lang.Env) Snapshot {
	snap := Snapshot{
		digests:    make(map[string]domain.Digest),
		unhashable: make(map[string]lang.Value),
	}
	for name, value := range env.Flatten() {
		digest, err := t.hasher.Hash(name, value)
		if err != nil {
			snap.unhashable[name] = value
			continue
		}
		snap.digests[name] = digest
	}
	return snap
}

// Capture compares a pre-execution snapshot against the environment's state
// after execution and records created, modified, and deleted bindings.
// Recorded values are deep-copied so later evaluations cannot mutate them.
//
// Returns domain.ErrUnhashable when a changed binding holds a value with no
// serialized form (a host handle); such a diff cannot back a cache entry.
func (t *Tracker) Capture(before Snapshot, env *lang.Env) (domain.EnvironmentDiff, error) {
	diff := domain.EnvironmentDiff{Set: make(map[domain.InternedString]lang.Value)}
	after := env.Flatten()

	for name, value := range after {
		preDigest, existed := before.digests[name]
		preValue, wasUnhashable := before.unhashable[name]

		changed := false
		switch {
		case !existed && !wasUnhashable:
			changed = true
		case wasUnhashable:
			// No pre-digest to compare against; handles compare by identity.
			changed = !preValue.Equal(value)
		default:
			postDigest, err := t.hasher.Hash(name, value)
			if err != nil {
				// Hashable before, unhashable now: definitely changed.
				changed = true
			} else {
				changed = postDigest != preDigest
			}
		}
		if !changed {
			continue
		}
		if value.Kind == lang.KindHandle || value.Kind == lang.KindBuiltin {
			return domain.EnvironmentDiff{}, zerr.With(zerr.Wrap(domain.ErrUnhashable, "binding cannot back a cache entry"), "name", name)
		}
		diff.Set[domain.NewInternedString(name)] = value.Clone()
	}

	for name := range before.digests {
		if _, ok := after[name]; !ok {
			diff.Deleted = append(diff.Deleted, domain.NewInternedString(name))
			t.hasher.Forget(name)
		}
	}
	for name := range before.unhashable {
		if _, ok := after[name]; !ok {
			diff.Deleted = append(diff.Deleted, domain.NewInternedString(name))
			t.hasher.Forget(name)
		}
	}

	// Deterministic order keeps serialized entries byte-stable.
	slices.SortFunc(diff.Deleted, func(a, b domain.InternedString) int {
		return strings.Compare(a.String(), b.String())
	})

	if len(diff.Set) == 0 {
		diff.Set = nil
	}
	return diff, nil
}

// Replay applies a recorded diff onto env: re-binds every recorded value and
// removes deleted bindings. Replaying capture(E, E') onto E leaves it
// observationally identical to E'.
func (t *Tracker) Replay(diff domain.EnvironmentDiff, env *lang.Env) error {
	for name, value := range diff.Set {
		if value.Kind == lang.KindHandle || value.Kind == lang.KindBuiltin {
			return zerr.With(zerr.Wrap(domain.ErrReplay, "entry holds a live handle"), "name", name.String())
		}
	}
	for name, value := range diff.Set {
		env.Define(name.String(), value.Clone())
	}
	for _, name := range diff.Deleted {
		// The binding may already be absent in the target scope.
		_ = env.Delete(name.String())
		t.hasher.Forget(name.String())
	}
	return nil
}
