package envdiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/engine/envdiff"
	"go.trai.ch/memo/internal/engine/keyer"
	"go.trai.ch/memo/internal/lang"
)

func newTracker() *envdiff.Tracker {
	return envdiff.NewTracker(keyer.NewHasher())
}

func interned(name string) domain.InternedString {
	return domain.NewInternedString(name)
}

func TestCapture_NewBinding(t *testing.T) {
	tracker := newTracker()
	env := lang.NewEnv(nil)

	before := tracker.Snapshot(env)
	env.Define("x", lang.Int(1))

	diff, err := tracker.Capture(before, env)
	require.NoError(t, err)

	require.Len(t, diff.Set, 1)
	assert.Equal(t, lang.Int(1), diff.Set[interned("x")])
	assert.Empty(t, diff.Deleted)
}

func TestCapture_ModifiedBinding(t *testing.T) {
	tracker := newTracker()
	env := lang.NewEnv(nil)
	env.Define("x", lang.Int(1))
	env.Define("y", lang.Int(9))

	before := tracker.Snapshot(env)
	env.Define("x", lang.Int(2))

	diff, err := tracker.Capture(before, env)
	require.NoError(t, err)

	require.Len(t, diff.Set, 1, "unchanged bindings stay out of the diff")
	assert.Equal(t, lang.Int(2), diff.Set[interned("x")])
}

func TestCapture_DeletedBindingsSorted(t *testing.T) {
	tracker := newTracker()
	env := lang.NewEnv(nil)
	env.Define("zeta", lang.Int(1))
	env.Define("alpha", lang.Int(2))

	before := tracker.Snapshot(env)
	require.NoError(t, env.Delete("zeta"))
	require.NoError(t, env.Delete("alpha"))

	diff, err := tracker.Capture(before, env)
	require.NoError(t, err)

	assert.Equal(t, []domain.InternedString{interned("alpha"), interned("zeta")}, diff.Deleted)
	assert.Empty(t, diff.Set)
}

func TestCapture_DeletionDropsMemoizedDigest(t *testing.T) {
	hasher := keyer.NewHasher()
	tracker := envdiff.NewTracker(hasher)
	env := lang.NewEnv(nil)
	env.Define("x", lang.Int(1))

	before := tracker.Snapshot(env)
	require.NoError(t, env.Delete("x"))

	diff, err := tracker.Capture(before, env)
	require.NoError(t, err)
	require.Equal(t, []domain.InternedString{interned("x")}, diff.Deleted)

	// Rebinding the same name must hash from scratch, not reuse the record
	// memoized for the deleted binding.
	baseline := hasher.Recomputes()
	env.Define("x", lang.Int(1))
	_, err = hasher.Hash("x", lang.Int(1))
	require.NoError(t, err)
	assert.Equal(t, baseline+1, hasher.Recomputes())
}

func TestCapture_NoChangeYieldsEmptyDiff(t *testing.T) {
	tracker := newTracker()
	env := lang.NewEnv(nil)
	env.Define("big", lang.IntVec(make([]int64, 10000)))

	before := tracker.Snapshot(env)

	diff, err := tracker.Capture(before, env)
	require.NoError(t, err)
	assert.True(t, diff.Empty())
}

func TestCapture_RecordedValuesAreIsolated(t *testing.T) {
	tracker := newTracker()
	env := lang.NewEnv(nil)

	before := tracker.Snapshot(env)
	backing := []int64{1, 2, 3}
	env.Define("v", lang.IntVec(backing))

	diff, err := tracker.Capture(before, env)
	require.NoError(t, err)

	backing[0] = 99
	recorded := diff.Set[interned("v")]
	assert.Equal(t, []int64{1, 2, 3}, recorded.Data, "the diff holds a deep copy")
}

func TestCapture_NewHandleIsNotCacheable(t *testing.T) {
	tracker := newTracker()
	env := lang.NewEnv(nil)

	before := tracker.Snapshot(env)
	env.Define("h", lang.HandleVal(&lang.Handle{Kind: "device"}))

	_, err := tracker.Capture(before, env)
	assert.Error(t, err)
}

func TestCapture_UnchangedHandleIsIgnored(t *testing.T) {
	tracker := newTracker()
	env := lang.NewEnv(nil)
	env.Define("h", lang.HandleVal(&lang.Handle{Kind: "device"}))

	before := tracker.Snapshot(env)
	env.Define("x", lang.Int(1))

	diff, err := tracker.Capture(before, env)
	require.NoError(t, err, "a pre-existing handle must not poison unrelated diffs")
	require.Len(t, diff.Set, 1)
	assert.Equal(t, lang.Int(1), diff.Set[interned("x")])
}

func TestReplay_ReproducesEnvironment(t *testing.T) {
	tracker := newTracker()

	// Live execution path.
	live := lang.NewEnv(nil)
	live.Define("keep", lang.Int(7))
	live.Define("drop", lang.Str("old"))

	before := tracker.Snapshot(live)
	live.Define("x", lang.IntVec([]int64{1, 2, 3}))
	live.Define("keep", lang.Int(8))
	require.NoError(t, live.Delete("drop"))

	diff, err := tracker.Capture(before, live)
	require.NoError(t, err)

	// Replay onto a fresh environment in the same pre-execution state.
	replayed := lang.NewEnv(nil)
	replayed.Define("keep", lang.Int(7))
	replayed.Define("drop", lang.Str("old"))

	require.NoError(t, tracker.Replay(diff, replayed))

	liveState := live.Flatten()
	replayedState := replayed.Flatten()
	require.Equal(t, len(liveState), len(replayedState))
	for name, want := range liveState {
		got, ok := replayedState[name]
		require.True(t, ok, "missing binding %q", name)
		assert.True(t, want.Equal(got), "binding %q differs", name)
	}
}

func TestReplay_DeletedAlreadyAbsent(t *testing.T) {
	tracker := newTracker()
	env := lang.NewEnv(nil)

	diff := domain.EnvironmentDiff{Deleted: []domain.InternedString{interned("ghost")}}
	assert.NoError(t, tracker.Replay(diff, env))
}

func TestReplay_DropsDigestsOfDeletedBindings(t *testing.T) {
	hasher := keyer.NewHasher()
	tracker := envdiff.NewTracker(hasher)
	env := lang.NewEnv(nil)
	env.Define("x", lang.Int(1))
	_, err := hasher.Hash("x", lang.Int(1))
	require.NoError(t, err)

	diff := domain.EnvironmentDiff{Deleted: []domain.InternedString{interned("x")}}
	require.NoError(t, tracker.Replay(diff, env))

	baseline := hasher.Recomputes()
	_, err = hasher.Hash("x", lang.Int(1))
	require.NoError(t, err)
	assert.Equal(t, baseline+1, hasher.Recomputes(), "replaying a deletion must evict the name's digest")
}

func TestReplay_RejectsHandleValues(t *testing.T) {
	tracker := newTracker()
	env := lang.NewEnv(nil)

	diff := domain.EnvironmentDiff{
		Set: map[domain.InternedString]lang.Value{
			interned("h"): lang.HandleVal(&lang.Handle{Kind: "device"}),
		},
	}
	err := tracker.Replay(diff, env)
	assert.Error(t, err)
	assert.False(t, env.Has("h"), "a failed replay must not partially apply")
}

func TestReplay_ValuesAreIsolated(t *testing.T) {
	tracker := newTracker()
	env := lang.NewEnv(nil)

	diff := domain.EnvironmentDiff{
		Set: map[domain.InternedString]lang.Value{
			interned("v"): lang.IntVec([]int64{1, 2}),
		},
	}
	require.NoError(t, tracker.Replay(diff, env))

	v, err := env.Get("v")
	require.NoError(t, err)
	v.Data.([]int64)[0] = 99

	original := diff.Set[interned("v")]
	assert.Equal(t, []int64{1, 2}, original.Data, "replay binds a copy, not the stored slice")
}
