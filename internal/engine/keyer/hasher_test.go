package keyer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/memo/internal/engine/keyer"
	"go.trai.ch/memo/internal/lang"
)

func TestHash_MemoizesUnchangedValues(t *testing.T) {
	h := keyer.NewHasher()
	v := lang.IntVec([]int64{1, 2, 3, 4, 5})

	first, err := h.Hash("v", v)
	require.NoError(t, err)
	second, err := h.Hash("v", v)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, uint64(1), h.Recomputes(), "the same backing array must hash once")
}

func TestHash_RecomputesOnNewBackingArray(t *testing.T) {
	h := keyer.NewHasher()

	first, err := h.Hash("v", lang.IntVec([]int64{1, 2, 3}))
	require.NoError(t, err)
	second, err := h.Hash("v", lang.IntVec([]int64{1, 2, 3}))
	require.NoError(t, err)

	assert.Equal(t, first, second, "equal content yields equal digests")
	assert.Equal(t, uint64(2), h.Recomputes(), "a fresh backing array is re-serialized")
}

func TestHash_ContentChangesDigest(t *testing.T) {
	h := keyer.NewHasher()

	a, err := h.Hash("v", lang.IntVec([]int64{1, 2, 3}))
	require.NoError(t, err)
	b, err := h.Hash("v", lang.IntVec([]int64{1, 2, 4}))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHash_ScalarsBypassIdentityCheck(t *testing.T) {
	h := keyer.NewHasher()

	first, err := h.Hash("x", lang.Int(42))
	require.NoError(t, err)
	second, err := h.Hash("x", lang.Int(42))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, uint64(1), h.Recomputes(), "equal scalars share one digest computation")
}

func TestHash_IntAndFloatDiffer(t *testing.T) {
	h := keyer.NewHasher()

	a, err := h.Hash("x", lang.Int(1))
	require.NoError(t, err)
	b, err := h.Hash("y", lang.Float(1))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHash_HandleIsUnhashable(t *testing.T) {
	h := keyer.NewHasher()

	_, err := h.Hash("dev", lang.HandleVal(&lang.Handle{Kind: "device"}))
	assert.Error(t, err)
}

func TestHash_ForgetForcesRecompute(t *testing.T) {
	h := keyer.NewHasher()
	v := lang.StrVec([]string{"a", "b"})

	_, err := h.Hash("s", v)
	require.NoError(t, err)

	h.Forget("s")

	_, err = h.Hash("s", v)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), h.Recomputes())
}

func TestHash_PerNameMemoization(t *testing.T) {
	h := keyer.NewHasher()
	v := lang.IntVec([]int64{1, 2, 3})

	a, err := h.Hash("x", v)
	require.NoError(t, err)
	b, err := h.Hash("y", v)
	require.NoError(t, err)

	assert.Equal(t, a, b, "digests depend only on content, not the binding name")
	assert.Equal(t, uint64(2), h.Recomputes(), "memoization is per binding name")
}
