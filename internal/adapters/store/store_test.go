package store_test

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/memo/internal/adapters/store"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/lang"
)

func testKey(s string) domain.CacheKey {
	return domain.CacheKey(sha256.Sum256([]byte(s)))
}

func testEntry() domain.CacheEntry {
	value := lang.Int(42)
	return domain.CacheEntry{
		Record: domain.EvaluationRecord{
			SourceText: "x <- 42",
			Value:      &value,
			Printed:    "",
			TypeTag:    "integer",
		},
		Diff: domain.EnvironmentDiff{
			Set: map[domain.InternedString]lang.Value{
				domain.NewInternedString("x"): lang.Int(42),
			},
		},
		StoredAt: time.Now().UTC().Truncate(time.Second),
		Cost:     3 * time.Millisecond,
	}
}

func TestEphemeral_RoundTrip(t *testing.T) {
	s := store.NewEphemeral()
	key := testKey("a")

	got, err := s.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got, "miss should return nil, nil")

	require.NoError(t, s.Put(key, testEntry()))

	got, err = s.Get(key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "x <- 42", got.Record.SourceText)
	assert.Equal(t, int64(42), got.Record.Value.Data)
}

func TestEphemeral_Clear(t *testing.T) {
	s := store.NewEphemeral()
	require.NoError(t, s.Put(testKey("a"), testEntry()))
	require.NoError(t, s.Put(testKey("b"), testEntry()))

	info, err := s.Info()
	require.NoError(t, err)
	assert.Equal(t, 2, info.Entries)
	assert.Equal(t, "ephemeral", info.Backend)

	require.NoError(t, s.Clear())

	info, err = s.Info()
	require.NoError(t, err)
	assert.Equal(t, 0, info.Entries)
}

func TestDurable_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewDurable(dir)
	require.NoError(t, err)

	key := testKey("expr")

	got, err := s.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got, "miss should return nil, nil")

	entry := testEntry()
	require.NoError(t, s.Put(key, entry))

	got, err = s.Get(key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.Record.SourceText, got.Record.SourceText)
	assert.Equal(t, entry.Cost, got.Cost)

	setValue, ok := got.Diff.Set[domain.NewInternedString("x")]
	require.True(t, ok, "diff binding should survive the round trip")
	assert.Equal(t, lang.KindInt, setValue.Kind)
	assert.Equal(t, int64(42), setValue.Data)
}

func TestDurable_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	key := testKey("persisted")

	first, err := store.NewDurable(dir)
	require.NoError(t, err)
	require.NoError(t, first.Put(key, testEntry()))

	second, err := store.NewDurable(dir)
	require.NoError(t, err)

	got, err := second.Get(key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "x <- 42", got.Record.SourceText)
}

func TestDurable_EntryFileNameIsKeyHex(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewDurable(dir)
	require.NoError(t, err)

	key := testKey("named")
	require.NoError(t, s.Put(key, testEntry()))

	_, err = os.Stat(filepath.Join(dir, key.Hex()))
	assert.NoError(t, err)
}

func TestDurable_InfoAndClear(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewDurable(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(testKey("a"), testEntry()))
	require.NoError(t, s.Put(testKey("b"), testEntry()))

	// Foreign files are not counted and not removed.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("keep"), 0o644))

	info, err := s.Info()
	require.NoError(t, err)
	assert.Equal(t, "durable", info.Backend)
	assert.Equal(t, 2, info.Entries)
	assert.Positive(t, info.Bytes)

	require.NoError(t, s.Clear())

	info, err = s.Info()
	require.NoError(t, err)
	assert.Equal(t, 0, info.Entries)

	_, err = os.Stat(filepath.Join(dir, "README"))
	assert.NoError(t, err)
}

func TestDurable_CorruptEntryReturnsError(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewDurable(dir)
	require.NoError(t, err)

	key := testKey("corrupt")
	require.NoError(t, os.WriteFile(filepath.Join(dir, key.Hex()), []byte("not zstd"), 0o644))

	_, err = s.Get(key)
	assert.Error(t, err)
}

func TestDurable_UnwritableDirFails(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	// A regular file cannot become the cache directory.
	_, err := store.NewDurable(filepath.Join(blocked, "cache"))
	assert.Error(t, err)
}

func TestFromOptions(t *testing.T) {
	opts := domain.DefaultOptions()
	s, err := store.FromOptions(opts)
	require.NoError(t, err)
	assert.IsType(t, &store.Ephemeral{}, s)

	opts.CacheMode = domain.CacheDurable
	opts.CacheDir = t.TempDir()
	s, err = store.FromOptions(opts)
	require.NoError(t, err)
	assert.IsType(t, &store.Durable{}, s)

	opts.CacheMode = "bogus"
	_, err = store.FromOptions(opts)
	assert.Error(t, err)
}
