package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Durable is a file-backed cache store. Each entry is a zstd-compressed JSON
// document named by the lowercase hex of its key, written atomically via a
// temp file and rename. Entries survive process restarts.
type Durable struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	group   singleflight.Group
}

// NewDurable creates a durable store rooted at dir, creating the directory if
// needed. An unwritable directory is a fatal configuration error.
func NewDurable(dir string) (*Durable, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheDirUnavailable.Error()), "dir", dir)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd encoder")
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd decoder")
	}

	return &Durable{dir: dir, encoder: encoder, decoder: decoder}, nil
}

// Dir returns the store's root directory.
func (s *Durable) Dir() string {
	return s.dir
}

// Get retrieves the entry for a key. Returns nil, nil if not found.
// Concurrent reads of the same key are collapsed into one file read.
func (s *Durable) Get(key domain.CacheKey) (*domain.CacheEntry, error) {
	v, err, _ := s.group.Do(key.Hex(), func() (any, error) {
		return s.read(key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.CacheEntry), nil
}

func (s *Durable) read(key domain.CacheKey) (*domain.CacheEntry, error) {
	raw, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return (*domain.CacheEntry)(nil), nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read cache entry"), "key", key.Hex())
	}

	decoded, err := s.decoder.DecodeAll(raw, nil)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to decompress cache entry"), "key", key.Hex())
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(decoded, &entry); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to decode cache entry"), "key", key.Hex())
	}
	return &entry, nil
}

// Put stores the entry under the key, replacing any previous entry. The write
// is atomic: a crash mid-write never leaves a partial entry visible.
func (s *Durable) Put(key domain.CacheKey, entry domain.CacheEntry) error {
	encoded, err := json.Marshal(entry)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to encode cache entry"), "key", key.Hex())
	}
	compressed := s.encoder.EncodeAll(encoded, nil)

	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return zerr.Wrap(err, "failed to write cache entry")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return zerr.Wrap(err, "failed to close cache entry")
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, "failed to commit cache entry"), "key", key.Hex())
	}
	return nil
}

// Info reports the entry count and total stored bytes under the directory.
func (s *Durable) Info() (ports.StoreInfo, error) {
	info := ports.StoreInfo{Backend: "durable"}

	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		return info, zerr.With(zerr.Wrap(err, "failed to list cache directory"), "dir", s.dir)
	}

	for _, d := range dirents {
		if d.IsDir() || !isEntryName(d.Name()) {
			continue
		}
		fi, err := d.Info()
		if err != nil {
			continue
		}
		info.Entries++
		info.Bytes += fi.Size()
	}
	return info, nil
}

// Clear removes every entry file. Non-entry files in the directory are left
// alone.
func (s *Durable) Clear() error {
	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to list cache directory"), "dir", s.dir)
	}

	for _, d := range dirents {
		if d.IsDir() || !isEntryName(d.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, d.Name())); err != nil {
			return zerr.Wrap(err, "failed to remove cache entry")
		}
	}
	return nil
}

func (s *Durable) path(key domain.CacheKey) string {
	return filepath.Join(s.dir, key.Hex())
}

// isEntryName reports whether name is the hex encoding of a cache key.
func isEntryName(name string) bool {
	_, err := domain.ParseCacheKey(name)
	return err == nil
}
