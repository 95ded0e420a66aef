package domain

import "time"

// CacheMode selects the cache store backend.
type CacheMode string

const (
	// CacheEphemeral keeps entries in memory for the session's lifetime.
	CacheEphemeral CacheMode = "ephemeral"
	// CacheDurable persists entries as files under Options.CacheDir.
	CacheDurable CacheMode = "durable"
)

// Options is the active configuration for one evaluation call. Fields under
// the cache and render groups form the pinned allow-list of options folded
// into the cache key; adding a field here that affects evaluation or rendered
// output without updating the key builder causes incorrect cache hits.
type Options struct {
	// CacheEnabled gates both lookups and writes.
	CacheEnabled bool `yaml:"cache_enabled"`
	// CacheMode selects ephemeral or durable storage.
	CacheMode CacheMode `yaml:"cache_mode"`
	// CacheDir is the durable store directory.
	CacheDir string `yaml:"cache_dir"`
	// MinCacheCost is the minimum measured evaluation cost for an entry to
	// be worth persisting. Reads are attempted regardless.
	MinCacheCost time.Duration `yaml:"min_cache_cost"`

	// Digits is the number of significant digits in printed output.
	Digits int `yaml:"digits"`
	// Width is the line width of printed output.
	Width int `yaml:"width"`
}

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		CacheEnabled: true,
		CacheMode:    CacheEphemeral,
		CacheDir:     ".memo-cache",
		MinCacheCost: 0,
		Digits:       7,
		Width:        80,
	}
}
