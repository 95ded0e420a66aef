package domain

import "go.trai.ch/zerr"

var (
	// ErrDecomposition is returned when an expression cannot be decomposed
	// into structural parts. Forces cache bypass for that expression only.
	ErrDecomposition = zerr.New("expression decomposition failed")

	// ErrUnhashable is returned when a free variable's value cannot be
	// deterministically fingerprinted. The containing key computation fails
	// and the expression degrades to always-miss.
	ErrUnhashable = zerr.New("object cannot be hashed")

	// ErrReplay is returned when a cached diff cannot be reconstituted into
	// the target environment. The controller falls back to live execution;
	// the entry is left in place.
	ErrReplay = zerr.New("environment diff replay failed")

	// ErrBadCacheKey is returned when a digest string is not a valid key.
	ErrBadCacheKey = zerr.New("malformed cache key")

	// ErrCacheDirUnavailable is returned when the durable store directory
	// cannot be created or written at startup. This one is fatal.
	ErrCacheDirUnavailable = zerr.New("cache directory unavailable")

	// ErrEvaluationFailed signals that at least one expression in a batch
	// raised an error. The records themselves carry the diagnostics.
	ErrEvaluationFailed = zerr.New("evaluation failed")
)
