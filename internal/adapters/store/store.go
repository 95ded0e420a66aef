package store

import (
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

// FromOptions selects and constructs the store backend for the active
// configuration.
func FromOptions(opts domain.Options) (ports.CacheStore, error) {
	switch opts.CacheMode {
	case domain.CacheDurable:
		return NewDurable(opts.CacheDir)
	case domain.CacheEphemeral, "":
		return NewEphemeral(), nil
	default:
		return nil, zerr.With(zerr.New("unknown cache mode"), "mode", string(opts.CacheMode))
	}
}
