// Package config provides the configuration loader for memo.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up from the working directory
// toward the filesystem root.
const FileName = "memo.yaml"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds the nearest memo.yaml at or above cwd and merges it over the
// defaults. No file at all is not an error; the defaults apply unchanged.
func (l *Loader) Load(cwd string) (domain.Options, error) {
	opts := domain.DefaultOptions()

	path, found := findConfiguration(cwd)
	if !found {
		l.Logger.Debug("no configuration file found; using defaults", "cwd", cwd)
		return opts, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, zerr.With(zerr.Wrap(err, "failed to read configuration"), "path", path)
	}

	var file optionsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return opts, zerr.With(zerr.Wrap(err, "failed to parse configuration"), "path", path)
	}

	if err := file.apply(&opts); err != nil {
		return domain.DefaultOptions(), zerr.With(err, "path", path)
	}
	if !filepath.IsAbs(opts.CacheDir) {
		// Relative cache dirs anchor at the config file, not the caller's cwd.
		opts.CacheDir = filepath.Join(filepath.Dir(path), opts.CacheDir)
	}

	if err := validate(opts); err != nil {
		return domain.DefaultOptions(), zerr.With(err, "path", path)
	}

	l.Logger.Debug("configuration loaded", "path", path)
	return opts, nil
}

func findConfiguration(cwd string) (string, bool) {
	dir := cwd
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return "", false
		}
		dir = parent
	}
}

func validate(opts domain.Options) error {
	switch opts.CacheMode {
	case domain.CacheEphemeral, domain.CacheDurable:
	default:
		return zerr.With(zerr.New("invalid cache mode"), "mode", string(opts.CacheMode))
	}
	if opts.MinCacheCost < 0 {
		return zerr.New("min_cache_cost must not be negative")
	}
	if opts.Digits < 1 || opts.Digits > 22 {
		return zerr.New("digits must be between 1 and 22")
	}
	if opts.Width < 10 {
		return zerr.New("width must be at least 10")
	}
	return nil
}
