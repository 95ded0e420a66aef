package config

import (
	"time"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/zerr"
)

// optionsFile is the YAML schema of memo.yaml. All fields are optional;
// pointer fields distinguish "absent" from a zero value.
type optionsFile struct {
	Cache struct {
		Enabled *bool   `yaml:"enabled"`
		Mode    *string `yaml:"mode"`
		Dir     *string `yaml:"dir"`
		MinCost *string `yaml:"min_cost"`
	} `yaml:"cache"`
	Render struct {
		Digits *int `yaml:"digits"`
		Width  *int `yaml:"width"`
	} `yaml:"render"`
}

func (f optionsFile) apply(opts *domain.Options) error {
	if f.Cache.Enabled != nil {
		opts.CacheEnabled = *f.Cache.Enabled
	}
	if f.Cache.Mode != nil {
		opts.CacheMode = domain.CacheMode(*f.Cache.Mode)
	}
	if f.Cache.Dir != nil {
		opts.CacheDir = *f.Cache.Dir
	}
	if f.Cache.MinCost != nil {
		d, err := time.ParseDuration(*f.Cache.MinCost)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "invalid min_cost"), "min_cost", *f.Cache.MinCost)
		}
		opts.MinCacheCost = d
	}
	if f.Render.Digits != nil {
		opts.Digits = *f.Render.Digits
	}
	if f.Render.Width != nil {
		opts.Width = *f.Render.Width
	}
	return nil
}
