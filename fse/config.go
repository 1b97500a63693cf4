package fse

import (
	"github.com/cwbudde/algo-fse/spectral"
	"github.com/cwbudde/algo-fse/stats/correl"
)

// Config holds all extraction parameters. Zero fields are replaced by
// the corresponding [DefaultConfig] values when the engine is built.
type Config struct {
	// HalfWindow is the sliding correlation half window, in positions.
	HalfWindow int
	// NoisePercentile selects the quantile of diagonal peak widths used
	// as the dataset noise width.
	NoisePercentile float64
	// PocketRCutoff gates protofeature pairing: drivers whose best
	// secondary correlation magnitude falls below it emit nothing.
	PocketRCutoff float64
	// RCutoff is the refinement correlation threshold for samples and
	// positions.
	RCutoff float64
	// Q is the significance threshold on corrected p-values.
	Q float64
	// Expansion is the shoulder-recovery multiplier b.
	Expansion float64
	// RegionOfInterest restricts driving and refinement to a ppm
	// interval. Nil means the full axis.
	RegionOfInterest *spectral.Interval
	// MaxIterations caps each refinement run.
	MaxIterations int
	// MinSubset is the smallest subset refinement will accept.
	MinSubset int
	// Correction is the multiple-hypothesis correction applied per
	// screening family.
	Correction correl.Correction
	// Workers bounds the refinement pool; 0 means GOMAXPROCS.
	Workers int
}

// DefaultConfig returns the parameter set used for a typical 1H NMR
// urine or plasma profile run.
func DefaultConfig() Config {
	return Config{
		HalfWindow:      25,
		NoisePercentile: 0.99,
		PocketRCutoff:   0.75,
		RCutoff:         0.8,
		Q:               0.05,
		Expansion:       1,
		MaxIterations:   24,
		MinSubset:       4,
		Correction:      correl.BenjaminiHochberg{},
	}
}

// Option mutates a Config.
type Option func(*Config)

// WithHalfWindow sets the sliding correlation half window.
func WithHalfWindow(w int) Option {
	return func(cfg *Config) {
		if w >= 1 {
			cfg.HalfWindow = w
		}
	}
}

// WithRegionOfInterest restricts the run to a ppm interval.
func WithRegionOfInterest(iv spectral.Interval) Option {
	return func(cfg *Config) {
		cfg.RegionOfInterest = &iv
	}
}

// WithCorrection sets the multiple-hypothesis correction strategy.
func WithCorrection(c correl.Correction) Option {
	return func(cfg *Config) {
		if c != nil {
			cfg.Correction = c
		}
	}
}

// WithWorkers bounds the refinement worker pool.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// normalize fills zero fields from the defaults.
func (cfg Config) normalize() Config {
	def := DefaultConfig()

	if cfg.HalfWindow == 0 {
		cfg.HalfWindow = def.HalfWindow
	}
	if cfg.NoisePercentile == 0 {
		cfg.NoisePercentile = def.NoisePercentile
	}
	if cfg.PocketRCutoff == 0 {
		cfg.PocketRCutoff = def.PocketRCutoff
	}
	if cfg.RCutoff == 0 {
		cfg.RCutoff = def.RCutoff
	}
	if cfg.Q == 0 {
		cfg.Q = def.Q
	}
	if cfg.Expansion == 0 {
		cfg.Expansion = def.Expansion
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.MinSubset == 0 {
		cfg.MinSubset = def.MinSubset
	}
	if cfg.Correction == nil {
		cfg.Correction = def.Correction
	}

	return cfg
}
