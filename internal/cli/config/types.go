// Package config provides configuration management for the randomjson CLI.
//
// Settings layer in the usual order: built-in defaults, then a
// randomjson.yaml config file, then RANDOMJSON_* environment variables,
// then command-line flags.
package config

import "math/rand/v2"

// Config holds all CLI configuration options.
type Config struct {
	// RandomSeed seeds document generation. Negative means draw fresh
	// entropy on every invocation.
	RandomSeed int64 `koanf:"random_seed"`
	// OutputFormat selects document rendering: auto, pretty, or compact.
	OutputFormat string `koanf:"output"`
	// Verbose enables debug logging on stderr.
	Verbose bool `koanf:"verbose"`
	// Functions lists Starlark files compiled ahead of every request's
	// own function sources. Relative paths resolve against the config
	// file's directory.
	Functions []string `koanf:"functions"`
}

// Default configuration values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=pretty, non-TTY=compact
	DefaultSeed   = -1     // Negative: fresh entropy per invocation
)

// EffectiveSeed resolves the configured seed, drawing fresh entropy when
// the seed is negative.
func (c *Config) EffectiveSeed() uint64 {
	if c.RandomSeed >= 0 {
		return uint64(c.RandomSeed)
	}
	return rand.Uint64()
}
