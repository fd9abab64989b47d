package config

import (
	"github.com/leapstack-labs/randomjson/internal/cli/output"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	// Function file existence is checked at load time by the commands
	// that compile them. This keeps help and version working when a
	// configured file is missing.
	return nil
}
