package config

import (
	"fmt"
	"strings"
)

// Validate checks the front-end settings. Model parameters are passed through
// untouched.
func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "info", "debug", "quiet":
	default:
		return fmt.Errorf("log_level must be 'info', 'debug' or 'quiet', got %q", c.LogLevel)
	}
	if c.Market.Timeout <= 0 {
		return fmt.Errorf("market.timeout must be > 0, got %v", c.Market.Timeout)
	}
	return nil
}
