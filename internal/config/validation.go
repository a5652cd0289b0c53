package config

import (
	"fmt"
	"strings"
)

// MaxWidth bounds the name column width.
const MaxWidth = 1024

var logLevels = []string{"trace", "debug", "info", "warn", "error", "disabled"}

// Validate checks values that do not depend on other packages. Format and
// sort order are validated where they are parsed.
func (c *Config) Validate() error {
	if c.NM == "" {
		return fmt.Errorf("nm tool cannot be empty")
	}

	if c.Width < 1 || c.Width > MaxWidth {
		return fmt.Errorf("width %d out of range, must be between 1 and %d", c.Width, MaxWidth)
	}

	if !ValidLogLevel(c.LogLevel) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.LogLevel, strings.Join(logLevels, ", "))
	}

	return nil
}

// ValidLogLevel reports whether level is a known log level.
func ValidLogLevel(level string) bool {
	for _, l := range logLevels {
		if strings.EqualFold(level, l) {
			return true
		}
	}
	return false
}
