// Package config provides configuration loading for camlsize.
//
// Values are layered: built-in defaults, then the YAML config file, then
// CAMLSIZE_* environment variables. Command line flags are applied last by
// the CLI.
package config

import "github.com/coral-mesh/camlsize/internal/constants"

// Config is the camlsize configuration.
type Config struct {
	// NM is the symbol dump tool, invoked as `<NM> -n <binary>`.
	NM string `yaml:"nm" env:"CAMLSIZE_NM"`
	// Format is the report format (text, json, yaml, csv).
	Format string `yaml:"format" env:"CAMLSIZE_FORMAT"`
	// Sort is the row order (name, size).
	Sort string `yaml:"sort" env:"CAMLSIZE_SORT"`
	// Width is the module name column width of text reports.
	Width int `yaml:"width" env:"CAMLSIZE_WIDTH"`
	// Strict rejects duplicate begin markers and binaries without modules.
	Strict bool `yaml:"strict" env:"CAMLSIZE_STRICT"`
	// LogLevel sets the diagnostics level (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level" env:"CAMLSIZE_LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		NM:       constants.DefaultTool,
		Format:   constants.DefaultFormat,
		Sort:     constants.DefaultSort,
		Width:    constants.DefaultWidth,
		Strict:   false,
		LogLevel: constants.DefaultLogLevel,
	}
}
