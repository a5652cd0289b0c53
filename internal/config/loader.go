package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coral-mesh/camlsize/internal/constants"
)

// ConfigEnv names the environment variable that overrides the config file path.
const ConfigEnv = constants.ConfigEnv

// DefaultFile is the config file name looked up in the home directory.
const DefaultFile = constants.ConfigFile

// Loader resolves and loads the configuration file.
type Loader struct {
	path     string
	explicit bool
}

// NewLoader creates a loader for the config file. The path is resolved in
// this order:
//  1. CAMLSIZE_CONFIG environment variable.
//  2. ~/.camlsize.yaml.
//
// Without a home directory no file is read and Load returns defaults with
// environment overrides applied.
func NewLoader() *Loader {
	if path := os.Getenv(ConfigEnv); path != "" {
		return &Loader{path: path, explicit: true}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return &Loader{}
	}
	return &Loader{path: filepath.Join(homeDir, DefaultFile)}
}

// NewFileLoader creates a loader for an explicitly chosen file, which must exist.
func NewFileLoader(path string) *Loader {
	return &Loader{path: path, explicit: true}
}

// Path returns the config file path, or "" when there is none.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the layered configuration. A missing default file is not an
// error; a missing explicit file is.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.path != "" {
		//nolint:gosec // G304: Path is chosen by the user.
		data, err := os.ReadFile(l.path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", l.path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !l.explicit:
			// No config file.
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := LoadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
