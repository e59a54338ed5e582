package config

import (
	"fmt"
	"log/slog"
	"os"
)

// ProjectConfigFile is looked up in the working directory when no explicit
// path is given.
const ProjectConfigFile = "qbcube.yaml"

// Loader resolves the effective configuration.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load layers, in increasing precedence:
//  1. DefaultConfig
//  2. the file at path, or ./qbcube.yaml when path is empty and it exists
//  3. overrides (typically command-line flags)
//
// An explicit path that cannot be read is an error; a missing project file
// is not. The result is validated.
func (l *Loader) Load(path string, overrides *Config) (*Config, error) {
	cfg := DefaultConfig()

	source := path
	if source == "" {
		if _, err := os.Stat(ProjectConfigFile); err == nil {
			source = ProjectConfigFile
		}
	}
	if source != "" {
		fileCfg, err := LoadFromFile(source)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("loaded config", slog.String("path", source))
		cfg.Merge(fileCfg)
	} else {
		l.logger.Debug("no config file, using defaults")
	}

	cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		if source != "" {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		return nil, err
	}
	return cfg, nil
}
