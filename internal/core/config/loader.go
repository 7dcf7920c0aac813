package config

import (
	"ccheck/internal/core/errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvConfigPath names an explicit config file. It wins over ./ccheck.toml.
const EnvConfigPath = "CCHECK_CONFIG"

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve finds and loads the effective configuration for a run started in
// cwd: $CCHECK_CONFIG, then cwd/ccheck.toml, then defaults. Environment
// overrides are applied last. The returned path is "" for defaults.
func Resolve(cwd string) (*Config, string, error) {
	path := strings.TrimSpace(os.Getenv(EnvConfigPath))
	if path == "" {
		candidate := filepath.Join(cwd, FileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			path = candidate
		}
	}

	cfg := DefaultConfig()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, path, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid configuration '%s'", path))
		}
		cfg = loaded
	}

	ApplyEnvOverrides(cfg)
	normalize(cfg)
	if err := Validate(cfg); err != nil {
		return nil, path, errors.Wrap(err, errors.CodeValidationError, "invalid configuration from environment")
	}
	return cfg, path, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = FormatText
	}
	if cfg.Output.DumpAST == nil {
		enabled := true
		cfg.Output.DumpAST = &enabled
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
}

func normalize(cfg *Config) {
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Output.Path = strings.TrimSpace(cfg.Output.Path)
	cfg.Output.ProjectRoot = strings.TrimSpace(cfg.Output.ProjectRoot)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Observability.MetricsTextfile = strings.TrimSpace(cfg.Observability.MetricsTextfile)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)

	if len(cfg.Rules.UnsafeFunctions) == 0 {
		return
	}
	patterns := make([]string, 0, len(cfg.Rules.UnsafeFunctions))
	for _, pattern := range cfg.Rules.UnsafeFunctions {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		patterns = append(patterns, pattern)
	}
	cfg.Rules.UnsafeFunctions = patterns
}
