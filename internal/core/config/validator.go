package config

import (
	"fmt"
	"strings"
)

// Validate checks a defaulted, normalized config.
func Validate(cfg *Config) error {
	if err := validateVersion(cfg); err != nil {
		return err
	}
	if err := validateRules(cfg); err != nil {
		return err
	}
	if err := validateOutput(cfg); err != nil {
		return err
	}
	if err := validateLog(cfg); err != nil {
		return err
	}
	return validateObservability(cfg)
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; the only supported version is 1", cfg.Version)
	}
	return nil
}

func validateRules(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Rules.UnsafeFunctions))
	for i, pattern := range cfg.Rules.UnsafeFunctions {
		if seen[pattern] {
			return fmt.Errorf("rules.unsafe_functions[%d] duplicates %q", i, pattern)
		}
		seen[pattern] = true
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch cfg.Output.Format {
	case FormatText, FormatSARIF, FormatJSON:
	default:
		return fmt.Errorf("output.format must be one of: %s, %s, %s; got %q", FormatText, FormatSARIF, FormatJSON, cfg.Output.Format)
	}
	if cfg.Output.Format == FormatText && cfg.Output.Path != "" {
		return fmt.Errorf("output.path is only used with the %s and %s formats", FormatSARIF, FormatJSON)
	}
	return nil
}

func validateLog(cfg *Config) error {
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", cfg.Log.Level)
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.EnableTracing && strings.TrimSpace(cfg.Observability.OTLPEndpoint) == "" {
		return fmt.Errorf("observability.otlp_endpoint is required when enable_tracing is true")
	}
	return nil
}
