package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: CCHECK_[SECTION]_[KEY] (e.g., CCHECK_OUTPUT_FORMAT).
func ApplyEnvOverrides(cfg *Config) {
	// Rules
	setEnvList(&cfg.Rules.UnsafeFunctions, "CCHECK_RULES_UNSAFE_FUNCTIONS")

	// Analysis
	setEnvBool(&cfg.Analysis.Parallel, "CCHECK_ANALYSIS_PARALLEL")

	// Output
	setEnvBoolPtr(&cfg.Output.DumpAST, "CCHECK_OUTPUT_DUMP_AST")
	setEnvString(&cfg.Output.Format, "CCHECK_OUTPUT_FORMAT")
	setEnvString(&cfg.Output.Path, "CCHECK_OUTPUT_PATH")
	setEnvString(&cfg.Output.ProjectRoot, "CCHECK_OUTPUT_PROJECT_ROOT")

	// Log
	setEnvString(&cfg.Log.Level, "CCHECK_LOG_LEVEL")

	// Observability
	setEnvString(&cfg.Observability.MetricsTextfile, "CCHECK_OBSERVABILITY_METRICS_TEXTFILE")
	setEnvBool(&cfg.Observability.EnableTracing, "CCHECK_OBSERVABILITY_ENABLE_TRACING")
	setEnvString(&cfg.Observability.OTLPEndpoint, "CCHECK_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

// setEnvList splits a comma-separated value.
func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = strings.Split(val, ",")
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvBoolPtr(target **bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = &b
		}
	}
}
