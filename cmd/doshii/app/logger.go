package app

import (
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/doshii/pkg/logging"
)

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// NewLogger builds the CLI logger. The SDK's LOG_* environment is the base
// and the command line overrides level, format, destination and color.
func NewLogger(config *Config) zerolog.Logger {
	level, warning := logLevel(config)
	if warning != "" {
		fmt.Fprintln(os.Stderr, "Warning: "+warning)
	}

	cfg := logging.FromEnv()
	cfg.Level = level
	if config.LogFormat != "" {
		cfg.Format = config.LogFormat
	}
	if config.LogOutput != "" {
		cfg.Output = config.LogOutput
	}
	cfg.NoColor = cfg.NoColor || config.NoColor
	return logging.NewLoggerFromConfig(cfg)
}

// logLevel resolves --log-level (or LOG_LEVEL), then --quiet, then
// --verbose, then warn. Quiet beats verbose. The second result is a
// warning for the user when the flags conflict or the level is unknown.
func logLevel(config *Config) (string, string) {
	switch {
	case config.LogLevel != "":
		if slices.Contains(logLevels, config.LogLevel) {
			return config.LogLevel, ""
		}
		return "warn", fmt.Sprintf("invalid log level %q, using %q", config.LogLevel, "warn")
	case config.Quiet && config.Verbose:
		return "error", "both --verbose and --quiet specified, using --quiet"
	case config.Quiet:
		return "error", ""
	case config.Verbose:
		return "debug", ""
	default:
		return "warn", ""
	}
}
