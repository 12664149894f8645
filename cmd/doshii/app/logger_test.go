package app

import (
	"testing"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		expected    string
		wantWarning bool
	}{
		{
			name:     "default is warn",
			config:   &Config{},
			expected: "warn",
		},
		{
			name:     "verbose sets debug",
			config:   &Config{Verbose: true},
			expected: "debug",
		},
		{
			name:     "quiet sets error",
			config:   &Config{Quiet: true},
			expected: "error",
		},
		{
			name:     "explicit level overrides verbose",
			config:   &Config{LogLevel: "error", Verbose: true},
			expected: "error",
		},
		{
			name:     "explicit level overrides both flags",
			config:   &Config{LogLevel: "info", Verbose: true, Quiet: true},
			expected: "info",
		},
		{
			name:        "quiet beats verbose",
			config:      &Config{Verbose: true, Quiet: true},
			expected:    "error",
			wantWarning: true,
		},
		{
			name:        "unknown level falls back to warn",
			config:      &Config{LogLevel: "loud"},
			expected:    "warn",
			wantWarning: true,
		},
		{
			name:     "trace",
			config:   &Config{LogLevel: "trace"},
			expected: "trace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, warning := logLevel(tt.config)
			if level != tt.expected {
				t.Errorf("logLevel() = %q, expected %q", level, tt.expected)
			}
			if (warning != "") != tt.wantWarning {
				t.Errorf("logLevel() warning = %q, wantWarning %v", warning, tt.wantWarning)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("flags set the level", func(t *testing.T) {
		logger := NewLogger(&Config{Verbose: true, LogFormat: "json", LogOutput: "discard"})
		if got := logger.GetLevel().String(); got != "debug" {
			t.Errorf("level = %s, want debug", got)
		}
	})

	t.Run("environment fills what flags leave empty", func(t *testing.T) {
		t.Setenv("LOG_OUTPUT", "discard")
		logger := NewLogger(&Config{Quiet: true})
		if got := logger.GetLevel().String(); got != "error" {
			t.Errorf("level = %s, want error", got)
		}
	})
}
