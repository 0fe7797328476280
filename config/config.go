package config

import "time"

// Config represents the complete ringe configuration
type Config struct {
	BaseDir string        `yaml:"-"` // Directory containing config file, for resolving relative paths
	Lexer   LexerConfig   `yaml:"lexer"`
	Output  OutputConfig  `yaml:"output"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
}

// LexerConfig holds scanner settings
type LexerConfig struct {
	ErrorMode string `yaml:"error_mode"` // "halt" or "resync"
}

// OutputConfig controls how token streams are printed
type OutputConfig struct {
	Format string `yaml:"format"` // "text" or "json"
	Spans  bool   `yaml:"spans"`  // Include end positions in text output
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Debounce   time.Duration `yaml:"debounce"`
	Extensions []string      `yaml:"extensions"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `yaml:"level"` // error, warn, info, debug
}

// ExportConfig holds token index settings
type ExportConfig struct {
	SQLite string `yaml:"sqlite"` // Path to a token index database, empty to disable
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Lexer: LexerConfig{
			ErrorMode: "halt",
		},
		Output: OutputConfig{
			Format: "text",
			Spans:  true,
		},
		Watch: WatchConfig{
			Debounce:   100 * time.Millisecond,
			Extensions: []string{".c", ".h", ".i"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// levels orders the logging levels from least to most verbose.
var levels = map[string]int{"error": 0, "warn": 1, "info": 2, "debug": 3}

// Enabled reports whether messages at level should be shown.
func (l LoggingConfig) Enabled(level string) bool {
	want, ok := levels[level]
	if !ok {
		return false
	}
	have, ok := levels[l.Level]
	if !ok {
		have = levels["info"]
	}
	return want <= have
}
