// Package config loads sqlpath settings from defaults, a YAML file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"time"

	"github.com/leapstack-labs/sqlpath/pkg/lineage"
)

// Config holds all CLI configuration options.
type Config struct {
	Output   string        `koanf:"output"`
	Verbose  bool          `koanf:"verbose"`
	LogLevel string        `koanf:"log_level"`
	Parser   ParserConfig  `koanf:"parser"`
	Lineage  LineageConfig `koanf:"lineage"`
	Batch    BatchConfig   `koanf:"batch"`
	Watch    WatchConfig   `koanf:"watch"`
	REPL     REPLConfig    `koanf:"repl"`

	// ConfigFile is the file that was loaded, if any. Not read from config.
	ConfigFile string `koanf:"-"`
}

// ParserConfig bounds the parser.
type ParserConfig struct {
	MaxDepth int `koanf:"max_depth"`
}

// LineageConfig selects the join path search.
type LineageConfig struct {
	Strategy lineage.Strategy `koanf:"strategy"`
	MaxDepth int              `koanf:"max_depth"` // 0 = unbounded
}

// Options converts the section to lineage query options.
func (c LineageConfig) Options() lineage.Options {
	return lineage.Options{Strategy: c.Strategy, MaxDepth: c.MaxDepth}
}

// BatchConfig controls the batch command.
type BatchConfig struct {
	Concurrency int `koanf:"concurrency"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// REPLConfig controls the interactive session.
type REPLConfig struct {
	HistoryFile string `koanf:"history_file"` // empty = ~/.sqlpath_history
}
