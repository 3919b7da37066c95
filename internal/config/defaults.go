package config

import (
	"time"

	"github.com/leapstack-labs/sqlpath/pkg/lineage"
	"github.com/leapstack-labs/sqlpath/pkg/parser"
)

// Output modes.
const (
	OutputAuto     = "auto" // TTY=text, non-TTY=markdown
	OutputText     = "text"
	OutputMarkdown = "markdown"
	OutputJSON     = "json"
	OutputYAML     = "yaml"
)

// Default configuration values.
const (
	DefaultOutput      = OutputAuto
	DefaultLogLevel    = "warn"
	DefaultConcurrency = 4
	DefaultDebounce    = 100 * time.Millisecond
	DefaultHistoryFile = ".sqlpath_history"
)

// ConfigFileNames are searched, in order, in each directory.
var ConfigFileNames = []string{"sqlpath.yaml", "sqlpath.yml"}

// defaults returns the flat key map loaded before anything else.
func defaults() map[string]any {
	return map[string]any{
		"output":            DefaultOutput,
		"verbose":           false,
		"log_level":         DefaultLogLevel,
		"parser.max_depth":  parser.DefaultMaxDepth,
		"lineage.strategy":  string(lineage.StrategyDFS),
		"lineage.max_depth": lineage.DefaultMaxDepth,
		"batch.concurrency": DefaultConcurrency,
		"watch.debounce":    DefaultDebounce.String(),
		"repl.history_file": "",
	}
}

// Default returns the configuration used when nothing else is loaded.
func Default() *Config {
	return &Config{
		Output:   DefaultOutput,
		LogLevel: DefaultLogLevel,
		Parser:   ParserConfig{MaxDepth: parser.DefaultMaxDepth},
		Lineage:  LineageConfig{Strategy: lineage.StrategyDFS, MaxDepth: lineage.DefaultMaxDepth},
		Batch:    BatchConfig{Concurrency: DefaultConcurrency},
		Watch:    WatchConfig{Debounce: DefaultDebounce},
	}
}
