package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

var outputModes = []string{OutputAuto, OutputText, OutputMarkdown, OutputJSON, OutputYAML}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(outputModes, c.Output) {
		errs = append(errs, fmt.Errorf("output: unknown mode %q (want one of %s)", c.Output, strings.Join(outputModes, ", ")))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Parser.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("parser.max_depth must be positive, got %d", c.Parser.MaxDepth))
	}
	if c.Lineage.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("lineage.max_depth must not be negative, got %d", c.Lineage.MaxDepth))
	}
	if c.Batch.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("batch.concurrency must be positive, got %d", c.Batch.Concurrency))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// ParseLevel converts debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		if strings.EqualFold(s, "warning") {
			s = "warn"
		}
		if err := level.UnmarshalText([]byte(s)); err != nil {
			return 0, err
		}
		return level, nil
	}
	return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}
