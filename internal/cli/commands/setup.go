package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlpath/internal/cli/output"
	"github.com/leapstack-labs/sqlpath/internal/config"
	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/lineage"
	"github.com/leapstack-labs/sqlpath/pkg/parser"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the config and logger the
// root command stored in cmd's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}
}

// NewParser returns a parser configured from the loaded settings.
// Parsers are not reentrant; use one per goroutine.
func (c *CommandContext) NewParser() *parser.Parser {
	return parser.New(
		parser.WithLogger(c.Logger),
		parser.WithMaxDepth(c.Cfg.Parser.MaxDepth),
	)
}

// LineageOptions returns path search options from the loaded settings.
func (c *CommandContext) LineageOptions() lineage.Options {
	opts := c.Cfg.Lineage.Options()
	opts.Logger = c.Logger
	return opts
}

// Parse parses text, naming source in the error.
func (c *CommandContext) Parse(source, text string) (*core.Statement, error) {
	stmt, err := c.NewParser().Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	return stmt, nil
}

// stdinArg selects standard input as the SQL source.
const stdinArg = "-"

// readSQL returns the SQL text and a name for it. inline wins over a file
// argument; no argument or "-" reads stdin.
func readSQL(cmd *cobra.Command, inline string, args []string) (text, source string, err error) {
	if inline != "" {
		return inline, "<sql>", nil
	}
	if len(args) == 0 || args[0] == stdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read SQL file: %w", err)
	}
	return string(data), args[0], nil
}
