package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlpath/internal/cli/output"
	"github.com/leapstack-labs/sqlpath/pkg/format"
)

// FormatOptions holds options for the format command.
type FormatOptions struct {
	SQL   string
	Write bool
}

// FormatReport is the serializable result of the format command.
type FormatReport struct {
	Source string `json:"source" yaml:"source"`
	SQL    string `json:"sql" yaml:"sql"`
}

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	opts := &FormatOptions{}

	cmd := &cobra.Command{
		Use:   "format [file|-]",
		Short: "Print a SELECT in canonical layout",
		Long: `Parse a SELECT statement and print it back in canonical layout: upper-case
keywords, one select item per line, one join per line, and top-level WHERE
predicates on separate lines.

Select items that could not be parsed and skipped join predicates are
reproduced from their original text.`,
		Example: `  # Print formatted SQL
  sqlpath format query.sql

  # Rewrite the file in place
  sqlpath format -w query.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SQL, "sql", "", "SQL text to parse instead of a file")
	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write the result back to the source file")

	return cmd
}

func runFormat(cmd *cobra.Command, args []string, opts *FormatOptions) error {
	cc := NewCommandContext(cmd)

	text, source, err := readSQL(cmd, opts.SQL, args)
	if err != nil {
		return err
	}
	stmt, err := cc.Parse(source, text)
	if err != nil {
		return err
	}
	formatted := format.Statement(stmt)

	r := cc.Renderer
	if opts.Write {
		if opts.SQL != "" || len(args) == 0 || args[0] == stdinArg {
			return fmt.Errorf("--write needs a file argument")
		}
		if err := os.WriteFile(args[0], []byte(formatted+"\n"), 0644); err != nil { //nolint:gosec // SQL files are not secret
			return fmt.Errorf("failed to write %s: %w", args[0], err)
		}
		r.Success("formatted " + args[0])
		return nil
	}

	if handled, err := r.Structured(&FormatReport{Source: source, SQL: formatted}); handled {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatCodeBlock("sql", formatted))
	} else {
		r.Println(strings.TrimRight(formatted, "\n"))
	}

	if n := len(stmt.SkippedExpressions); n > 0 {
		r.Warning(fmt.Sprintf("%d select item(s) copied verbatim", n))
	}
	return nil
}
