package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlpath/internal/cli/output"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	SQL string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a SELECT and show its tables, columns and joins",
		Long: `Parse a SELECT statement and report what the resolver bound.

The report lists every table source with its handle, every select item with
the table that owns it, every join condition, the bound parameters, and the
lineage path of each named column. Select items that could not be parsed are
kept as raw text and listed as skipped.

Output adapts to environment:
  - Terminal: Styled output with tables
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Parse a file
  sqlpath parse query.sql

  # Parse inline SQL
  sqlpath parse --sql "SELECT u.id FROM users u"

  # Read from stdin and emit JSON
  cat query.sql | sqlpath parse - -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SQL, "sql", "", "SQL text to parse instead of a file")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	cc := NewCommandContext(cmd)

	text, source, err := readSQL(cmd, opts.SQL, args)
	if err != nil {
		return err
	}
	stmt, err := cc.Parse(source, text)
	if err != nil {
		return err
	}

	rep := NewStatementReport(source, stmt, cc.LineageOptions())
	return renderReport(cc.Renderer, rep)
}

// renderReport writes rep in the renderer's effective mode.
func renderReport(r *output.Renderer, rep *StatementReport) error {
	if handled, err := r.Structured(rep); handled {
		return err
	}

	title := "Statement"
	if rep.Source != "" {
		title = rep.Source
	}
	r.Header(1, title)
	if r.EffectiveMode() == output.ModeText {
		r.Println()
	}

	r.Header(2, "Tables")
	tables := make([][]string, 0, len(rep.Tables))
	for _, t := range rep.Tables {
		tables = append(tables, []string{strconv.Itoa(t.Handle), t.FullName, orDash(t.Alias), yesNo(t.Derived)})
	}
	r.Table([]string{"#", "Table", "Alias", "Derived"}, tables)
	r.Println()

	r.Header(2, "Columns")
	columns := make([][]string, 0, len(rep.Columns))
	for _, c := range rep.Columns {
		name := c.Name
		if c.Expression != "" {
			name = c.Expression
		}
		columns = append(columns, []string{name, orDash(c.Alias), c.Kind, orDash(c.Table)})
	}
	r.Table([]string{"Column", "Alias", "Kind", "Table"}, columns)
	r.Println()

	if len(rep.Joins) > 0 {
		r.Header(2, "Joins")
		joins := make([][]string, 0, len(rep.Joins))
		for _, j := range rep.Joins {
			joins = append(joins, []string{j.Type, j.Table, orDash(j.Condition), orDash(j.Skipped)})
		}
		r.Table([]string{"Type", "Table", "On", "Skipped"}, joins)
		r.Println()
	}

	if len(rep.Lineage) > 0 {
		r.Header(2, "Lineage")
		paths := make([][]string, 0, len(rep.Lineage))
		for _, p := range rep.Lineage {
			paths = append(paths, []string{p.Field, p.Kind, orDash(p.Table), orDash(p.Path)})
		}
		r.Table([]string{"Field", "Kind", "Table", "Path"}, paths)
		r.Println()
	}

	if len(rep.Parameters) > 0 {
		renderKeyValue(r, "Parameters", strings.Join(rep.Parameters, ", "))
	}
	renderKeyValue(r, "Distinct", strconv.FormatBool(rep.Distinct))

	for _, s := range rep.Skipped {
		r.Warning(fmt.Sprintf("skipped select item: %s", s))
	}
	for _, d := range rep.Diagnostics {
		r.Warning(d)
	}
	return nil
}

func renderKeyValue(r *output.Renderer, key, value string) {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatKeyValue(key, value))
		return
	}
	r.Printf("%s %s\n", r.Styles().Muted.Render(key+":"), value)
}
