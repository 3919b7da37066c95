package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlpath/internal/cli/output"
	"github.com/leapstack-labs/sqlpath/pkg/lineage"
)

// PathOptions holds options for the path command.
type PathOptions struct {
	SQL       string
	MainTable string
	All       bool
}

// PathReport is the serializable answer of the path command.
type PathReport struct {
	PathInfo `yaml:",inline"`
	// Alternatives lists every join path to the owning table when --all is set.
	Alternatives []string `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

// NewPathCommand creates the path command.
func NewPathCommand() *cobra.Command {
	opts := &PathOptions{}

	cmd := &cobra.Command{
		Use:   "path <field> [file|-]",
		Short: "Show which table a field lives in and how it is joined",
		Long: `Resolve a field of a SELECT to the table that owns it and render the join
path from the main table to that table.

A field is matched against plain column names first, then aliases, then
columns referenced inside expressions, then join condition columns. Fields
starting with @ are looked up among the bound parameters.

Paths are rendered as table.[column]table.[column]... where each column is
the join column on the source side of the hop.`,
		Example: `  # Where does product come from?
  sqlpath path product query.sql

  # Shortest path instead of the first depth-first path
  sqlpath path product query.sql --strategy bfs

  # Every path to the owning table
  sqlpath path product query.sql --all

  # Check a bound parameter
  sqlpath path @minAge --sql "SELECT a FROM t WHERE a > @minAge"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(cmd, args[0], args[1:], opts)
		},
	}

	cmd.Flags().StringVar(&opts.SQL, "sql", "", "SQL text to parse instead of a file")
	cmd.Flags().StringVar(&opts.MainTable, "main-table", "", "Require the FROM table to match this name")
	cmd.Flags().BoolVar(&opts.All, "all", false, "List every join path to the owning table")
	cmd.Flags().String("strategy", "", "Path search strategy (dfs|bfs)")
	cmd.Flags().Int("max-depth", 0, "Max join hops to explore (0 = unbounded)")

	_ = cmd.RegisterFlagCompletionFunc("strategy", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(lineage.StrategyDFS), string(lineage.StrategyBFS)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runPath(cmd *cobra.Command, field string, args []string, opts *PathOptions) error {
	cc := NewCommandContext(cmd)

	text, source, err := readSQL(cmd, opts.SQL, args)
	if err != nil {
		return err
	}
	stmt, err := cc.Parse(source, text)
	if err != nil {
		return err
	}

	lopts := cc.LineageOptions()
	res := lineage.GetColumnPathWithOptions(stmt, field, opts.MainTable, lopts)
	if res == nil {
		if stmt.MainTable == nil {
			return fmt.Errorf("%s has no FROM table", source)
		}
		return fmt.Errorf("main table %q does not match %q", stmt.MainTable.FullName(), opts.MainTable)
	}

	rep := &PathReport{PathInfo: newPathInfo(res)}
	if opts.All && res.Table != nil {
		for _, p := range lineage.FindJoinPaths(stmt, res.TableName, lopts) {
			rep.Alternatives = append(rep.Alternatives, lineage.RenderPath(stmt, p))
		}
	}

	return renderPath(cc.Renderer, rep, lopts.Strategy)
}

func renderPath(r *output.Renderer, rep *PathReport, strategy lineage.Strategy) error {
	if handled, err := r.Structured(rep); handled {
		return err
	}

	if !rep.Found {
		r.Warning(fmt.Sprintf("field %s not found", rep.Field))
		return nil
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	if markdown {
		r.Println(output.FormatHeader(1, rep.Field))
		r.Println()
		r.Println(output.FormatKeyValue("Kind", rep.Kind))
		if rep.Table != "" {
			r.Println(output.FormatKeyValue("Table", rep.Table))
		}
		if rep.Path != "" {
			r.Println(output.FormatKeyValue("Path", "`"+rep.Path+"`"))
		}
	} else {
		styles := r.Styles()
		r.Printf("%s %s\n", styles.Column.Render(rep.Field), styles.Muted.Render("("+rep.Kind+")"))
		if rep.Table != "" {
			r.Printf("  %s %s\n", styles.Muted.Render("table:"), styles.Table.Render(rep.Table))
		}
		if rep.Path != "" {
			r.Printf("  %s %s\n", styles.Muted.Render("path: "), styles.Path.Render(rep.Path))
		}
	}

	if len(rep.Hops) > 0 {
		r.Println()
		rows := make([][]string, 0, len(rep.Hops))
		for i, h := range rep.Hops {
			rows = append(rows, []string{strconv.Itoa(i + 1), h})
		}
		r.Table([]string{"Hop", "Join"}, rows)
	}

	if len(rep.Alternatives) > 0 {
		r.Println()
		r.Header(2, fmt.Sprintf("Paths (%s)", strategy))
		rows := make([][]string, 0, len(rep.Alternatives))
		for i, p := range rep.Alternatives {
			rows = append(rows, []string{strconv.Itoa(i + 1), p})
		}
		r.Table([]string{"#", "Path"}, rows)
	}
	return nil
}
