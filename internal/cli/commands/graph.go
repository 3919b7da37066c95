package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlpath/internal/cli/output"
	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/lineage"
)

// GraphOptions holds options for the graph command.
type GraphOptions struct {
	SQL string
	To  string
}

// GraphReport is the serializable join graph of a statement.
type GraphReport struct {
	Main   string     `json:"main" yaml:"main"`
	Tables []string   `json:"tables" yaml:"tables"`
	Edges  []EdgeInfo `json:"edges" yaml:"edges"`
	Target string     `json:"target,omitempty" yaml:"target,omitempty"`
	Paths  []string   `json:"paths,omitempty" yaml:"paths,omitempty"`
}

// EdgeInfo is one directed edge of the join graph.
type EdgeInfo struct {
	Source       string `json:"source" yaml:"source"`
	SourceColumn string `json:"source_column" yaml:"source_column"`
	Target       string `json:"target" yaml:"target"`
	TargetColumn string `json:"target_column" yaml:"target_column"`
	JoinType     string `json:"join_type,omitempty" yaml:"join_type,omitempty"`
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	opts := &GraphOptions{}

	cmd := &cobra.Command{
		Use:   "graph [file|-]",
		Short: "Show the join graph of a SELECT",
		Long: `Display the bidirectional join graph built from the JOIN ... ON predicates.

Every join contributes an edge in each direction, keyed by the table's alias
or name. With --to, the paths from the main table to the given table are
listed using the configured search strategy.`,
		Example: `  # Show the join graph
  sqlpath graph query.sql

  # All simple paths from the main table to products
  sqlpath graph query.sql --to products

  # Shortest paths only
  sqlpath graph query.sql --to products --strategy bfs`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SQL, "sql", "", "SQL text to parse instead of a file")
	cmd.Flags().StringVar(&opts.To, "to", "", "List join paths from the main table to this table")
	cmd.Flags().String("strategy", "", "Path search strategy (dfs|bfs)")
	cmd.Flags().Int("max-depth", 0, "Max join hops to explore (0 = unbounded)")

	return cmd
}

func runGraph(cmd *cobra.Command, args []string, opts *GraphOptions) error {
	cc := NewCommandContext(cmd)

	text, source, err := readSQL(cmd, opts.SQL, args)
	if err != nil {
		return err
	}
	stmt, err := cc.Parse(source, text)
	if err != nil {
		return err
	}

	rep := NewGraphReport(stmt)
	if opts.To != "" {
		if stmt.LookupTable(opts.To) == nil {
			return fmt.Errorf("table not found: %s", opts.To)
		}
		rep.Target = opts.To
		for _, p := range lineage.FindJoinPaths(stmt, opts.To, cc.LineageOptions()) {
			rep.Paths = append(rep.Paths, lineage.RenderPath(stmt, p))
		}
	}

	return renderGraph(cc.Renderer, rep)
}

// NewGraphReport lists the tables and directed edges of stmt's join graph.
func NewGraphReport(stmt *core.Statement) *GraphReport {
	graph := stmt.JoinGraph
	if graph == nil {
		graph, _ = core.BuildJoinGraph(stmt)
	}

	rep := &GraphReport{Tables: graph.Tables(), Edges: []EdgeInfo{}}
	if stmt.MainTable != nil {
		rep.Main = stmt.MainTable.EffectiveName()
	}
	for _, name := range rep.Tables {
		for _, e := range graph.Neighbors(name) {
			info := EdgeInfo{
				Source:       e.Source,
				SourceColumn: e.SourceColumn,
				Target:       e.Target,
				TargetColumn: e.TargetColumn,
			}
			if e.Join != nil {
				info.JoinType = string(e.Join.Type)
			}
			rep.Edges = append(rep.Edges, info)
		}
	}
	return rep
}

func renderGraph(r *output.Renderer, rep *GraphReport) error {
	if handled, err := r.Structured(rep); handled {
		return err
	}

	r.Header(1, "Join Graph")
	if r.EffectiveMode() == output.ModeText {
		r.Println()
	}
	renderKeyValue(r, "Main table", rep.Main)
	renderKeyValue(r, "Tables", strings.Join(rep.Tables, ", "))
	r.Println()

	rows := make([][]string, 0, len(rep.Edges))
	for _, e := range rep.Edges {
		rows = append(rows, []string{
			e.Source + "." + e.SourceColumn,
			e.Target + "." + e.TargetColumn,
			orDash(e.JoinType),
		})
	}
	r.Table([]string{"From", "To", "Join"}, rows)

	if rep.Target != "" {
		r.Println()
		r.Header(2, "Paths to "+rep.Target)
		if len(rep.Paths) == 0 {
			r.Muted("no path")
			return nil
		}
		paths := make([][]string, 0, len(rep.Paths))
		for i, p := range rep.Paths {
			paths = append(paths, []string{strconv.Itoa(i + 1), p})
		}
		r.Table([]string{"#", "Path"}, paths)
	}

	if r.EffectiveMode() == output.ModeText {
		r.Println()
		r.Muted(fmt.Sprintf("Total: %d tables, %d edges", len(rep.Tables), len(rep.Edges)))
	}
	return nil
}
