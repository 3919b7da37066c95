package parser

import "github.com/leapstack-labs/sqlpath/pkg/core"

// resolver binds columns to table handles after parsing. Names are looked
// up through Statement.ResolveTableAlias, the same lookup the join graph
// builder uses.
type resolver struct {
	stmt *core.Statement
}

// resolve binds every column to its table, back-fills unqualified
// expression references with the main table, collects parameters and
// builds the join graph. It returns the join graph warnings.
func resolve(stmt *core.Statement) []string {
	r := &resolver{stmt: stmt}

	for _, col := range stmt.Columns {
		r.resolveColumn(col)
	}
	r.collectParameters()

	graph, warnings := core.BuildJoinGraph(stmt)
	stmt.JoinGraph = graph
	return warnings
}

func (r *resolver) resolveColumn(col *core.Column) {
	switch {
	case col.IsUnparseable():
		return

	case col.IsExpression():
		mainName := r.stmt.MainTable.EffectiveName()
		core.Walk(col.Expr, func(e core.Expr) bool {
			ref, ok := e.(*core.ColumnRefExpr)
			if !ok {
				return true
			}
			h := core.MainTableHandle
			if ref.Table == "" {
				ref.Table = mainName
				ref.Implicit = true
			} else if found, ok := r.stmt.ResolveTableAlias(ref.Table); ok {
				h = found
			} else {
				return true
			}
			if col.Table == core.NoTable {
				col.Table = h
			}
			return true
		})
		// Back-filled qualifiers can collapse references that were
		// distinct when the ancestors merged them.
		core.RebuildRefs(col.Expr)

	case col.TableName == "":
		col.Table = core.MainTableHandle

	default:
		if h, ok := r.stmt.ResolveTableAlias(col.TableName); ok {
			col.Table = h
		}
	}
}

// collectParameters gathers parameters of every column expression and the
// WHERE clause, in that order.
func (r *resolver) collectParameters() {
	for _, col := range r.stmt.Columns {
		if col.Expr == nil {
			continue
		}
		for _, name := range col.Expr.References().Parameters() {
			r.stmt.AddParameter(name)
		}
	}
	if r.stmt.Where != nil {
		for _, name := range r.stmt.Where.References().Parameters() {
			r.stmt.AddParameter(name)
		}
	}
}
