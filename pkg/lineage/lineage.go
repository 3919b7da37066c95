// Package lineage answers where a field of a parsed SELECT lives and how its
// table is reached from the main table through the join graph.
package lineage

import (
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sqlpath/pkg/core"
)

// ColumnPathResult describes where a field was found.
type ColumnPathResult struct {
	Found       bool
	IsColumn    bool
	IsAlias     bool
	IsParameter bool

	FieldName string
	// TableName is the effective name (alias or name) of the owning table.
	TableName string
	Table     *core.TableSource
	// DataTablePath is the rendered lineage path, e.g. users.[id]orders.
	DataTablePath string
	Path          JoinPath
}

// Options configures a lineage query.
type Options struct {
	Strategy Strategy
	MaxDepth int // 0 means unbounded
	Logger   *slog.Logger
}

// DefaultOptions returns depth-first search with the default depth bound.
func DefaultOptions() Options {
	return Options{Strategy: StrategyDFS, MaxDepth: DefaultMaxDepth}
}

// GetColumnPath resolves field against stmt with the default options.
// mainTable, when non-empty, must name the statement's main table or the
// result is nil.
func GetColumnPath(stmt *core.Statement, field, mainTable string) *ColumnPathResult {
	return GetColumnPathWithOptions(stmt, field, mainTable, DefaultOptions())
}

// GetColumnPathWithOptions is GetColumnPath with explicit search options.
func GetColumnPathWithOptions(stmt *core.Statement, field, mainTable string, opts Options) *ColumnPathResult {
	if stmt == nil || stmt.MainTable == nil {
		return nil
	}
	if mainTable != "" && !stmt.MainTable.Matches(mainTable) {
		return nil
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	result := &ColumnPathResult{FieldName: field}

	if strings.HasPrefix(field, "@") {
		result.IsParameter = stmt.HasParameter(field)
		result.Found = result.IsParameter
		return result
	}

	hit, ok := locate(stmt, field)
	if !ok {
		logger.Debug("field not found", slog.String("field", field))
		return result
	}

	result.Found = true
	result.IsColumn = hit.isColumn
	result.IsAlias = hit.isAlias
	result.Table = hit.table
	if hit.table == nil {
		result.TableName = hit.qualifier
		result.DataTablePath = hit.qualifier
		logger.Warn("field owner not resolved",
			slog.String("field", field),
			slog.String("qualifier", hit.qualifier))
		return result
	}
	result.TableName = hit.table.EffectiveName()

	if hit.table == stmt.MainTable {
		result.DataTablePath = stmt.MainTable.FullName()
		return result
	}

	paths := FindJoinPaths(stmt, result.TableName, opts)
	if len(paths) == 0 {
		result.DataTablePath = hit.table.FullName()
		logger.Debug("no join path", slog.String("table", result.TableName))
		return result
	}
	result.Path = paths[0]
	result.DataTablePath = RenderPath(stmt, result.Path)
	logger.Debug("join path resolved",
		slog.String("field", field),
		slog.String("path", result.DataTablePath),
		slog.Int("candidates", len(paths)))
	return result
}

// Describe resolves the output name of every parseable select item.
func Describe(stmt *core.Statement, opts Options) []*ColumnPathResult {
	var out []*ColumnPathResult
	for _, col := range stmt.Columns {
		if col.IsUnparseable() || (col.IsExpression() && col.Alias == "") {
			continue
		}
		if r := GetColumnPathWithOptions(stmt, col.OutputName(), "", opts); r != nil {
			out = append(out, r)
		}
	}
	return out
}

// hit is the first match of a field name.
type hit struct {
	isColumn  bool
	isAlias   bool
	table     *core.TableSource
	qualifier string // as written, when table is nil
}

// locate searches plain names, then aliases, then references nested in
// expressions, then join condition columns.
func locate(stmt *core.Statement, field string) (hit, bool) {
	for _, col := range stmt.Columns {
		if col.IsUnparseable() || !col.MatchesName(field) {
			continue
		}
		return hit{isColumn: true, table: stmt.TableOf(col), qualifier: col.TableName}, true
	}

	for _, col := range stmt.Columns {
		if col.Alias == "" || !strings.EqualFold(col.Alias, field) {
			continue
		}
		return hit{
			isColumn:  !col.IsExpression(),
			isAlias:   true,
			table:     stmt.TableOf(col),
			qualifier: col.TableName,
		}, true
	}

	for _, col := range stmt.Columns {
		if !col.IsExpression() || col.IsUnparseable() {
			continue
		}
		for _, ref := range col.Expr.References().Columns() {
			if strings.EqualFold(ref.Column, field) {
				return refHit(stmt, ref.Table), true
			}
		}
	}

	for _, j := range stmt.Joins {
		if j.Condition == nil {
			continue
		}
		for _, side := range []core.ColumnRef{j.Condition.Left, j.Condition.Right} {
			if strings.EqualFold(side.Column, field) {
				return refHit(stmt, side.Table), true
			}
		}
	}

	return hit{}, false
}

func refHit(stmt *core.Statement, qualifier string) hit {
	h := hit{isColumn: true, qualifier: qualifier}
	if qualifier == "" {
		h.table = stmt.MainTable
	} else {
		h.table = stmt.LookupTable(qualifier)
	}
	return h
}
