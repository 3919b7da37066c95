package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/format"
	"github.com/leapstack-labs/sqlpath/pkg/lineage"
)

// StatementReport is the serializable summary of a parsed statement.
type StatementReport struct {
	Source      string       `json:"source,omitempty" yaml:"source,omitempty"`
	Distinct    bool         `json:"distinct" yaml:"distinct"`
	Tables      []TableInfo  `json:"tables" yaml:"tables"`
	Columns     []ColumnInfo `json:"columns" yaml:"columns"`
	Joins       []JoinInfo   `json:"joins" yaml:"joins"`
	Parameters  []string     `json:"parameters" yaml:"parameters"`
	Lineage     []PathInfo   `json:"lineage,omitempty" yaml:"lineage,omitempty"`
	Skipped     []string     `json:"skipped_expressions,omitempty" yaml:"skipped_expressions,omitempty"`
	Diagnostics []string     `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// TableInfo describes one table source.
type TableInfo struct {
	Handle   int    `json:"handle" yaml:"handle"`
	Name     string `json:"name" yaml:"name"`
	FullName string `json:"full_name" yaml:"full_name"`
	Alias    string `json:"alias,omitempty" yaml:"alias,omitempty"`
	Derived  bool   `json:"derived,omitempty" yaml:"derived,omitempty"`
}

// ColumnInfo describes one select item.
type ColumnInfo struct {
	Name       string `json:"name" yaml:"name"`
	Alias      string `json:"alias,omitempty" yaml:"alias,omitempty"`
	Kind       string `json:"kind" yaml:"kind"`
	Table      string `json:"table,omitempty" yaml:"table,omitempty"`
	Expression string `json:"expression,omitempty" yaml:"expression,omitempty"`
}

// JoinInfo describes one JOIN clause.
type JoinInfo struct {
	Type      string `json:"type" yaml:"type"`
	Table     string `json:"table" yaml:"table"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
	Skipped   string `json:"skipped_predicates,omitempty" yaml:"skipped_predicates,omitempty"`
}

// PathInfo is the lineage answer for one field.
type PathInfo struct {
	Field string   `json:"field" yaml:"field"`
	Found bool     `json:"found" yaml:"found"`
	Kind  string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Table string   `json:"table,omitempty" yaml:"table,omitempty"`
	Path  string   `json:"path,omitempty" yaml:"path,omitempty"`
	Hops  []string `json:"hops,omitempty" yaml:"hops,omitempty"`
}

// Column kinds.
const (
	kindColumn      = "column"
	kindExpression  = "expression"
	kindUnparseable = "unparseable"
	kindAlias       = "alias"
	kindParameter   = "parameter"
)

// NewStatementReport summarizes stmt. Lineage is filled for every
// described column using opts.
func NewStatementReport(source string, stmt *core.Statement, opts lineage.Options) *StatementReport {
	rep := &StatementReport{
		Source:      source,
		Distinct:    stmt.Distinct,
		Tables:      []TableInfo{},
		Columns:     []ColumnInfo{},
		Joins:       []JoinInfo{},
		Parameters:  append([]string{}, stmt.Parameters...),
		Skipped:     stmt.SkippedExpressions,
		Diagnostics: stmt.Diagnostics,
	}

	for i, t := range stmt.Tables() {
		rep.Tables = append(rep.Tables, TableInfo{
			Handle:   i + int(core.MainTableHandle),
			Name:     t.Name,
			FullName: t.FullName(),
			Alias:    t.Alias,
			Derived:  t.Derived,
		})
	}

	for _, col := range stmt.Columns {
		info := ColumnInfo{Name: col.Name, Alias: col.Alias, Kind: kindColumn}
		if t := stmt.TableOf(col); t != nil {
			info.Table = t.EffectiveName()
		}
		switch {
		case col.IsUnparseable():
			info.Kind = kindUnparseable
			info.Expression = format.Expression(col.Expr)
		case col.IsExpression():
			info.Kind = kindExpression
			info.Expression = format.Expression(col.Expr)
		}
		rep.Columns = append(rep.Columns, info)
	}

	for _, j := range stmt.Joins {
		info := JoinInfo{Type: string(j.Type), Table: j.Table.FullName(), Skipped: j.SkippedPredicates}
		if j.Table.Alias != "" {
			info.Table += " " + j.Table.Alias
		}
		if c := j.Condition; c != nil {
			info.Condition = fmt.Sprintf("%s %s %s", c.Left, c.Operator, c.Right)
		}
		rep.Joins = append(rep.Joins, info)
	}

	for _, r := range lineage.Describe(stmt, opts) {
		rep.Lineage = append(rep.Lineage, newPathInfo(r))
	}
	return rep
}

func newPathInfo(r *lineage.ColumnPathResult) PathInfo {
	info := PathInfo{
		Field: r.FieldName,
		Found: r.Found,
		Table: r.TableName,
		Path:  r.DataTablePath,
	}
	switch {
	case !r.Found:
	case r.IsParameter:
		info.Kind = kindParameter
	case r.IsAlias:
		info.Kind = kindAlias
	case r.IsColumn:
		info.Kind = kindColumn
	default:
		info.Kind = kindExpression
	}
	for _, e := range r.Path {
		if e == nil {
			continue
		}
		info.Hops = append(info.Hops, e.String())
	}
	return info
}

// yesNo renders a flag for tables.
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
