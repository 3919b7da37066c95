package core

import "strings"

// ---------- Statement Types ----------

// TableHandle indexes a table source in Statement.Tables(). Handle 1 is the
// main table and handle i+2 is Joins[i].Table. The zero value means the
// column has not been bound to any table.
type TableHandle int

// NoTable is the unresolved handle.
const NoTable TableHandle = 0

// MainTableHandle always refers to Statement.MainTable.
const MainTableHandle TableHandle = 1

// Statement is the root of the AST for one SELECT.
type Statement struct {
	Distinct  bool
	Columns   []*Column
	MainTable *TableSource
	Joins     []*Join
	Where     Expr // nil when absent

	// Parameters lists every bound parameter, deduplicated case-insensitively.
	Parameters []string
	JoinGraph  *JoinGraph

	// SkippedExpressions holds the raw text of every select item that fell
	// back to an unparseable placeholder.
	SkippedExpressions []string
	// Diagnostics collects non-fatal lexer and parser warnings.
	Diagnostics []string

	Incomplete   bool
	ErrorMessage string
}

// Accept implements Node.
func (s *Statement) Accept(v Visitor) { v.VisitStatement(s) }

// Tables returns every table source in handle order: main table first,
// then each joined table.
func (s *Statement) Tables() []*TableSource {
	tables := make([]*TableSource, 0, len(s.Joins)+1)
	if s.MainTable != nil {
		tables = append(tables, s.MainTable)
	}
	for _, j := range s.Joins {
		tables = append(tables, j.Table)
	}
	return tables
}

// Table returns the table source for a handle, or nil.
func (s *Statement) Table(h TableHandle) *TableSource {
	switch {
	case h == MainTableHandle:
		return s.MainTable
	case h > MainTableHandle && int(h)-2 < len(s.Joins):
		return s.Joins[h-2].Table
	}
	return nil
}

// TableOf returns the table a column was bound to by the resolver, or nil.
func (s *Statement) TableOf(c *Column) *TableSource {
	return s.Table(c.Table)
}

// ResolveTableAlias matches name against the bare, dotted and alias names
// of the main table and then each joined table. The first match wins.
func (s *Statement) ResolveTableAlias(name string) (TableHandle, bool) {
	if name == "" {
		return NoTable, false
	}
	if s.MainTable != nil && s.MainTable.Matches(name) {
		return MainTableHandle, true
	}
	for i, j := range s.Joins {
		if j.Table != nil && j.Table.Matches(name) {
			return TableHandle(i + 2), true
		}
	}
	return NoTable, false
}

// LookupTable is ResolveTableAlias returning the table source directly.
func (s *Statement) LookupTable(name string) *TableSource {
	h, ok := s.ResolveTableAlias(name)
	if !ok {
		return nil
	}
	return s.Table(h)
}

// HasParameter reports whether name is a bound parameter of the statement.
func (s *Statement) HasParameter(name string) bool {
	return containsFold(s.Parameters, name)
}

// AddParameter appends name unless already present. It reports whether
// the parameter was added.
func (s *Statement) AddParameter(name string) bool {
	if s.HasParameter(name) {
		return false
	}
	s.Parameters = append(s.Parameters, name)
	return true
}

// Column is one item of the select list.
type Column struct {
	Name      string // column name, or a synthesized name for expressions
	TableName string // qualifier as written, for plain references
	Alias     string
	Expr      Expr // nil for plain column references

	// Table is assigned by the resolver, never by the parser.
	Table TableHandle
}

// Accept implements Node.
func (c *Column) Accept(v Visitor) { v.VisitColumn(c) }

// IsExpression reports whether the column is a complex expression.
func (c *Column) IsExpression() bool {
	return c.Expr != nil
}

// IsUnparseable reports whether the column is a recovery placeholder.
func (c *Column) IsUnparseable() bool {
	_, ok := c.Expr.(*UnparseableExpr)
	return ok
}

// OutputName returns the alias if present, else the column name.
func (c *Column) OutputName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// QualifiedName returns table.name for plain references, else the name.
func (c *Column) QualifiedName() string {
	if c.TableName == "" || c.IsExpression() {
		return c.Name
	}
	return c.TableName + "." + c.Name
}

// MatchesName reports whether the column's name equals name case-insensitively.
func (c *Column) MatchesName(name string) bool {
	return strings.EqualFold(c.Name, name)
}
