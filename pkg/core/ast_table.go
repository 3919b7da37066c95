package core

import "strings"

// ---------- Table Sources ----------

// DerivedTableName is the placeholder name given to a skipped subquery in FROM.
const DerivedTableName = "DerivedTable"

// TableSource is a table in FROM or JOIN, optionally qualified and aliased.
type TableSource struct {
	Qualifiers []string // catalog and/or schema parts, outermost first
	Name       string
	Alias      string

	// Derived is set for a parenthesized subquery. Its text is kept only
	// so printers can reproduce it; it is never parsed.
	Derived    bool
	DerivedSQL string
}

// Accept implements Node.
func (t *TableSource) Accept(v Visitor) { v.VisitTableSource(t) }

// EffectiveName returns the alias if present, else the table name.
func (t *TableSource) EffectiveName() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// FullName returns the dotted name as written, without the alias.
func (t *TableSource) FullName() string {
	if len(t.Qualifiers) == 0 {
		return t.Name
	}
	return strings.Join(t.Qualifiers, ".") + "." + t.Name
}

// Matches reports whether name refers to this table by bare name,
// full dotted name, or alias. Comparison is case-insensitive.
func (t *TableSource) Matches(name string) bool {
	if name == "" {
		return false
	}
	if strings.EqualFold(name, t.Name) || strings.EqualFold(name, t.FullName()) {
		return true
	}
	return t.Alias != "" && strings.EqualFold(name, t.Alias)
}
