package core

import "strings"

// RefSet is the deduplicated set of column references and parameter names
// beneath an expression node. Columns are deduplicated by case-insensitive
// (table, column); parameters by case-insensitive name. Insertion order is
// preserved.
type RefSet struct {
	columns []*ColumnRefExpr
	params  []string
}

// Columns returns the referenced columns in first-seen order.
func (r RefSet) Columns() []*ColumnRefExpr {
	return r.columns
}

// Parameters returns the referenced parameter names in first-seen order.
func (r RefSet) Parameters() []string {
	return r.params
}

// HasColumn reports whether a reference to (table, column) is in the set.
// An empty table matches any qualifier.
func (r RefSet) HasColumn(table, column string) bool {
	for _, c := range r.columns {
		if !strings.EqualFold(c.Column, column) {
			continue
		}
		if table == "" || strings.EqualFold(c.Table, table) {
			return true
		}
	}
	return false
}

// HasParameter reports whether name is in the set.
func (r RefSet) HasParameter(name string) bool {
	return containsFold(r.params, name)
}

func (r *RefSet) addColumn(ref *ColumnRefExpr) {
	for _, c := range r.columns {
		if strings.EqualFold(c.Table, ref.Table) && strings.EqualFold(c.Column, ref.Column) {
			return
		}
	}
	r.columns = append(r.columns, ref)
}

func (r *RefSet) addParameter(name string) {
	if !containsFold(r.params, name) {
		r.params = append(r.params, name)
	}
}

func (r *RefSet) merge(other RefSet) {
	for _, c := range other.columns {
		r.addColumn(c)
	}
	for _, p := range other.params {
		r.addParameter(p)
	}
}

// mergeRefs builds the reference set of a parent from its children.
// Nil children are skipped.
func mergeRefs(children ...Expr) RefSet {
	var refs RefSet
	for _, child := range children {
		if child != nil {
			refs.merge(child.References())
		}
	}
	return refs
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
