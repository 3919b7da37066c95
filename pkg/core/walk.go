package core

import "fmt"

// Walk visits e and its descendants depth-first, parents before children.
// If fn returns false the children of that node are skipped.
//
// The switch is exhaustive over the expression union; a new node kind must
// be added here or Walk panics.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}

	switch n := e.(type) {
	case *ColumnRefExpr, *LiteralExpr, *ParameterExpr, *GenericExpr, *UnparseableExpr:
		// leaves
	case *FunctionCallExpr:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *LogicalExpr:
		for _, op := range n.Operands {
			Walk(op, fn)
		}
	case *IsNullExpr:
		Walk(n.Operand, fn)
	case *CaseExpr:
		Walk(n.Value, fn)
		for _, w := range n.Whens {
			Walk(w.Condition, fn)
			Walk(w.Result, fn)
		}
		Walk(n.Else, fn)
	default:
		panic(fmt.Sprintf("core.Walk: unhandled expression type %T", e))
	}
}

// RebuildRefs recomputes the carried reference set of e and every node
// below it, children first. Call it after rewriting column qualifiers in
// place, since the sets of ancestors were merged from the old values.
func RebuildRefs(e Expr) {
	switch n := e.(type) {
	case nil:
	case *ColumnRefExpr, *LiteralExpr, *ParameterExpr, *GenericExpr, *UnparseableExpr:
		// leaf sets hold the node itself or nothing
	case *FunctionCallExpr:
		for _, arg := range n.Args {
			RebuildRefs(arg)
		}
		n.refs = mergeRefs(n.Args...)
	case *BinaryExpr:
		RebuildRefs(n.Left)
		RebuildRefs(n.Right)
		n.refs = mergeRefs(n.Left, n.Right)
	case *LogicalExpr:
		for _, op := range n.Operands {
			RebuildRefs(op)
		}
		n.refs = mergeRefs(n.Operands...)
	case *IsNullExpr:
		RebuildRefs(n.Operand)
		n.refs = mergeRefs(n.Operand)
	case *CaseExpr:
		children := caseChildren(n.Value, n.Whens, n.Else)
		for _, c := range children {
			RebuildRefs(c)
		}
		n.refs = mergeRefs(children...)
	default:
		panic(fmt.Sprintf("core.RebuildRefs: unhandled expression type %T", e))
	}
}

// CollectRefs derives the reference set of e by traversal. Parsers never
// need it since every node carries its set; it exists to check that the
// carried sets are complete.
func CollectRefs(e Expr) RefSet {
	var refs RefSet
	Walk(e, func(n Expr) bool {
		switch x := n.(type) {
		case *ColumnRefExpr:
			refs.addColumn(x)
		case *ParameterExpr:
			refs.addParameter(x.Name)
		}
		return true
	})
	return refs
}
