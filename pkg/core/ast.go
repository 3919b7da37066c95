package core

// Node is the base interface for all AST nodes.
type Node interface {
	// Accept dispatches to the Visitor method for the node's kind.
	Accept(v Visitor)
}

// Expr is the closed union of expression nodes. Only types declared in this
// package implement it.
type Expr interface {
	Node
	// References returns the column references and parameter names found
	// anywhere beneath the node, deduplicated.
	References() RefSet
	exprNode()
}

// Visitor has one method per node kind. Visitors control their own
// recursion; Accept never descends into children.
type Visitor interface {
	VisitStatement(s *Statement)
	VisitTableSource(t *TableSource)
	VisitJoin(j *Join)
	VisitJoinCondition(c *JoinCondition)
	VisitColumn(c *Column)
	VisitExpression(e Expr)
	VisitCaseWhen(w *CaseWhen)
}

// exprBase carries the aggregated reference set of an expression node.
type exprBase struct {
	refs RefSet
}

func (exprBase) exprNode() {}

// References implements Expr.
func (b *exprBase) References() RefSet { return b.refs }
