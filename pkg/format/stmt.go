package format

import (
	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/token"
)

// VisitStatement implements core.Visitor.
func (p *Printer) VisitStatement(s *core.Statement) {
	if s == nil {
		return
	}

	// SELECT [DISTINCT]
	p.kw(token.SELECT)
	if s.Distinct {
		p.space()
		p.kw(token.DISTINCT)
	}
	p.writeln()

	p.indent()
	p.formatList(len(s.Columns), func(i int) { s.Columns[i].Accept(p) }, ",", true)
	p.writeln()
	p.dedent()

	if s.MainTable != nil {
		p.kw(token.FROM)
		p.space()
		s.MainTable.Accept(p)
		p.writeln()
	}

	for _, j := range s.Joins {
		j.Accept(p)
		p.writeln()
	}

	if s.Where != nil {
		p.kw(token.WHERE)
		p.writeln()
		p.indent()
		p.formatCondition(s.Where)
		p.dedent()
		p.writeln()
	}
}

// VisitColumn implements core.Visitor.
func (p *Printer) VisitColumn(c *core.Column) {
	switch {
	case c.IsUnparseable():
		p.write(c.Expr.(*core.UnparseableExpr).Text)
		return
	case c.Expr != nil:
		c.Expr.Accept(p)
	default:
		if c.TableName != "" {
			p.ident(c.TableName)
			p.write(".")
		}
		p.ident(c.Name)
	}

	if c.Alias != "" {
		p.space()
		p.kw(token.AS)
		p.space()
		p.ident(c.Alias)
	}
}

// VisitTableSource implements core.Visitor.
func (p *Printer) VisitTableSource(t *core.TableSource) {
	if t.Derived {
		p.write(t.DerivedSQL)
	} else {
		for _, q := range t.Qualifiers {
			p.ident(q)
			p.write(".")
		}
		p.ident(t.Name)
	}
	if t.Alias != "" {
		p.space()
		p.ident(t.Alias)
	}
}

// VisitJoin implements core.Visitor.
func (p *Printer) VisitJoin(j *core.Join) {
	if j.Type == core.JoinInner {
		// plain JOIN for inner
		p.kw(token.JOIN)
	} else {
		p.write(string(j.Type))
		p.space()
		p.kw(token.JOIN)
	}
	p.space()
	j.Table.Accept(p)

	if j.Condition == nil {
		return
	}
	p.writeln()
	p.indent()
	p.kw(token.ON)
	p.space()
	j.Condition.Accept(p)
	if j.SkippedPredicates != "" {
		p.space()
		p.write(j.SkippedPredicates)
	}
	p.dedent()
}

// VisitJoinCondition implements core.Visitor.
func (p *Printer) VisitJoinCondition(c *core.JoinCondition) {
	p.columnRef(c.Left.Table, c.Left.Column)
	p.space()
	p.write(c.Operator)
	p.space()
	p.columnRef(c.Right.Table, c.Right.Column)
}

// formatCondition breaks a top-level logical chain one operand per line.
func (p *Printer) formatCondition(e core.Expr) {
	l, ok := e.(*core.LogicalExpr)
	if !ok {
		e.Accept(p)
		return
	}
	for i, operand := range l.Operands {
		if i > 0 {
			p.writeln()
			p.write(string(l.Operators[i-1]))
			p.space()
		}
		p.operand(operand, precedence(operand) <= precLogical)
	}
}
