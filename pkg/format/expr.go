package format

import (
	"strings"

	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/token"
)

// Binding strength of each expression level, loosest first. Comparisons
// bind tighter than arithmetic in this grammar.
const (
	precLogical = iota + 1
	precAdditive
	precMultiplicative
	precComparison
	precAtom
)

func precedence(e core.Expr) int {
	switch x := e.(type) {
	case *core.LogicalExpr:
		return precLogical
	case *core.BinaryExpr:
		switch {
		case x.IsComparison():
			return precComparison
		case x.Op == "*" || x.Op == "/":
			return precMultiplicative
		default:
			return precAdditive
		}
	case *core.IsNullExpr:
		return precComparison
	}
	return precAtom
}

// VisitExpression implements core.Visitor.
func (p *Printer) VisitExpression(e core.Expr) {
	switch expr := e.(type) {
	case *core.ColumnRefExpr:
		if expr.Implicit {
			p.columnRef("", expr.Column)
		} else {
			p.columnRef(expr.Table, expr.Column)
		}
	case *core.LiteralExpr:
		p.formatLiteral(expr)
	case *core.ParameterExpr:
		p.write(expr.Name)
	case *core.FunctionCallExpr:
		p.write(expr.Name)
		p.write("(")
		p.formatList(len(expr.Args), func(i int) { expr.Args[i].Accept(p) }, ", ", false)
		p.write(")")
	case *core.BinaryExpr:
		p.formatBinary(expr)
	case *core.LogicalExpr:
		for i, operand := range expr.Operands {
			if i > 0 {
				p.space()
				p.write(string(expr.Operators[i-1]))
				p.space()
			}
			p.operand(operand, precedence(operand) <= precLogical)
		}
	case *core.IsNullExpr:
		operand := expr.Operand
		_, nested := operand.(*core.IsNullExpr)
		p.operand(operand, nested || precedence(operand) < precComparison)
		p.space()
		p.kw(token.IS)
		if expr.Not {
			p.space()
			p.kw(token.NOT)
		}
		p.space()
		p.kw(token.NULL)
	case *core.CaseExpr:
		p.formatCase(expr)
	case *core.GenericExpr:
		p.write(strings.Join(expr.Tokens, " "))
	case *core.UnparseableExpr:
		p.write(expr.Text)
	}
}

// VisitCaseWhen implements core.Visitor.
func (p *Printer) VisitCaseWhen(w *core.CaseWhen) {
	p.kw(token.WHEN)
	p.space()
	w.Condition.Accept(p)
	p.space()
	p.kw(token.THEN)
	p.space()
	w.Result.Accept(p)
}

func (p *Printer) formatBinary(b *core.BinaryExpr) {
	prec := precedence(b)
	left, right := precedence(b.Left), precedence(b.Right)

	// Comparisons take a single operand on each side.
	p.operand(b.Left, left < prec || (prec == precComparison && left == precComparison))
	p.space()
	p.write(b.Op)
	p.space()
	p.operand(b.Right, right <= prec)
}

func (p *Printer) formatCase(c *core.CaseExpr) {
	p.kw(token.CASE)
	if c.Value != nil {
		p.space()
		c.Value.Accept(p)
	}

	p.writeln()
	p.indent()
	for _, w := range c.Whens {
		w.Accept(p)
		p.writeln()
	}
	if c.Else != nil {
		p.kw(token.ELSE)
		p.space()
		c.Else.Accept(p)
		p.writeln()
	}
	p.dedent()
	p.kw(token.END)
}

func (p *Printer) formatLiteral(lit *core.LiteralExpr) {
	switch lit.Kind {
	case core.LiteralString:
		p.write(quoteString(lit.Value))
	case core.LiteralNull:
		p.kw(token.NULL)
	default:
		p.write(lit.Value)
	}
}

func (p *Printer) columnRef(table, column string) {
	if table != "" {
		p.ident(table)
		p.write(".")
	}
	p.ident(column)
}

// operand prints e, wrapped in parentheses when paren is set.
func (p *Printer) operand(e core.Expr, paren bool) {
	if paren {
		p.write("(")
	}
	e.Accept(p)
	if paren {
		p.write(")")
	}
}
