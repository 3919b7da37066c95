package core

// ---------- Expression Types ----------
//
// Every constructor below computes the node's RefSet from its children, so
// the set at any node is complete without a separate traversal. Build
// expression nodes only through these constructors.

// ColumnRefExpr is a column reference, optionally qualified.
type ColumnRefExpr struct {
	exprBase
	Table  string // optional table/alias qualifier
	Column string
	// Implicit is set when the resolver back-filled Table for an
	// unqualified reference.
	Implicit bool
}

// NewColumnRef creates a column reference whose RefSet contains itself.
func NewColumnRef(table, column string) *ColumnRefExpr {
	c := &ColumnRefExpr{Table: table, Column: column}
	c.refs.addColumn(c)
	return c
}

// Accept implements Node.
func (c *ColumnRefExpr) Accept(v Visitor) { v.VisitExpression(c) }

// IsStar reports whether the reference is * or t.*.
func (c *ColumnRefExpr) IsStar() bool { return c.Column == "*" }

// LiteralKind tags the type of a literal.
type LiteralKind int

// LiteralKind constants.
const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralNull
	// LiteralKeyword is a bare date-part word such as DAY in DATEDIFF(DAY, a, b).
	LiteralKeyword
)

// String returns a lower-case name for the kind.
func (k LiteralKind) String() string {
	switch k {
	case LiteralString:
		return "string"
	case LiteralNumber:
		return "number"
	case LiteralNull:
		return "null"
	case LiteralKeyword:
		return "keyword"
	}
	return "unknown"
}

// LiteralExpr is a literal value. Value holds the raw number text, the
// unescaped string, the keyword spelling, or "NULL".
type LiteralExpr struct {
	exprBase
	Kind  LiteralKind
	Value string
}

// NewLiteral creates a literal.
func NewLiteral(kind LiteralKind, value string) *LiteralExpr {
	return &LiteralExpr{Kind: kind, Value: value}
}

// Accept implements Node.
func (l *LiteralExpr) Accept(v Visitor) { v.VisitExpression(l) }

// ParameterExpr is a bound parameter such as @minAge.
type ParameterExpr struct {
	exprBase
	Name string // includes the leading '@'
}

// NewParameter creates a parameter whose RefSet contains its name.
func NewParameter(name string) *ParameterExpr {
	p := &ParameterExpr{Name: name}
	p.refs.addParameter(name)
	return p
}

// Accept implements Node.
func (p *ParameterExpr) Accept(v Visitor) { v.VisitExpression(p) }

// FunctionCallExpr is a function call.
type FunctionCallExpr struct {
	exprBase
	Name string
	Args []Expr
}

// NewFunctionCall creates a function call.
func NewFunctionCall(name string, args []Expr) *FunctionCallExpr {
	return &FunctionCallExpr{
		exprBase: exprBase{refs: mergeRefs(args...)},
		Name:     name,
		Args:     args,
	}
}

// Accept implements Node.
func (f *FunctionCallExpr) Accept(v Visitor) { v.VisitExpression(f) }

// BinaryExpr covers arithmetic (+ - * /) and comparisons (= <> < <= > >=).
type BinaryExpr struct {
	exprBase
	Left  Expr
	Op    string
	Right Expr
}

// NewBinary creates a binary expression.
func NewBinary(left Expr, op string, right Expr) *BinaryExpr {
	return &BinaryExpr{
		exprBase: exprBase{refs: mergeRefs(left, right)},
		Left:     left,
		Op:       op,
		Right:    right,
	}
}

// Accept implements Node.
func (b *BinaryExpr) Accept(v Visitor) { v.VisitExpression(b) }

// IsComparison reports whether Op is a comparison operator.
func (b *BinaryExpr) IsComparison() bool {
	switch b.Op {
	case "=", "<>", "<", "<=", ">", ">=":
		return true
	}
	return false
}

// LogicalOp is AND or OR.
type LogicalOp string

// LogicalOp constants.
const (
	LogicalAnd LogicalOp = "AND"
	LogicalOr  LogicalOp = "OR"
)

// LogicalExpr is a flat chain of operands joined by AND/OR.
// Operators[i] sits between Operands[i] and Operands[i+1].
type LogicalExpr struct {
	exprBase
	Operands  []Expr
	Operators []LogicalOp
}

// NewLogical creates a logical chain. len(operators) must be len(operands)-1.
func NewLogical(operands []Expr, operators []LogicalOp) *LogicalExpr {
	return &LogicalExpr{
		exprBase:  exprBase{refs: mergeRefs(operands...)},
		Operands:  operands,
		Operators: operators,
	}
}

// Accept implements Node.
func (l *LogicalExpr) Accept(v Visitor) { v.VisitExpression(l) }

// IsNullExpr is operand IS [NOT] NULL.
type IsNullExpr struct {
	exprBase
	Operand Expr
	Not     bool
}

// NewIsNull creates an IS [NOT] NULL test.
func NewIsNull(operand Expr, not bool) *IsNullExpr {
	return &IsNullExpr{
		exprBase: exprBase{refs: mergeRefs(operand)},
		Operand:  operand,
		Not:      not,
	}
}

// Accept implements Node.
func (i *IsNullExpr) Accept(v Visitor) { v.VisitExpression(i) }

// CaseWhen is one WHEN ... THEN ... arm.
type CaseWhen struct {
	Condition Expr
	Result    Expr
}

// Accept implements Node.
func (w *CaseWhen) Accept(v Visitor) { v.VisitCaseWhen(w) }

// CaseExpr is a simple (Value != nil) or searched CASE expression.
type CaseExpr struct {
	exprBase
	Value Expr
	Whens []*CaseWhen
	Else  Expr
}

// NewCase creates a CASE expression.
func NewCase(value Expr, whens []*CaseWhen, elseExpr Expr) *CaseExpr {
	return &CaseExpr{
		exprBase: exprBase{refs: mergeRefs(caseChildren(value, whens, elseExpr)...)},
		Value:    value,
		Whens:    whens,
		Else:     elseExpr,
	}
}

// caseChildren lists the operands of a CASE in source order.
func caseChildren(value Expr, whens []*CaseWhen, elseExpr Expr) []Expr {
	children := []Expr{value}
	for _, w := range whens {
		children = append(children, w.Condition, w.Result)
	}
	return append(children, elseExpr)
}

// Accept implements Node.
func (c *CaseExpr) Accept(v Visitor) { v.VisitExpression(c) }

// IsSimple reports whether the CASE compares a value (CASE x WHEN ...).
func (c *CaseExpr) IsSimple() bool { return c.Value != nil }

// GenericExpr holds unparsed raw tokens passed through verbatim. The parser
// never produces it; it is for callers that build statements by hand and
// need the printer to emit text it cannot model.
type GenericExpr struct {
	exprBase
	Tokens []string
}

// NewGeneric creates a passthrough expression.
func NewGeneric(tokens []string) *GenericExpr {
	return &GenericExpr{Tokens: tokens}
}

// Accept implements Node.
func (g *GenericExpr) Accept(v Visitor) { v.VisitExpression(g) }

// UnparseableExpr captures the raw text of a select item that failed to parse.
type UnparseableExpr struct {
	exprBase
	Text string
}

// NewUnparseable creates a placeholder expression.
func NewUnparseable(text string) *UnparseableExpr {
	return &UnparseableExpr{Text: text}
}

// Accept implements Node.
func (u *UnparseableExpr) Accept(v Visitor) { v.VisitExpression(u) }
