package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlpath/internal/testutil"
	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/parser"
)

func mustParse(t *testing.T, sql string) *core.Statement {
	t.Helper()
	p := parser.New(parser.WithLogger(testutil.NewTestLogger(t)))
	stmt, err := p.Parse(sql)
	require.NoError(t, err, sql)
	require.NotNil(t, stmt)
	return stmt
}

func TestParseSimpleSelect(t *testing.T) {
	stmt := mustParse(t, "SELECT id, name FROM users")

	require.NotNil(t, stmt.MainTable)
	assert.Equal(t, "users", stmt.MainTable.Name)
	require.Len(t, stmt.Columns, 2)
	assert.Empty(t, stmt.Joins)
	assert.Nil(t, stmt.Where)
	assert.False(t, stmt.Incomplete)
	assert.Empty(t, stmt.SkippedExpressions)
	assert.Empty(t, stmt.Diagnostics)
}

func TestParseColumnCountAndNames(t *testing.T) {
	tests := []struct {
		sql   string
		names []string
	}{
		{"SELECT a FROM t", []string{"a"}},
		{"SELECT a, b, c FROM t x", []string{"a", "b", "c"}},
		{"SELECT x.a, x.b FROM t x", []string{"a", "b"}},
		{"SELECT CustomerID, [Order Date] FROM t", []string{"CustomerID", "Order Date"}},
		{"SELECT * FROM t", []string{"*"}},
		{"SELECT t.*, a FROM t", []string{"*", "a"}},
		{"SELECT year, count FROM t", []string{"year", "count"}},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			stmt := mustParse(t, tt.sql)
			require.Len(t, stmt.Columns, len(tt.names))
			for i, col := range stmt.Columns {
				assert.Equal(t, tt.names[i], col.Name)
				assert.False(t, col.IsExpression())
			}
		})
	}
}

func TestParseDistinctAndSemicolon(t *testing.T) {
	stmt := mustParse(t, "SELECT DISTINCT a FROM t;")
	assert.True(t, stmt.Distinct)
	assert.Empty(t, stmt.Diagnostics)
}

func TestParseColumnAliases(t *testing.T) {
	stmt := mustParse(t, "SELECT a AS x, b y, c AS 'Full Name', SUM(d) total, e AS [Select] FROM t")
	aliases := make([]string, len(stmt.Columns))
	for i, col := range stmt.Columns {
		aliases[i] = col.Alias
	}
	assert.Equal(t, []string{"x", "y", "Full Name", "total", "Select"}, aliases)
	assert.Equal(t, "total", stmt.Columns[3].OutputName())
}

func TestParseExpressionColumnNames(t *testing.T) {
	sql := "SELECT COUNT(*), SUM(o.total) AS total, a + b, a - b, a * b, a / b, " +
		"CASE WHEN a = 1 THEN 'x' END, DATEDIFF(DAY, a, b), getdate(), 'lit', 42, NULL, @p, a = b, " +
		"a <> b, a IS NULL, a = 1 AND b = 2 FROM t"
	stmt := mustParse(t, sql)

	var names []string
	for _, col := range stmt.Columns {
		assert.True(t, col.IsExpression(), col.Name)
		names = append(names, col.Name)
	}
	assert.Equal(t, []string{
		"CountExpression", "SumExpression", "ConcatenationExpression", "SubtractionExpression",
		"MultiplicationExpression", "DivisionExpression", "CaseExpression", "DatediffExpression",
		"GetdateExpression", "LiteralExpression", "LiteralExpression", "LiteralExpression",
		"ParameterExpression", "EqualExpression", "NotEqualExpression", "IsNullExpression",
		"LogicalExpression",
	}, names)
}

func TestParseColumnRecovery(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		columns int
		skipped []string
		bad     []int
	}{
		{
			name:    "malformed function between valid columns",
			sql:     "SELECT a, CAST(x AS INT), b FROM t",
			columns: 3,
			skipped: []string{"CAST(x AS INT)"},
			bad:     []int{1},
		},
		{
			name:    "missing NULL after IS",
			sql:     "SELECT a, b IS c, d FROM t",
			columns: 3,
			skipped: []string{"b IS c"},
			bad:     []int{1},
		},
		{
			name:    "stray token after alias",
			sql:     "SELECT a, b c d, e FROM t",
			columns: 3,
			skipped: []string{"b c d"},
			bad:     []int{1},
		},
		{
			name:    "unterminated case keeps commas inside",
			sql:     "SELECT CASE WHEN a = 1 THEN COALESCE(b, c) ELSE d, e FROM t",
			columns: 1,
			skipped: []string{"CASE WHEN a = 1 THEN COALESCE(b, c) ELSE d, e"},
			bad:     []int{0},
		},
		{
			name:    "parenthesized subquery",
			sql:     "SELECT a, (SELECT MAX(x) FROM y), b FROM t",
			columns: 3,
			skipped: []string{"(SELECT MAX(x) FROM y)"},
			bad:     []int{1},
		},
		{
			name:    "empty item",
			sql:     "SELECT a, , b FROM t",
			columns: 3,
			skipped: []string{","},
			bad:     []int{1},
		},
		{
			name:    "two failures are numbered",
			sql:     "SELECT a IS 1, b, c +, d FROM t",
			columns: 4,
			skipped: []string{"a IS 1", "c +"},
			bad:     []int{0, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parser.New(parser.WithLogger(testutil.NewTestLogger(t)))
			stmt, err := p.Parse(tt.sql)
			require.NoError(t, err)

			require.Len(t, stmt.Columns, tt.columns)
			assert.Equal(t, tt.skipped, stmt.SkippedExpressions)
			assert.Equal(t, tt.skipped, p.SkippedExpressions())
			assert.True(t, stmt.Incomplete)
			assert.NotEmpty(t, stmt.ErrorMessage)
			assert.Equal(t, "t", stmt.MainTable.Name)

			for n, idx := range tt.bad {
				col := stmt.Columns[idx]
				assert.True(t, col.IsUnparseable())
				assert.Equal(t, "UnparseableExpression_"+string(rune('1'+n)), col.Name)
				assert.Equal(t, tt.skipped[n], col.Expr.(*core.UnparseableExpr).Text)
			}
		})
	}
}

func TestParserResetsBetweenParses(t *testing.T) {
	p := parser.New()

	_, err := p.Parse("SELECT a IS 1 FROM t")
	require.NoError(t, err)
	require.Len(t, p.SkippedExpressions(), 1)

	stmt, err := p.Parse("SELECT b IS 2 FROM t")
	require.NoError(t, err)
	assert.Equal(t, []string{"b IS 2"}, p.SkippedExpressions())
	assert.Equal(t, "UnparseableExpression_1", stmt.Columns[0].Name)

	_, err = p.Parse("SELECT a FROM t")
	require.NoError(t, err)
	assert.Empty(t, p.SkippedExpressions())
}

func TestParseWhere(t *testing.T) {
	stmt := mustParse(t, "SELECT u.id FROM users u WHERE u.age > @minAge AND u.deleted IS NOT NULL")

	logical, ok := stmt.Where.(*core.LogicalExpr)
	require.True(t, ok)
	require.Len(t, logical.Operands, 2)
	assert.Equal(t, []core.LogicalOp{core.LogicalAnd}, logical.Operators)

	isNull, ok := logical.Operands[1].(*core.IsNullExpr)
	require.True(t, ok)
	assert.True(t, isNull.Not)

	assert.Equal(t, []string{"@minAge"}, stmt.Parameters)
}

func TestParseTrailingClauses(t *testing.T) {
	stmt := mustParse(t, "SELECT a FROM t WHERE a = 1 GROUP BY a ORDER BY a")
	require.NotNil(t, stmt.Where)
	require.Len(t, stmt.Diagnostics, 1)
	assert.Equal(t, "unparsed trailing input starting at GROUP", stmt.Diagnostics[0])
}

func TestParseLexerDiagnosticsDoNotAbort(t *testing.T) {
	stmt := mustParse(t, "SELECT a, b # FROM t")
	assert.Len(t, stmt.Columns, 2)
	assert.Equal(t, []string{"line 1: unexpected character '#'"}, stmt.Diagnostics)
}

func TestParseStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		msg  string
	}{
		{"missing select", "FROM t", "expected SELECT"},
		{"missing from", "SELECT a", "expected FROM"},
		{"empty select list", "SELECT FROM t", "select list is empty"},
		{"empty input", "", "expected SELECT"},
		{"missing table", "SELECT a FROM", "expected identifier"},
		{"alias required after AS", "SELECT a FROM users AS", "expected identifier"},
		{"too many name parts", "SELECT a FROM c.s.t.x", "more than three parts"},
		{"derived table without alias", "SELECT a FROM (SELECT 1)", "derived table requires an alias"},
		{"unbalanced derived table", "SELECT a FROM (SELECT (1) x", "unbalanced parentheses"},
		{"join without on", "SELECT a FROM t JOIN s", "expected ON"},
		{"cross join with on", "SELECT a FROM t CROSS JOIN s ON t.id = s.id", "CROSS JOIN cannot have an ON clause"},
		{"unqualified join column", "SELECT a FROM t JOIN s ON id = s.id", `"id" must be qualified`},
		{"join operator", "SELECT a FROM t JOIN s ON t.id + s.id", "expected comparison operator"},
		{"left without join", "SELECT a FROM t LEFT s ON t.id = s.id", "expected JOIN"},
		{"bad where", "SELECT a FROM t WHERE a IS 1", "expected NULL after IS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.Parse(tt.sql)
			require.Error(t, err)
			assert.Nil(t, stmt)
			assert.Contains(t, err.Error(), tt.msg)

			var pe *parser.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, parser.KindSyntax, pe.Kind)
			assert.Equal(t, 1, pe.Line)
			assert.True(t, errors.Is(err, parser.ErrSyntax))
		})
	}
}

func TestParseErrorFormat(t *testing.T) {
	_, err := parser.Parse("SELECT a\nFROM t JOIN s ON t.id = s")
	require.Error(t, err)

	var pe *parser.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, "", pe.Token, "error at EOF has no lexeme")
	assert.True(t, strings.HasPrefix(err.Error(), "parse error at line 2"))
}

func TestParseMaxDepth(t *testing.T) {
	deep := strings.Repeat("(", 10) + "a" + strings.Repeat(")", 10)

	p := parser.New(parser.WithMaxDepth(5))
	_, err := p.Parse("SELECT a FROM t WHERE " + deep)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum depth 5")

	stmt, err := p.Parse("SELECT " + deep + ", b FROM t")
	require.NoError(t, err, "too-deep select items are recovered")
	require.Len(t, stmt.Columns, 2)
	assert.True(t, stmt.Columns[0].IsUnparseable())

	stmt, err = parser.Parse("SELECT " + deep + " FROM t")
	require.NoError(t, err)
	assert.False(t, stmt.Columns[0].IsUnparseable())
}
