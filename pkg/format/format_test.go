package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/format"
	"github.com/leapstack-labs/sqlpath/pkg/parser"
)

func formatSQL(t *testing.T, sql string) string {
	t.Helper()
	stmt, err := parser.Parse(sql)
	require.NoError(t, err)
	return format.Statement(stmt)
}

func TestFormat_BasicSelect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "simple select",
			input: "SELECT a, b FROM t",
			expected: `SELECT
  a,
  b
FROM t
`,
		},
		{
			name:  "select with where",
			input: "select a from t where x = 1",
			expected: `SELECT
  a
FROM t
WHERE
  x = 1
`,
		},
		{
			name:  "select with alias",
			input: "SELECT a AS col1, b col2 FROM t",
			expected: `SELECT
  a AS col1,
  b AS col2
FROM t
`,
		},
		{
			name:  "select star",
			input: "SELECT * FROM t",
			expected: `SELECT
  *
FROM t
`,
		},
		{
			name:  "select table star",
			input: "SELECT t.* FROM t",
			expected: `SELECT
  t.*
FROM t
`,
		},
		{
			name:  "distinct and qualified table",
			input: "SELECT DISTINCT c.name FROM sales.dbo.customers c;",
			expected: `SELECT DISTINCT
  c.name
FROM sales.dbo.customers c
`,
		},
		{
			name:  "quoted identifiers",
			input: `SELECT "order date", [select] FROM [my table]`,
			expected: `SELECT
  "order date",
  "select"
FROM "my table"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatSQL(t, tt.input))
		})
	}
}

func TestFormat_Joins(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "inner join",
			input: "SELECT u.id FROM users u INNER JOIN orders o ON u.id = o.user_id",
			expected: `SELECT
  u.id
FROM users u
JOIN orders o
  ON u.id = o.user_id
`,
		},
		{
			name:  "left outer join",
			input: "SELECT u.id FROM users u LEFT OUTER JOIN orders o ON u.id >= o.user_id",
			expected: `SELECT
  u.id
FROM users u
LEFT JOIN orders o
  ON u.id >= o.user_id
`,
		},
		{
			name:  "cross join",
			input: "SELECT u.id FROM users u CROSS JOIN dates d",
			expected: `SELECT
  u.id
FROM users u
CROSS JOIN dates d
`,
		},
		{
			name:  "skipped predicates are kept",
			input: "SELECT a.x FROM a JOIN b ON a.id = b.a_id AND b.k = 1",
			expected: `SELECT
  a.x
FROM a
JOIN b
  ON a.id = b.a_id AND b.k = 1
`,
		},
		{
			name:  "derived table",
			input: "SELECT d.x FROM (SELECT x FROM y) d FULL JOIN z ON d.x = z.x",
			expected: `SELECT
  d.x
FROM (SELECT x FROM y) d
FULL JOIN z
  ON d.x = z.x
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatSQL(t, tt.input))
		})
	}
}

func TestFormat_Expressions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"function call", "SELECT UPPER(name) AS n FROM users", "UPPER(name) AS n"},
		{"count star", "SELECT COUNT(*) FROM users", "COUNT(*)"},
		{"date part", "SELECT DATEDIFF(day, a, b) FROM t", "DATEDIFF(DAY, a, b)"},
		{"qualified refs keep their table", "SELECT u.a + u.b FROM users u", "u.a + u.b"},
		{"tighter right operand", "SELECT a + b * c FROM t", "a + b * c"},
		{"looser left operand", "SELECT (a + b) * c FROM t", "(a + b) * c"},
		{"right associativity needs parens", "SELECT a - (b - c) FROM t", "a - (b - c)"},
		{"left associativity is implicit", "SELECT a - b - c FROM t", "a - b - c"},
		{"negative number", "SELECT a - -1 FROM t", "a - -1"},
		{"string escape", "SELECT 'it''s' AS s FROM t", "'it''s' AS s"},
		{"parameter", "SELECT @p * 2 FROM t", "@p * 2"},
		{"is not null", "SELECT a IS NOT NULL FROM t", "a IS NOT NULL"},
		{"is null over comparison", "SELECT a = b IS NULL FROM t", "a = b IS NULL"},
		{"is null over arithmetic", "SELECT (a + b) IS NULL FROM t", "(a + b) IS NULL"},
		{"nested logical", "SELECT COALESCE(a AND (b OR c), 0) FROM t", "COALESCE(a AND (b OR c), 0)"},
		{"unparseable kept verbatim", "SELECT c +, d FROM t", "c +"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := parser.Parse(tt.input)
			require.NoError(t, err)
			require.NotEmpty(t, stmt.Columns)

			p := format.NewPrinter()
			stmt.Columns[0].Accept(p)
			assert.Equal(t, tt.expected+"\n", p.String())
		})
	}
}

func TestFormat_CaseExpression(t *testing.T) {
	got := formatSQL(t, "SELECT CASE WHEN a = 1 THEN 'x' ELSE 'y' END AS k, CASE s WHEN 1 THEN 2 END FROM t")
	assert.Equal(t, `SELECT
  CASE
    WHEN a = 1 THEN 'x'
    ELSE 'y'
  END AS k,
  CASE s
    WHEN 1 THEN 2
  END
FROM t
`, got)
}

func TestFormat_WhereBreaksTopLevelChain(t *testing.T) {
	got := formatSQL(t, "SELECT a FROM t WHERE a = 1 AND (b = 2 OR c = 3) OR d IS NULL")
	assert.Equal(t, `SELECT
  a
FROM t
WHERE
  a = 1
  AND (b = 2 OR c = 3)
  OR d IS NULL
`, got)
}

func TestExpression(t *testing.T) {
	assert.Equal(t, "", format.Expression(nil))

	expr := core.NewBinary(
		core.NewBinary(core.NewColumnRef("u", "a"), "+", core.NewColumnRef("u", "b")),
		"*",
		core.NewLiteral(core.LiteralNumber, "2"),
	)
	assert.Equal(t, "(u.a + u.b) * 2", format.Expression(expr))
}

// TestFormatRoundTrip checks that formatted output parses back to the same
// statement shape and formats identically.
func TestFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"SELECT a, b FROM t",
		"SELECT DISTINCT u.id, u.name AS n, SUM(o.total) AS spent FROM dbo.users u JOIN orders o ON u.id = o.user_id WHERE u.age > @minAge AND o.status <> 'void'",
		"SELECT a * (b + c) - d / e, f = g, h IS NULL FROM t",
		"SELECT CASE WHEN x > 1 THEN CASE y WHEN 2 THEN 'a' END ELSE NULL END FROM t",
		"SELECT DATEADD(MONTH, -1, GETDATE()) AS prev FROM t LEFT JOIN s ON t.id = s.t_id RIGHT JOIN r ON s.id = r.s_id",
		`SELECT "weird name", p.[from] FROM "people" p CROSS JOIN dates d`,
		"SELECT a FROM t WHERE (a = 1 OR b = 2) AND c = 3",
	}

	for _, sql := range inputs {
		t.Run(sql, func(t *testing.T) {
			first, err := parser.Parse(sql)
			require.NoError(t, err)
			require.False(t, first.Incomplete)
			out := format.Statement(first)

			second, err := parser.Parse(out)
			require.NoError(t, err, out)
			assert.Equal(t, out, format.Statement(second))

			require.Len(t, second.Columns, len(first.Columns))
			for i := range first.Columns {
				assert.Equal(t, first.Columns[i].Name, second.Columns[i].Name)
				assert.Equal(t, first.Columns[i].Alias, second.Columns[i].Alias)
				assert.Equal(t, first.Columns[i].Table, second.Columns[i].Table)
			}
			assert.Equal(t, first.Parameters, second.Parameters)
			assert.Equal(t, first.JoinGraph.Tables(), second.JoinGraph.Tables())
			assert.Equal(t, first.JoinGraph.EdgeCount(), second.JoinGraph.EdgeCount())
		})
	}
}

func TestExpressionHandBuiltGeneric(t *testing.T) {
	expr := core.NewGeneric([]string{"INTERVAL", "'1'", "DAY"})
	assert.Equal(t, "INTERVAL '1' DAY", format.Expression(expr))
	assert.Empty(t, expr.References().Columns())
}
