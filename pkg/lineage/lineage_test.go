package lineage_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlpath/internal/testutil"
	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/lineage"
	"github.com/leapstack-labs/sqlpath/pkg/parser"
)

const chainSQL = `SELECT u.id, o.total AS order_total, p.name, oi.qty * p.price AS line_value, COALESCE(o.note, 'n/a')
	FROM users u
	JOIN orders o ON u.id = o.user_id
	LEFT JOIN order_items oi ON o.id = oi.order_id
	LEFT JOIN products p ON oi.product_id = p.id
	WHERE u.age > @minAge`

// shortcutSQL joins a to d twice: through b and c, and directly via the
// condition of the last join.
const shortcutSQL = `SELECT d.code
	FROM a
	JOIN b ON a.id = b.a_id
	JOIN c ON b.id = c.b_id
	JOIN d ON c.id = d.c_id
	JOIN x ON a.id = d.a_id`

func mustParse(t *testing.T, sql string) *core.Statement {
	t.Helper()
	stmt, err := parser.Parse(sql)
	require.NoError(t, err)
	return stmt
}

func TestGetColumnPathMainTable(t *testing.T) {
	stmt := mustParse(t, "SELECT u.id, u.name FROM users u INNER JOIN orders o ON u.id = o.user_id")

	res := lineage.GetColumnPath(stmt, "id", "")
	require.NotNil(t, res)
	assert.True(t, res.Found)
	assert.True(t, res.IsColumn)
	assert.False(t, res.IsAlias)
	assert.Equal(t, "u", res.TableName)
	assert.Equal(t, "users", res.DataTablePath)
	assert.Same(t, stmt.MainTable, res.Table)
	assert.Empty(t, res.Path)
}

func TestGetColumnPathAcrossJoins(t *testing.T) {
	stmt := mustParse(t, chainSQL)

	tests := []struct {
		field    string
		table    string
		path     string
		hops     int
		isColumn bool
		isAlias  bool
	}{
		{"total", "o", "users.[id]orders", 1, true, false},
		{"order_total", "o", "users.[id]orders", 1, true, true},
		{"name", "p", "users.[id]orders.[id]order_items.[product_id]products", 3, true, false},
		{"line_value", "oi", "users.[id]orders.[id]order_items", 2, false, true},
		{"qty", "oi", "users.[id]orders.[id]order_items", 2, true, false},
		{"note", "o", "users.[id]orders", 1, true, false},
		{"user_id", "o", "users.[id]orders", 1, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			res := lineage.GetColumnPath(stmt, tt.field, "")
			require.NotNil(t, res)
			require.True(t, res.Found)
			assert.Equal(t, tt.isColumn, res.IsColumn)
			assert.Equal(t, tt.isAlias, res.IsAlias)
			assert.Equal(t, tt.table, res.TableName)
			assert.Equal(t, tt.path, res.DataTablePath)
			assert.Len(t, res.Path, tt.hops)
			if tt.hops > 0 {
				assert.Equal(t, tt.hops, strings.Count(res.DataTablePath, ".["))
				assert.True(t, strings.HasPrefix(res.DataTablePath, "users."))
			}
		})
	}
}

func TestGetColumnPathParameters(t *testing.T) {
	stmt := mustParse(t, chainSQL)

	res := lineage.GetColumnPath(stmt, "@minAge", "")
	require.NotNil(t, res)
	assert.True(t, res.Found)
	assert.True(t, res.IsParameter)

	res = lineage.GetColumnPath(stmt, "@MINAGE", "")
	assert.True(t, res.IsParameter)

	res = lineage.GetColumnPath(stmt, "@other", "")
	require.NotNil(t, res)
	assert.False(t, res.Found)
	assert.False(t, res.IsParameter)
}

func TestGetColumnPathMainTableGuard(t *testing.T) {
	stmt := mustParse(t, chainSQL)

	for _, name := range []string{"users", "U", "USERS"} {
		assert.NotNil(t, lineage.GetColumnPath(stmt, "id", name), name)
	}
	assert.Nil(t, lineage.GetColumnPath(stmt, "id", "orders"))
}

func TestGetColumnPathNotFound(t *testing.T) {
	stmt := mustParse(t, chainSQL)

	res := lineage.GetColumnPath(stmt, "missing", "")
	require.NotNil(t, res)
	assert.False(t, res.Found)
	assert.Equal(t, "missing", res.FieldName)
	assert.Empty(t, res.DataTablePath)
}

func TestGetColumnPathSkipsUnparseable(t *testing.T) {
	stmt := mustParse(t, "SELECT a.x, a.y +, b.z FROM a JOIN b ON a.id = b.a_id")
	require.Equal(t, []string{"a.y +"}, stmt.SkippedExpressions)

	for _, field := range []string{"UnparseableExpression_1", "y"} {
		res := lineage.GetColumnPath(stmt, field, "")
		require.NotNil(t, res)
		assert.False(t, res.Found, field)
	}
}

func TestGetColumnPathUnresolvedQualifier(t *testing.T) {
	stmt := mustParse(t, "SELECT x.y FROM a")

	res := lineage.GetColumnPath(stmt, "y", "")
	require.NotNil(t, res)
	assert.True(t, res.Found)
	assert.Nil(t, res.Table)
	assert.Equal(t, "x", res.TableName)
}

func TestGetColumnPathDisconnectedTable(t *testing.T) {
	stmt := mustParse(t, "SELECT d.label FROM users u CROSS JOIN dates d")

	res := lineage.GetColumnPath(stmt, "label", "")
	require.NotNil(t, res)
	assert.True(t, res.Found)
	assert.Equal(t, "d", res.TableName)
	assert.Equal(t, "dates", res.DataTablePath)
	assert.Empty(t, res.Path)
}

func TestGetColumnPathWithOptionsBFS(t *testing.T) {
	stmt := mustParse(t, shortcutSQL)

	res := lineage.GetColumnPath(stmt, "code", "")
	require.NotNil(t, res)
	assert.Equal(t, "a.[id]b.[id]c.[id]d", res.DataTablePath)

	opts := lineage.Options{Strategy: lineage.StrategyBFS, Logger: testutil.NewTestLogger(t)}
	res = lineage.GetColumnPathWithOptions(stmt, "code", "", opts)
	require.NotNil(t, res)
	assert.Equal(t, "a.[id]d", res.DataTablePath)
	assert.Len(t, res.Path, 1)
}

func TestDescribe(t *testing.T) {
	stmt := mustParse(t, chainSQL)

	results := lineage.Describe(stmt, lineage.DefaultOptions())
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.FieldName)
		assert.True(t, r.Found, r.FieldName)
	}
	assert.Equal(t, []string{"id", "order_total", "name", "line_value"}, names)
}
