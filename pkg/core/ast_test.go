package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlpath/pkg/core"
)

func sampleStatement() *core.Statement {
	return &core.Statement{
		MainTable: &core.TableSource{Qualifiers: []string{"dbo"}, Name: "Users", Alias: "u"},
		Joins: []*core.Join{
			{
				Type:      core.JoinInner,
				Table:     &core.TableSource{Name: "Orders", Alias: "o"},
				Condition: &core.JoinCondition{Left: core.ColumnRef{Table: "u", Column: "id"}, Operator: "=", Right: core.ColumnRef{Table: "o", Column: "user_id"}},
			},
			{
				Type:      core.JoinLeft,
				Table:     &core.TableSource{Name: "Items"},
				Condition: &core.JoinCondition{Left: core.ColumnRef{Table: "o", Column: "id"}, Operator: "=", Right: core.ColumnRef{Table: "Items", Column: "order_id"}},
			},
		},
	}
}

func TestTableSourceNames(t *testing.T) {
	tests := []struct {
		name      string
		table     core.TableSource
		effective string
		full      string
	}{
		{"bare", core.TableSource{Name: "users"}, "users", "users"},
		{"aliased", core.TableSource{Name: "users", Alias: "u"}, "u", "users"},
		{"qualified", core.TableSource{Qualifiers: []string{"db", "dbo"}, Name: "users"}, "users", "db.dbo.users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.effective, tt.table.EffectiveName())
			assert.Equal(t, tt.full, tt.table.FullName())
		})
	}
}

func TestTableSourceMatches(t *testing.T) {
	table := &core.TableSource{Qualifiers: []string{"dbo"}, Name: "Users", Alias: "u"}
	for _, name := range []string{"users", "USERS", "dbo.users", "U"} {
		assert.True(t, table.Matches(name), name)
	}
	for _, name := range []string{"", "dbo", "orders", "x.users"} {
		assert.False(t, table.Matches(name), name)
	}
}

func TestStatementTableHandles(t *testing.T) {
	stmt := sampleStatement()

	tables := stmt.Tables()
	require.Len(t, tables, 3)
	assert.Same(t, stmt.MainTable, stmt.Table(core.MainTableHandle))
	assert.Same(t, stmt.Joins[0].Table, stmt.Table(2))
	assert.Same(t, stmt.Joins[1].Table, stmt.Table(3))
	assert.Nil(t, stmt.Table(core.NoTable))
	assert.Nil(t, stmt.Table(4))

	col := &core.Column{Name: "total", Table: 2}
	assert.Same(t, stmt.Joins[0].Table, stmt.TableOf(col))
}

func TestResolveTableAlias(t *testing.T) {
	stmt := sampleStatement()

	tests := []struct {
		name string
		want core.TableHandle
		ok   bool
	}{
		{"u", core.MainTableHandle, true},
		{"dbo.users", core.MainTableHandle, true},
		{"users", core.MainTableHandle, true},
		{"O", 2, true},
		{"orders", 2, true},
		{"items", 3, true},
		{"nope", core.NoTable, false},
		{"", core.NoTable, false},
	}
	for _, tt := range tests {
		h, ok := stmt.ResolveTableAlias(tt.name)
		assert.Equal(t, tt.want, h, tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
	}
	assert.Nil(t, stmt.LookupTable("nope"))
}

func TestStatementParameters(t *testing.T) {
	stmt := &core.Statement{}
	assert.True(t, stmt.AddParameter("@MinAge"))
	assert.False(t, stmt.AddParameter("@minage"))
	assert.True(t, stmt.AddParameter("@max"))
	assert.Equal(t, []string{"@MinAge", "@max"}, stmt.Parameters)
	assert.True(t, stmt.HasParameter("@MINAGE"))
}

func TestColumnHelpers(t *testing.T) {
	plain := &core.Column{Name: "id", TableName: "u", Alias: "user_id"}
	assert.False(t, plain.IsExpression())
	assert.Equal(t, "user_id", plain.OutputName())
	assert.Equal(t, "u.id", plain.QualifiedName())
	assert.True(t, plain.MatchesName("ID"))

	expr := &core.Column{Name: "SumExpression", Expr: core.NewFunctionCall("SUM", []core.Expr{core.NewColumnRef("o", "total")})}
	assert.True(t, expr.IsExpression())
	assert.False(t, expr.IsUnparseable())
	assert.Equal(t, "SumExpression", expr.QualifiedName())

	bad := &core.Column{Name: "UnparseableExpression_1", Expr: core.NewUnparseable("x +")}
	assert.True(t, bad.IsUnparseable())
}

func TestConstructorsAggregateReferences(t *testing.T) {
	uid := core.NewColumnRef("u", "id")
	binary := core.NewBinary(uid, "+", core.NewParameter("@offset"))
	logical := core.NewLogical(
		[]core.Expr{binary, core.NewIsNull(core.NewColumnRef("U", "ID"), true)},
		[]core.LogicalOp{core.LogicalAnd},
	)
	caseExpr := core.NewCase(nil, []*core.CaseWhen{
		{Condition: logical, Result: core.NewLiteral(core.LiteralString, "x")},
	}, core.NewColumnRef("o", "total"))

	refs := caseExpr.References()
	require.Len(t, refs.Columns(), 2)
	assert.Same(t, uid, refs.Columns()[0])
	assert.True(t, refs.HasColumn("o", "total"))
	assert.True(t, refs.HasColumn("", "TOTAL"))
	assert.False(t, refs.HasColumn("u", "total"))
	assert.Equal(t, []string{"@offset"}, refs.Parameters())
	assert.True(t, refs.HasParameter("@OFFSET"))

	assert.Empty(t, core.NewLiteral(core.LiteralNumber, "1").References().Columns())
	assert.Empty(t, core.NewGeneric([]string{"a", "b"}).References().Columns())
}

func TestLiteralKindString(t *testing.T) {
	assert.Equal(t, "string", core.LiteralString.String())
	assert.Equal(t, "number", core.LiteralNumber.String())
	assert.Equal(t, "null", core.LiteralNull.String())
	assert.Equal(t, "keyword", core.LiteralKeyword.String())
}
