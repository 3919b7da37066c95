package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlpath/pkg/core"
)

func TestJoinGraphBasics(t *testing.T) {
	g := core.NewJoinGraph()
	g.AddTable("u")
	g.AddTable("U")
	assert.Equal(t, []string{"u"}, g.Tables())

	join := &core.Join{Type: core.JoinInner}
	g.AddJoin(&core.JoinEdge{Source: "u", Target: "o", SourceColumn: "id", TargetColumn: "user_id", Join: join})

	assert.Equal(t, []string{"u", "o"}, g.Tables())
	assert.Equal(t, 2, g.EdgeCount())
	assert.True(t, g.HasTable("O"))
	assert.False(t, g.HasTable("x"))

	back := g.Neighbors("o")
	require.Len(t, back, 1)
	assert.Equal(t, "u", back[0].Target)
	assert.Equal(t, "user_id", back[0].SourceColumn)
	assert.Equal(t, "id", back[0].TargetColumn)
	assert.Same(t, join, back[0].Join)
	assert.Equal(t, "o.user_id -> u.id", back[0].String())
}

func TestBuildJoinGraph(t *testing.T) {
	stmt := sampleStatement()
	g, warnings := core.BuildJoinGraph(stmt)
	assert.Empty(t, warnings)

	assert.Equal(t, []string{"u", "o", "Items"}, g.Tables())
	assert.Equal(t, 4, g.EdgeCount())

	fromO := g.Neighbors("o")
	require.Len(t, fromO, 2)
	assert.Equal(t, "u", fromO[0].Target)
	assert.Equal(t, "Items", fromO[1].Target)
	assert.Equal(t, "id", fromO[1].SourceColumn)
}

func TestBuildJoinGraphSkipsBadConditions(t *testing.T) {
	stmt := sampleStatement()
	stmt.Joins[0].Condition.Left.Table = "missing"
	stmt.Joins[1].Condition = &core.JoinCondition{
		Left:     core.ColumnRef{Table: "items", Column: "a"},
		Operator: "=",
		Right:    core.ColumnRef{Table: "Items", Column: "b"},
	}
	stmt.Joins = append(stmt.Joins, &core.Join{Type: core.JoinCross, Table: &core.TableSource{Name: "dates"}})

	g, warnings := core.BuildJoinGraph(stmt)
	assert.Equal(t, []string{
		`join 1: unknown table "missing" in ON clause`,
		`join 2: ON clause joins "Items" to itself`,
	}, warnings)
	assert.Equal(t, 0, g.EdgeCount())
	assert.Equal(t, []string{"u", "o", "Items", "dates"}, g.Tables())
}

func TestColumnRefString(t *testing.T) {
	assert.Equal(t, "u.id", core.ColumnRef{Table: "u", Column: "id"}.String())
	assert.Equal(t, "id", core.ColumnRef{Column: "id"}.String())
}
