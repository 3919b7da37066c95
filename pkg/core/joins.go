package core

import (
	"fmt"
	"strings"
)

// JoinType is the SQL keyword of a join.
type JoinType string

// Standard join types.
const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
	JoinCross JoinType = "CROSS"
)

// Join is one JOIN clause.
type Join struct {
	Type      JoinType
	Table     *TableSource
	Condition *JoinCondition // nil for CROSS joins

	// SkippedPredicates holds the text of AND/OR-chained ON predicates
	// after the first one. Only the first predicate is kept.
	SkippedPredicates string
}

// Accept implements Node.
func (j *Join) Accept(v Visitor) { v.VisitJoin(j) }

// ColumnRef is a qualified column on one side of a join condition.
type ColumnRef struct {
	Table  string
	Column string
}

// String renders table.column.
func (c ColumnRef) String() string {
	if c.Table == "" {
		return c.Column
	}
	return c.Table + "." + c.Column
}

// JoinCondition is the first predicate of an ON clause.
type JoinCondition struct {
	Left     ColumnRef
	Operator string
	Right    ColumnRef
}

// Accept implements Node.
func (c *JoinCondition) Accept(v Visitor) { v.VisitJoinCondition(c) }

// ---------- Join Graph ----------

// JoinEdge is a directed edge between two tables, keyed by effective name.
// SourceColumn and TargetColumn are the join columns on each side.
type JoinEdge struct {
	Source       string
	Target       string
	SourceColumn string
	TargetColumn string
	Join         *Join
}

// String renders source.[col] -> target.[col].
func (e *JoinEdge) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", e.Source, e.SourceColumn, e.Target, e.TargetColumn)
}

// JoinGraph is a bidirectional adjacency map from table effective name to
// the joins connecting it to its neighbours. Names are matched
// case-insensitively and iteration follows insertion order.
type JoinGraph struct {
	order []string          // normalized keys in insertion order
	names map[string]string // normalized key -> display name
	adj   map[string][]*JoinEdge
}

// NewJoinGraph creates an empty graph.
func NewJoinGraph() *JoinGraph {
	return &JoinGraph{
		names: make(map[string]string),
		adj:   make(map[string][]*JoinEdge),
	}
}

func normalize(name string) string {
	return strings.ToLower(name)
}

// AddTable registers a table with no edges. It is a no-op if present.
func (g *JoinGraph) AddTable(name string) {
	key := normalize(name)
	if _, exists := g.names[key]; exists {
		return
	}
	g.order = append(g.order, key)
	g.names[key] = name
	g.adj[key] = nil
}

// AddJoin inserts the edge and its reverse.
func (g *JoinGraph) AddJoin(edge *JoinEdge) {
	g.AddTable(edge.Source)
	g.AddTable(edge.Target)
	reverse := &JoinEdge{
		Source:       edge.Target,
		Target:       edge.Source,
		SourceColumn: edge.TargetColumn,
		TargetColumn: edge.SourceColumn,
		Join:         edge.Join,
	}
	src, dst := normalize(edge.Source), normalize(edge.Target)
	g.adj[src] = append(g.adj[src], edge)
	g.adj[dst] = append(g.adj[dst], reverse)
}

// Neighbors returns the edges leaving name.
func (g *JoinGraph) Neighbors(name string) []*JoinEdge {
	return g.adj[normalize(name)]
}

// HasTable reports whether name is a node of the graph.
func (g *JoinGraph) HasTable(name string) bool {
	_, ok := g.names[normalize(name)]
	return ok
}

// Tables returns every node in insertion order.
func (g *JoinGraph) Tables() []string {
	out := make([]string, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, g.names[key])
	}
	return out
}

// EdgeCount returns the number of directed edges.
func (g *JoinGraph) EdgeCount() int {
	count := 0
	for _, edges := range g.adj {
		count += len(edges)
	}
	return count
}

// BuildJoinGraph builds the join graph of a statement. Joins without a
// condition contribute only their table as a node. A condition naming a
// table the statement does not define is skipped with a warning, as is a
// condition joining a table to itself.
func BuildJoinGraph(s *Statement) (*JoinGraph, []string) {
	g := NewJoinGraph()
	var warnings []string

	for _, t := range s.Tables() {
		g.AddTable(t.EffectiveName())
	}

	for i, j := range s.Joins {
		if j.Condition == nil {
			continue
		}
		left := s.LookupTable(j.Condition.Left.Table)
		right := s.LookupTable(j.Condition.Right.Table)
		switch {
		case left == nil:
			warnings = append(warnings, fmt.Sprintf("join %d: unknown table %q in ON clause", i+1, j.Condition.Left.Table))
			continue
		case right == nil:
			warnings = append(warnings, fmt.Sprintf("join %d: unknown table %q in ON clause", i+1, j.Condition.Right.Table))
			continue
		case left == right:
			warnings = append(warnings, fmt.Sprintf("join %d: ON clause joins %q to itself", i+1, left.EffectiveName()))
			continue
		}
		g.AddJoin(&JoinEdge{
			Source:       left.EffectiveName(),
			Target:       right.EffectiveName(),
			SourceColumn: j.Condition.Left.Column,
			TargetColumn: j.Condition.Right.Column,
			Join:         j,
		})
	}

	return g, warnings
}
