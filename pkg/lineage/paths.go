package lineage

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlpath/pkg/core"
)

// Strategy selects the path search algorithm.
type Strategy string

const (
	// StrategyDFS enumerates every simple path in discovery order.
	StrategyDFS Strategy = "dfs"
	// StrategyBFS enumerates only the shortest simple paths.
	StrategyBFS Strategy = "bfs"
)

// ParseStrategy converts a configuration value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case StrategyDFS, "":
		return StrategyDFS, nil
	case StrategyBFS:
		return StrategyBFS, nil
	}
	return "", fmt.Errorf("unknown path strategy %q (want dfs or bfs)", s)
}

// DefaultMaxDepth bounds the number of hops a search explores.
const DefaultMaxDepth = 32

// JoinPath is a sequence of join hops starting at the main table.
type JoinPath []*core.JoinEdge

// Tables returns the effective names visited after the main table.
func (p JoinPath) Tables() []string {
	out := make([]string, len(p))
	for i, e := range p {
		out[i] = e.Target
	}
	return out
}

// JoinPaths returns every simple path from the main table to target, in
// depth-first discovery order. Target may be a table name, dotted name or
// alias. A target equal to the main table yields one empty path.
func JoinPaths(stmt *core.Statement, target string) []JoinPath {
	return newSearch(stmt, DefaultMaxDepth).dfs(target)
}

// ShortestJoinPaths returns every simple path of minimal length from the
// main table to target.
func ShortestJoinPaths(stmt *core.Statement, target string) []JoinPath {
	return newSearch(stmt, DefaultMaxDepth).bfs(target)
}

// FindJoinPaths runs the search selected by opts.
func FindJoinPaths(stmt *core.Statement, target string, opts Options) []JoinPath {
	s := newSearch(stmt, opts.MaxDepth)
	if opts.Strategy == StrategyBFS {
		return s.bfs(target)
	}
	return s.dfs(target)
}

// GetJoinPath returns the first depth-first path to target.
func GetJoinPath(stmt *core.Statement, target string) (JoinPath, bool) {
	paths := JoinPaths(stmt, target)
	if len(paths) == 0 {
		return nil, false
	}
	return paths[0], true
}

// RenderPath formats a path as Main.[col]Next.[col]Final using the raw
// table names rather than aliases. The column in brackets is the join
// column on the source side of each hop.
func RenderPath(stmt *core.Statement, path JoinPath) string {
	var sb strings.Builder
	if stmt.MainTable != nil {
		sb.WriteString(stmt.MainTable.FullName())
	}
	for _, e := range path {
		sb.WriteString(".[")
		sb.WriteString(e.SourceColumn)
		sb.WriteString("]")
		sb.WriteString(rawName(stmt, e.Target))
	}
	return sb.String()
}

func rawName(stmt *core.Statement, name string) string {
	if t := stmt.LookupTable(name); t != nil {
		return t.FullName()
	}
	return name
}

// search holds the graph and bounds of one path query.
type search struct {
	stmt     *core.Statement
	graph    *core.JoinGraph
	maxDepth int
}

func newSearch(stmt *core.Statement, maxDepth int) *search {
	graph := stmt.JoinGraph
	if graph == nil {
		graph, _ = core.BuildJoinGraph(stmt)
	}
	return &search{stmt: stmt, graph: graph, maxDepth: maxDepth}
}

// endpoints resolves the start and target nodes. ok is false when either
// is missing from the graph.
func (s *search) endpoints(target string) (start, goal string, ok bool) {
	if s.stmt.MainTable == nil {
		return "", "", false
	}
	start = s.stmt.MainTable.EffectiveName()
	goal = target
	if t := s.stmt.LookupTable(target); t != nil {
		goal = t.EffectiveName()
	}
	return start, goal, s.graph.HasTable(start) && s.graph.HasTable(goal)
}

func (s *search) exhausted(hops int) bool {
	return s.maxDepth > 0 && hops >= s.maxDepth
}

func (s *search) dfs(target string) []JoinPath {
	start, goal, ok := s.endpoints(target)
	if !ok {
		return nil
	}

	var (
		paths   []JoinPath
		visited = make(map[string]bool)
		current JoinPath
	)

	var visit func(node string)
	visit = func(node string) {
		if strings.EqualFold(node, goal) {
			paths = append(paths, slices.Clone(current))
			return
		}
		if s.exhausted(len(current)) {
			return
		}
		key := strings.ToLower(node)
		visited[key] = true
		for _, e := range s.graph.Neighbors(node) {
			if visited[strings.ToLower(e.Target)] {
				continue
			}
			current = append(current, e)
			visit(e.Target)
			current = current[:len(current)-1]
		}
		delete(visited, key)
	}

	visit(start)
	return paths
}

// partial is a BFS frontier entry.
type partial struct {
	tail string
	path JoinPath
}

func (p partial) visits(name string) bool {
	for _, e := range p.path {
		if strings.EqualFold(e.Source, name) || strings.EqualFold(e.Target, name) {
			return true
		}
	}
	return false
}

func (s *search) bfs(target string) []JoinPath {
	start, goal, ok := s.endpoints(target)
	if !ok {
		return nil
	}
	if strings.EqualFold(start, goal) {
		return []JoinPath{{}}
	}

	frontier := []partial{{tail: start}}
	for hops := 0; len(frontier) > 0 && !s.exhausted(hops); hops++ {
		var next []partial
		var found []JoinPath
		for _, p := range frontier {
			for _, e := range s.graph.Neighbors(p.tail) {
				if strings.EqualFold(e.Target, start) || p.visits(e.Target) {
					continue
				}
				path := append(slices.Clone(p.path), e)
				if strings.EqualFold(e.Target, goal) {
					found = append(found, path)
					continue
				}
				next = append(next, partial{tail: e.Target, path: path})
			}
		}
		if len(found) > 0 {
			return found
		}
		frontier = next
	}
	return nil
}
