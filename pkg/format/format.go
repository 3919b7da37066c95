package format

import (
	"strings"

	"github.com/leapstack-labs/sqlpath/pkg/core"
)

// Statement formats a parsed statement. Unparseable columns and skipped
// join predicates are reproduced from their recorded source text.
func Statement(stmt *core.Statement) string {
	p := NewPrinter()
	stmt.Accept(p)
	return p.String()
}

// Expression formats a single expression on one line, except for CASE
// which always spans several lines.
func Expression(e core.Expr) string {
	if e == nil {
		return ""
	}
	p := NewPrinter()
	e.Accept(p)
	return strings.TrimRight(p.output.String(), "\n")
}
