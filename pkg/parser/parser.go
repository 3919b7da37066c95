// Package parser turns a restricted SQL SELECT dialect into a resolved
// *core.Statement.
//
// # Usage
//
//	stmt, err := parser.Parse("SELECT u.id FROM users u JOIN orders o ON u.id = o.user_id")
//	if err != nil {
//	    // structural error, no statement
//	}
//
// A Parser can be reused, but not concurrently. Column-level failures never
// fail the parse; they leave UnparseableExpression_<n> placeholder columns
// and are listed by SkippedExpressions.
//
// # Grammar Overview
//
//	statement   → SELECT [DISTINCT] column_list FROM table_source join* [WHERE expr] [";"]
//	column_list → column ("," column)*
//	column      → (case | expr) [[AS] alias]
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"log/slog"

	"github.com/leapstack-labs/sqlpath/pkg/core"
	"github.com/leapstack-labs/sqlpath/pkg/token"
)

// DefaultMaxDepth bounds expression nesting.
const DefaultMaxDepth = 256

// Parser parses SQL into a resolved statement.
type Parser struct {
	cur      *Cursor
	logger   *slog.Logger
	maxDepth int
	depth    int

	// per-parse state
	skipped     []string
	diagnostics []string
	unparseable int
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for recovery warnings and debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMaxDepth sets the expression nesting limit. Values <= 0 keep the default.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses sql with a default Parser.
func Parse(sql string) (*core.Statement, error) {
	return New().Parse(sql)
}

// Parse lexes, parses and resolves sql. A structural error returns a
// *ParseError and no statement.
func (p *Parser) Parse(sql string) (*core.Statement, error) {
	tokens, lexDiags := Tokenize(sql)
	p.cur = NewCursor(sql, tokens)
	p.depth = 0
	p.skipped = nil
	p.diagnostics = append([]string(nil), lexDiags...)
	p.unparseable = 0

	for _, d := range lexDiags {
		p.logger.Warn("lexer diagnostic", "detail", d)
	}

	stmt, err := p.parseStatement()
	if err != nil {
		p.logger.Debug("parse failed", "error", err)
		return nil, err
	}

	for _, w := range resolve(stmt) {
		p.warn(w)
	}

	stmt.SkippedExpressions = p.skipped
	stmt.Diagnostics = p.diagnostics

	p.logger.Debug("parsed statement",
		"columns", len(stmt.Columns),
		"joins", len(stmt.Joins),
		"parameters", len(stmt.Parameters),
		"skipped", len(p.skipped))
	return stmt, nil
}

// SkippedExpressions returns the raw text of every select item that fell
// back to a placeholder during the most recent Parse.
func (p *Parser) SkippedExpressions() []string {
	return p.skipped
}

// Diagnostics returns the lexer and parser warnings of the most recent Parse.
func (p *Parser) Diagnostics() []string {
	return p.diagnostics
}

// warn records a non-fatal diagnostic.
func (p *Parser) warn(msg string, args ...any) {
	p.diagnostics = append(p.diagnostics, msg)
	p.logger.Warn(msg, args...)
}

// ---------- Depth Guard ----------

func (p *Parser) enter() error {
	if p.depth >= p.maxDepth {
		return p.cur.Errorf(ErrMaxDepth, p.maxDepth)
	}
	p.depth++
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// ---------- Token Classes ----------

// isIdentLike returns true for identifiers and for keywords that are not
// reserved in this grammar (date parts and function names), which may
// also name columns and tables.
func isIdentLike(tok token.Token) bool {
	if tok.Type == token.IDENT {
		return true
	}
	kw, ok := tok.Keyword()
	return ok && (kw.IsDatePart() || kw.IsFunction())
}

// isFunctionName returns true for tokens that start a call when followed by "(".
func isFunctionName(tok token.Token) bool {
	if isIdentLike(tok) {
		return true
	}
	return tok.Is(token.LEFT) || tok.Is(token.RIGHT)
}

// isJoinStart returns true if tok starts a join clause.
func isJoinStart(tok token.Token) bool {
	kw, ok := tok.Keyword()
	return ok && kw.IsJoin()
}
