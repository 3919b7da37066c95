// Package token defines the token types for SQL parsing.
//
// The grammar is fixed, so every token type and keyword is a compile-time
// constant and the lookup tables are never modified after package init.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota

	// Literals
	IDENT     // identifier
	NUMBER    // 123, 45.67
	STRING    // 'hello'
	PARAMETER // @name

	// KEYWORD tokens carry a Keyword in Token.Value.
	KEYWORD

	// Punctuation
	LPAREN    // (
	RPAREN    // )
	COMMA     // ,
	DOT       // .
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	SEMICOLON // ;

	// Comparison operators
	EQ // =
	NE // <> or !=
	LT // <
	LE // <=
	GT // >
	GE // >=
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:       "EOF",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	PARAMETER: "PARAMETER",
	KEYWORD:   "KEYWORD",

	LPAREN:    "(",
	RPAREN:    ")",
	COMMA:     ",",
	DOT:       ".",
	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	SEMICOLON: ";",

	EQ: "=",
	NE: "<>",
	LT: "<",
	LE: "<=",
	GT: ">",
	GE: ">=",
}

// IsComparison returns true for = <> < <= > >=.
func IsComparison(t TokenType) bool {
	return t >= EQ && t <= GE
}

// Token represents a lexical token with position information.
//
// Literal is the raw source text, quotes included. Value holds the decoded
// value: a Keyword for KEYWORD, a float64 for NUMBER, the unescaped text for
// STRING, the unquoted name for IDENT and the full name (including '@') for
// PARAMETER.
type Token struct {
	Type    TokenType
	Literal string
	Value   any
	Pos     Position
}

// Keyword returns the keyword carried by a KEYWORD token.
func (t Token) Keyword() (Keyword, bool) {
	if t.Type != KEYWORD {
		return 0, false
	}
	kw, ok := t.Value.(Keyword)
	return kw, ok
}

// Is reports whether the token is the given keyword.
func (t Token) Is(kw Keyword) bool {
	k, ok := t.Keyword()
	return ok && k == kw
}

// Text returns the decoded text of IDENT, STRING and PARAMETER tokens and the
// raw literal of anything else.
func (t Token) Text() string {
	if s, ok := t.Value.(string); ok {
		return s
	}
	return t.Literal
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Pos.Offset + len(t.Literal)
}

// String renders the token for error messages.
func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "EOF"
	case KEYWORD, IDENT, NUMBER, PARAMETER, STRING:
		return t.Literal
	default:
		return t.Type.String()
	}
}
