package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqlpath/pkg/token"
)

// Cursor is a seekable read-only view over a token slice. Backtracking is
// done by saving and restoring the index; tokens are never modified.
// The slice always ends with an EOF token.
type Cursor struct {
	input  string
	tokens []token.Token
	pos    int
}

// NewCursor creates a cursor over tokens lexed from input. If tokens does
// not end with EOF one is appended.
func NewCursor(input string, tokens []token.Token) *Cursor {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.Token{
			Type: token.EOF,
			Pos:  token.Position{Offset: len(input)},
		})
	}
	return &Cursor{input: input, tokens: tokens}
}

// Current returns the token under the cursor.
func (c *Cursor) Current() token.Token {
	return c.tokens[c.pos]
}

// LookAhead returns the token n positions ahead. LookAhead(0) is Current.
// Reading past the end returns EOF.
func (c *Cursor) LookAhead(n int) token.Token {
	i := c.pos + n
	if i >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1]
	}
	if i < 0 {
		return c.tokens[0]
	}
	return c.tokens[i]
}

// Consume returns the current token and advances. The cursor never moves
// past EOF.
func (c *Cursor) Consume() token.Token {
	tok := c.tokens[c.pos]
	if tok.Type != token.EOF {
		c.pos++
	}
	return tok
}

// AtEOF reports whether the cursor is on the EOF token.
func (c *Cursor) AtEOF() bool {
	return c.Current().Type == token.EOF
}

// Check returns true if the current token is of the given type.
func (c *Cursor) Check(t token.TokenType) bool {
	return c.Current().Type == t
}

// CheckKeyword returns true if the current token is the given keyword.
func (c *Cursor) CheckKeyword(kw token.Keyword) bool {
	return c.Current().Is(kw)
}

// Match consumes the current token if it is of the given type.
func (c *Cursor) Match(t token.TokenType) bool {
	if c.Check(t) {
		c.Consume()
		return true
	}
	return false
}

// MatchKeyword consumes the current token if it is the given keyword.
func (c *Cursor) MatchKeyword(kw token.Keyword) bool {
	if c.CheckKeyword(kw) {
		c.Consume()
		return true
	}
	return false
}

// Expect consumes a token of the given type or returns a *ParseError.
func (c *Cursor) Expect(t token.TokenType) (token.Token, error) {
	if c.Check(t) {
		return c.Consume(), nil
	}
	return token.Token{}, c.Errorf(ErrUnexpectedToken, c.Current(), t)
}

// ExpectKeyword consumes the given keyword or returns a *ParseError.
func (c *Cursor) ExpectKeyword(kw token.Keyword) (token.Token, error) {
	if c.CheckKeyword(kw) {
		return c.Consume(), nil
	}
	return token.Token{}, c.Errorf(ErrUnexpectedToken, c.Current(), kw)
}

// Position returns the current index.
func (c *Cursor) Position() int {
	return c.pos
}

// SetPosition moves the cursor to index i, clamped to the token slice.
func (c *Cursor) SetPosition(i int) {
	switch {
	case i < 0:
		i = 0
	case i >= len(c.tokens):
		i = len(c.tokens) - 1
	}
	c.pos = i
}

// PeekConsume runs fn, captures the source text of the tokens it consumed
// and restores the cursor to where it was.
func (c *Cursor) PeekConsume(fn func()) string {
	start := c.pos
	fn()
	text := c.Text(start, c.pos)
	c.pos = start
	return text
}

// Text returns the source text spanned by tokens[from:to], exactly as
// written, including any whitespace and comments between them.
func (c *Cursor) Text(from, to int) string {
	if to > len(c.tokens) {
		to = len(c.tokens)
	}
	if from < 0 || from >= to {
		return ""
	}
	start := c.tokens[from].Pos.Offset
	end := c.tokens[to-1].End()
	if end <= start || end > len(c.input) {
		return ""
	}
	return c.input[start:end]
}

// Errorf builds a *ParseError positioned at the current token.
func (c *Cursor) Errorf(format string, args ...any) *ParseError {
	tok := c.Current()
	return &ParseError{
		Kind:    KindSyntax,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Pos.Line,
		Column:  tok.Pos.Column,
		Token:   tok.Literal,
	}
}
