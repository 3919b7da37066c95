package parser

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/sqlpath/pkg/token"
)

// Lexer tokenizes SQL input. It never fails: malformed input is recorded
// as a diagnostic and scanning continues.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	diagnostics []string
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// Diagnostics returns the non-fatal problems found so far.
func (l *Lexer) Diagnostics() []string {
	return l.diagnostics
}

// Tokenize returns all tokens of the input, terminated by a single EOF,
// along with the lexer diagnostics.
func Tokenize(input string) ([]token.Token, []string) {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens, l.diagnostics
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// atEOF reports whether the whole input has been consumed. A NUL byte in
// the middle of the input is not EOF.
func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

func (l *Lexer) diagnose(line int, format string, args ...any) {
	l.diagnostics = append(l.diagnostics, fmt.Sprintf("line %d: ", line)+fmt.Sprintf(format, args...))
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespaceAndComments()
		if l.atEOF() {
			return token.Token{Type: token.EOF, Pos: l.currentPos()}
		}
		if tok, ok := l.scan(); ok {
			return tok
		}
	}
}

// scan reads one token at the current character. It returns false when the
// character was skipped as invalid.
func (l *Lexer) scan() (token.Token, bool) {
	pos := l.currentPos()

	switch l.ch {
	case '(':
		return l.single(token.LPAREN, pos), true
	case ')':
		return l.single(token.RPAREN, pos), true
	case ',':
		return l.single(token.COMMA, pos), true
	case '.':
		return l.single(token.DOT, pos), true
	case '+':
		return l.single(token.PLUS, pos), true
	case '-':
		return l.single(token.MINUS, pos), true
	case '*':
		return l.single(token.STAR, pos), true
	case '/':
		return l.single(token.SLASH, pos), true
	case ';':
		return l.single(token.SEMICOLON, pos), true
	case '=':
		return l.single(token.EQ, pos), true
	case '<':
		switch l.peekChar() {
		case '=':
			return l.double(token.LE, pos), true
		case '>':
			return l.double(token.NE, pos), true
		}
		return l.single(token.LT, pos), true
	case '>':
		if l.peekChar() == '=' {
			return l.double(token.GE, pos), true
		}
		return l.single(token.GT, pos), true
	case '!':
		if l.peekChar() == '=' {
			return l.double(token.NE, pos), true
		}
	case '\'':
		return l.readString(pos), true
	case '"':
		return l.readDelimitedIdentifier(pos, '"'), true
	case '[':
		return l.readDelimitedIdentifier(pos, ']'), true
	case '@':
		if isIdentChar(l.peekChar()) {
			return l.readParameter(pos), true
		}
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			return l.readWord(pos), true
		case isDigit(l.ch):
			return l.readNumber(pos), true
		}
	}

	l.diagnose(pos.Line, "unexpected character %q", l.ch)
	l.readChar()
	return token.Token{}, false
}

// single emits a one-character token.
func (l *Lexer) single(t token.TokenType, pos token.Position) token.Token {
	tok := token.Token{Type: t, Literal: string(l.ch), Pos: pos}
	l.readChar()
	return tok
}

// double emits a two-character token.
func (l *Lexer) double(t token.TokenType, pos token.Position) token.Token {
	l.readChar()
	l.readChar()
	return token.Token{Type: t, Literal: l.input[pos.Offset:l.pos], Pos: pos}
}

// skipWhitespaceAndComments skips whitespace, line comments and block comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			l.skipBlockComment()
			continue
		}

		break
	}
}

func (l *Lexer) skipBlockComment() {
	line := l.line
	l.readChar() // skip '/'
	l.readChar() // skip '*'

	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			return
		}
		l.readChar()
	}
	l.diagnose(line, "unterminated block comment")
}

// readString reads a single-quoted string literal.
// Handles doubled single quotes as escape: 'it''s' -> it's
func (l *Lexer) readString(pos token.Position) token.Token {
	l.readChar() // skip opening quote

	var value []byte
	terminated := false
	for !l.atEOF() {
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				value = append(value, '\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			terminated = true
			break
		}
		value = append(value, l.ch)
		l.readChar()
	}
	if !terminated {
		l.diagnose(pos.Line, "unterminated string literal")
	}

	return token.Token{
		Type:    token.STRING,
		Literal: l.input[pos.Offset:l.pos],
		Value:   string(value),
		Pos:     pos,
	}
}

// readDelimitedIdentifier reads a "quoted" or [bracketed] identifier.
// A doubled closing delimiter escapes itself.
func (l *Lexer) readDelimitedIdentifier(pos token.Position, closing byte) token.Token {
	l.readChar() // skip opening delimiter

	var name []byte
	terminated := false
	for !l.atEOF() {
		if l.ch == closing {
			if l.peekChar() == closing {
				name = append(name, closing)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			terminated = true
			break
		}
		name = append(name, l.ch)
		l.readChar()
	}
	if !terminated {
		l.diagnose(pos.Line, "unterminated quoted identifier")
	}

	return token.Token{
		Type:    token.IDENT,
		Literal: l.input[pos.Offset:l.pos],
		Value:   string(name),
		Pos:     pos,
	}
}

// readParameter reads an @name parameter.
func (l *Lexer) readParameter(pos token.Position) token.Token {
	l.readChar() // skip '@'
	for isIdentChar(l.ch) {
		l.readChar()
	}
	lit := l.input[pos.Offset:l.pos]
	return token.Token{Type: token.PARAMETER, Literal: lit, Value: lit, Pos: pos}
}

// readWord reads an identifier or keyword.
func (l *Lexer) readWord(pos token.Position) token.Token {
	for isIdentChar(l.ch) {
		l.readChar()
	}
	lit := l.input[pos.Offset:l.pos]
	if kw, ok := token.LookupKeyword(lit); ok {
		return token.Token{Type: token.KEYWORD, Literal: lit, Value: kw, Pos: pos}
	}
	return token.Token{Type: token.IDENT, Literal: lit, Value: lit, Pos: pos}
}

// readNumber reads an integer or decimal literal. Malformed literals such
// as 1.2.3 are kept as one token with value 0.
func (l *Lexer) readNumber(pos token.Position) token.Token {
	for isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
		l.readChar()
	}
	lit := l.input[pos.Offset:l.pos]

	value, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		l.diagnose(pos.Line, "invalid number literal %q", lit)
		value = 0
	}
	return token.Token{Type: token.NUMBER, Literal: lit, Value: value, Pos: pos}
}

// isLetter returns true if ch is an ASCII letter.
func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}
