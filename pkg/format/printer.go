// Package format renders a parsed statement back to SQL text.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/sqlpath/pkg/token"
)

const indentSize = 2

// Printer implements core.Visitor and accumulates formatted SQL.
type Printer struct {
	output      *bytes.Buffer
	depth       int
	atLineStart bool
}

// NewPrinter creates an empty printer.
func NewPrinter() *Printer {
	return &Printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// String returns the formatted output with exactly one trailing newline.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
}

// kw prints keywords separated by spaces.
func (p *Printer) kw(keywords ...token.Keyword) {
	for i, k := range keywords {
		if i > 0 {
			p.space()
		}
		p.write(k.String())
	}
}

// ident prints a name, quoting it when it would not lex back as a plain
// identifier.
func (p *Printer) ident(name string) {
	p.write(quoteIdent(name))
}

// formatList prints count items with sep between them; multiline breaks
// the line after each separator.
func (p *Printer) formatList(count int, format func(i int), sep string, multiline bool) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
			if multiline {
				p.writeln()
			}
		}
	}
}

func quoteIdent(name string) string {
	if name == "*" || isPlainIdent(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func isPlainIdent(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch == '_', 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z':
		case '0' <= ch && ch <= '9' && i > 0:
		default:
			return false
		}
	}
	_, isKeyword := token.LookupKeyword(name)
	return !isKeyword
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
