package parser

import (
	"errors"
	"fmt"
)

// ErrSyntax is the sentinel matched by every *ParseError through errors.Is.
var ErrSyntax = errors.New("syntax error")

// ErrorKind classifies a parse error.
type ErrorKind int

// Error kinds.
const (
	KindSyntax ErrorKind = iota
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "Syntax"
	}
	return "Unknown"
}

// ParseError is a structural parse error. Token is the offending lexeme,
// empty at end of input.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
	Token   string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error at line %d, column %d near %q: %s", e.Line, e.Column, e.Token, e.Message)
}

// Is reports whether target is ErrSyntax.
func (e *ParseError) Is(target error) bool {
	return target == ErrSyntax && e.Kind == KindSyntax
}

// Common error messages
const (
	ErrUnexpectedToken     = "unexpected token %s, expected %s"
	ErrExpectedKeyword     = "expected %s"
	ErrExpectedIdentifier  = "expected identifier"
	ErrExpectedExpression  = "expected expression"
	ErrExpectedNull        = "expected NULL after IS"
	ErrTooManyQualifiers   = "table name has more than three parts"
	ErrDerivedTableAlias   = "derived table requires an alias"
	ErrUnbalancedParens    = "unbalanced parentheses in derived table"
	ErrUnqualifiedJoin     = "join condition column %q must be qualified"
	ErrJoinOperator        = "expected comparison operator in join condition"
	ErrCrossJoinCondition  = "CROSS JOIN cannot have an ON clause"
	ErrColumnTerminator    = "unexpected %s after select item"
	ErrMaxDepth            = "expression nesting exceeds maximum depth %d"
	ErrDatePartExpected    = "expected date part (DAY, MONTH, YEAR, HOUR, MINUTE, SECOND)"
	ErrMultiPredicateJoin  = "multi-predicate ON clause is not supported; kept first predicate"
	ErrTrailingTokens      = "unparsed trailing input starting at %s"
	ErrEmptyColumn         = "expected select item"
	ErrNoColumns           = "select list is empty"
	ErrMissingConditionRef = "join condition side must be a table.column reference"
)
