package token

import "strings"

// Keyword identifies a reserved word of the grammar.
type Keyword int

// Statement, join and logical keywords.
const (
	SELECT Keyword = iota + 1
	DISTINCT
	FROM
	WHERE
	AS
	JOIN
	INNER
	LEFT
	RIGHT
	FULL
	OUTER
	CROSS
	ON
	AND
	OR
	NOT
	IS
	NULL
	CASE
	WHEN
	THEN
	ELSE
	END

	// Clause words that are recognized only so they are never taken as aliases.
	GROUP
	ORDER
	BY
	HAVING
	UNION

	// Date parts
	DAY
	MONTH
	YEAR
	HOUR
	MINUTE
	SECOND

	// Recognized function names
	ABS
	AVG
	COALESCE
	CONCAT
	COUNT
	DATEADD
	DATEDIFF
	DATEPART
	GETDATE
	ISNULL
	LEN
	LOWER
	LTRIM
	MAX
	MIN
	REPLACE
	ROUND
	RTRIM
	SUBSTRING
	SUM
	TRIM
	UPPER
)

var keywordNames = map[Keyword]string{
	SELECT:   "SELECT",
	DISTINCT: "DISTINCT",
	FROM:     "FROM",
	WHERE:    "WHERE",
	AS:       "AS",
	JOIN:     "JOIN",
	INNER:    "INNER",
	LEFT:     "LEFT",
	RIGHT:    "RIGHT",
	FULL:     "FULL",
	OUTER:    "OUTER",
	CROSS:    "CROSS",
	ON:       "ON",
	AND:      "AND",
	OR:       "OR",
	NOT:      "NOT",
	IS:       "IS",
	NULL:     "NULL",
	CASE:     "CASE",
	WHEN:     "WHEN",
	THEN:     "THEN",
	ELSE:     "ELSE",
	END:      "END",

	GROUP:  "GROUP",
	ORDER:  "ORDER",
	BY:     "BY",
	HAVING: "HAVING",
	UNION:  "UNION",

	DAY:    "DAY",
	MONTH:  "MONTH",
	YEAR:   "YEAR",
	HOUR:   "HOUR",
	MINUTE: "MINUTE",
	SECOND: "SECOND",

	ABS:       "ABS",
	AVG:       "AVG",
	COALESCE:  "COALESCE",
	CONCAT:    "CONCAT",
	COUNT:     "COUNT",
	DATEADD:   "DATEADD",
	DATEDIFF:  "DATEDIFF",
	DATEPART:  "DATEPART",
	GETDATE:   "GETDATE",
	ISNULL:    "ISNULL",
	LEN:       "LEN",
	LOWER:     "LOWER",
	LTRIM:     "LTRIM",
	MAX:       "MAX",
	MIN:       "MIN",
	REPLACE:   "REPLACE",
	ROUND:     "ROUND",
	RTRIM:     "RTRIM",
	SUBSTRING: "SUBSTRING",
	SUM:       "SUM",
	TRIM:      "TRIM",
	UPPER:     "UPPER",
}

// keywords maps lowercase keyword strings to their keyword.
var keywords = func() map[string]Keyword {
	m := make(map[string]Keyword, len(keywordNames))
	for kw, name := range keywordNames {
		m[strings.ToLower(name)] = kw
	}
	return m
}()

// String returns the canonical upper-case spelling.
func (k Keyword) String() string {
	if name, ok := keywordNames[k]; ok {
		return name
	}
	return "KEYWORD(?)"
}

// LookupKeyword returns the keyword for an identifier, case-insensitively.
func LookupKeyword(ident string) (Keyword, bool) {
	kw, ok := keywords[strings.ToLower(ident)]
	return kw, ok
}

// IsDatePart returns true for DAY, MONTH, YEAR, HOUR, MINUTE and SECOND.
func (k Keyword) IsDatePart() bool {
	return k >= DAY && k <= SECOND
}

// IsFunction returns true for the recognized function names.
func (k Keyword) IsFunction() bool {
	return k >= ABS && k <= UPPER
}

// IsJoin returns true for keywords that can start a join clause.
func (k Keyword) IsJoin() bool {
	switch k {
	case JOIN, INNER, LEFT, RIGHT, FULL, CROSS:
		return true
	}
	return false
}

// IsClause returns true for keywords that end the current clause.
func (k Keyword) IsClause() bool {
	switch k {
	case FROM, WHERE, GROUP, ORDER, HAVING, UNION, ON:
		return true
	}
	return k.IsJoin()
}

// TakesDatePart returns true for functions whose first argument is a date part.
func (k Keyword) TakesDatePart() bool {
	switch k {
	case DATEDIFF, DATEADD, DATEPART:
		return true
	}
	return false
}
