package lexer

import "strings"

// Class groups patterns by what the scanner does with their matches.
type Class int

const (
	ClassTrivia     Class = iota // whitespace and comments, never emitted
	ClassKeyword                 // reserved words
	ClassOperator                // operators and punctuators
	ClassIdentifier              // [A-Za-z_][A-Za-z0-9_]*
	ClassConstant                // integer, floating and character constants
	ClassString                  // string literals
)

func (c Class) String() string {
	switch c {
	case ClassTrivia:
		return "trivia"
	case ClassKeyword:
		return "keyword"
	case ClassOperator:
		return "operator"
	case ClassIdentifier:
		return "identifier"
	case ClassConstant:
		return "constant"
	case ClassString:
		return "string"
	default:
		return "unknown"
	}
}

// Priorities break ties between matches of equal length. Trivia must stay
// above everything so that it is always elided when it ties.
const (
	PriorityIdentifier = 1
	PriorityDefault    = 3
	PriorityDotFloat   = 6
	PriorityLiteral    = 10
	PriorityTrivia     = 100
)

// Pattern is one entry of the pattern table.
type Pattern struct {
	Name     string
	Class    Class
	Type     TokenType // ILLEGAL for trivia
	Priority int

	first func(b byte) bool  // can a match start with b?
	match func(s string) int // length of the match at the start of s, 0 if none
}

// Len returns the length of the pattern's match at the start of s, or 0.
func (p *Pattern) Len(s string) int {
	if s == "" || !p.first(s[0]) {
		return 0
	}
	return p.match(s)
}

// Match is a pattern that matched at some offset.
type Match struct {
	Pattern *Pattern
	Length  int
}

// better reports whether m wins over other: longer first, then priority.
// Equal matches keep the earlier table entry.
func (m Match) better(other Match) bool {
	if m.Length != other.Length {
		return m.Length > other.Length
	}
	return m.Pattern.Priority > other.Pattern.Priority
}

// Table is a priority-ordered catalogue of token and trivia patterns.
type Table struct {
	patterns []*Pattern
	byFirst  [256][]*Pattern
}

// newTable indexes patterns by the bytes they can start with. Patterns keep
// their relative order, which is the final tie-break.
func newTable(patterns ...*Pattern) *Table {
	t := &Table{patterns: patterns}
	for b := 0; b < 256; b++ {
		for _, p := range patterns {
			if p.first(byte(b)) {
				t.byFirst[b] = append(t.byFirst[b], p)
			}
		}
	}
	return t
}

// Patterns returns the table entries in order.
func (t *Table) Patterns() []*Pattern {
	return t.patterns
}

// Match reports every pattern matching at exactly offset.
func (t *Table) Match(input string, offset int) []Match {
	if offset < 0 || offset >= len(input) {
		return nil
	}
	s := input[offset:]
	var matches []Match
	for _, p := range t.byFirst[s[0]] {
		if n := p.match(s); n > 0 {
			matches = append(matches, Match{Pattern: p, Length: n})
		}
	}
	return matches
}

// Best resolves matches by maximal munch, then priority, then table order.
func (t *Table) Best(matches []Match) (Match, bool) {
	if len(matches) == 0 {
		return Match{}, false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.better(best) {
			best = m
		}
	}
	return best, true
}

// Longest is Best(Match(input, offset)) without building the match list.
func (t *Table) Longest(input string, offset int) (Match, bool) {
	if offset < 0 || offset >= len(input) {
		return Match{}, false
	}
	s := input[offset:]
	var best Match
	found := false
	for _, p := range t.byFirst[s[0]] {
		n := p.match(s)
		if n == 0 {
			continue
		}
		m := Match{Pattern: p, Length: n}
		if !found || m.better(best) {
			best = m
			found = true
		}
	}
	return best, found
}

var defaultTable = buildDefaultTable()

// DefaultTable returns the C pattern table shared by all lexers.
func DefaultTable() *Table {
	return defaultTable
}

func buildDefaultTable() *Table {
	patterns := []*Pattern{
		{Name: "whitespace", Class: ClassTrivia, Priority: PriorityTrivia, first: isSpace, match: matchWhitespace},
		{Name: "line comment", Class: ClassTrivia, Priority: PriorityTrivia, first: isByte('/'), match: matchLineComment},
		{Name: "block comment", Class: ClassTrivia, Priority: PriorityTrivia, first: isByte('/'), match: matchBlockComment},
	}
	for _, kw := range reserved {
		patterns = append(patterns, literalPattern(kw.literal, kw.typ, ClassKeyword))
	}
	for _, op := range operators {
		patterns = append(patterns, literalPattern(op.literal, op.typ, ClassOperator))
	}
	patterns = append(patterns,
		&Pattern{Name: "identifier", Class: ClassIdentifier, Type: IDENT, Priority: PriorityIdentifier, first: isIdentStart, match: matchIdentifier},
		&Pattern{Name: "hex integer", Class: ClassConstant, Type: CONSTANT, Priority: PriorityDefault, first: isByte('0'), match: matchHex},
		&Pattern{Name: "octal integer", Class: ClassConstant, Type: CONSTANT, Priority: PriorityDefault, first: isByte('0'), match: matchOctal},
		&Pattern{Name: "decimal integer", Class: ClassConstant, Type: CONSTANT, Priority: PriorityDefault, first: isNonZeroDigit, match: matchDecimal},
		&Pattern{Name: "exponent float", Class: ClassConstant, Type: CONSTANT, Priority: PriorityDefault, first: isDigit, match: matchExponentFloat},
		&Pattern{Name: "fraction float", Class: ClassConstant, Type: CONSTANT, Priority: PriorityDotFloat, first: isDigitOrDot, match: matchFractionFloat},
		&Pattern{Name: "dotted float", Class: ClassConstant, Type: CONSTANT, Priority: PriorityDefault, first: isDigit, match: matchDottedFloat},
		&Pattern{Name: "character constant", Class: ClassConstant, Type: CONSTANT, Priority: PriorityDefault, first: isQuoteOrPrefix('\''), match: matchCharConstant},
		&Pattern{Name: "string literal", Class: ClassString, Type: STRING_LITERAL, Priority: PriorityDefault, first: isQuoteOrPrefix('"'), match: matchString},
	)
	return newTable(patterns...)
}

func literalPattern(lit string, typ TokenType, class Class) *Pattern {
	return &Pattern{
		Name:     lit,
		Class:    class,
		Type:     typ,
		Priority: PriorityLiteral,
		first:    isByte(lit[0]),
		match: func(s string) int {
			if strings.HasPrefix(s, lit) {
				return len(lit)
			}
			return 0
		},
	}
}

// Character classes

func isByte(c byte) func(byte) bool {
	return func(b byte) bool { return b == c }
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f'
}

func isLetter(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || b == '_'
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isNonZeroDigit(b byte) bool {
	return '1' <= b && b <= '9'
}

func isDigitOrDot(b byte) bool {
	return isDigit(b) || b == '.'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || 'a' <= b && b <= 'f' || 'A' <= b && b <= 'F'
}

func isIdentStart(b byte) bool {
	return isLetter(b)
}

func isIdentPart(b byte) bool {
	return isLetter(b) || isDigit(b)
}

func isQuoteOrPrefix(quote byte) func(byte) bool {
	return func(b byte) bool { return b == quote || isLetter(b) }
}

// Matchers. Each returns the length of the longest match at the start of s,
// or 0 when the pattern does not match.

func matchWhitespace(s string) int {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func matchLineComment(s string) int {
	if !strings.HasPrefix(s, "//") {
		return 0
	}
	i := 2
	for i < len(s) && s[i] != '\r' && s[i] != '\n' {
		i++
	}
	switch {
	case strings.HasPrefix(s[i:], "\r\n"):
		i += 2
	case strings.HasPrefix(s[i:], "\n"):
		i++
	}
	return i
}

// matchBlockComment closes at the first "*/" after the opening "/*", so
// "/**/" and runs of '*' before the close are handled.
func matchBlockComment(s string) int {
	if !strings.HasPrefix(s, "/*") {
		return 0
	}
	end := strings.Index(s[2:], "*/")
	if end < 0 {
		return 0
	}
	return 2 + end + 2
}

func matchIdentifier(s string) int {
	if !isIdentStart(s[0]) {
		return 0
	}
	i := 1
	for i < len(s) && isIdentPart(s[i]) {
		i++
	}
	return i
}

func digits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

// integerSuffix accepts up to three of u, U, l, L. Legality is not checked.
func integerSuffix(s string, i int) int {
	for n := 0; n < 3 && i < len(s); n++ {
		switch s[i] {
		case 'u', 'U', 'l', 'L':
			i++
		default:
			return i
		}
	}
	return i
}

func floatSuffix(s string, i int) int {
	if i < len(s) {
		switch s[i] {
		case 'f', 'F', 'l', 'L':
			return i + 1
		}
	}
	return i
}

// exponent matches [eE][+-]?[0-9]+ at i and reports whether it did.
func exponent(s string, i int) (int, bool) {
	if i >= len(s) || (s[i] != 'e' && s[i] != 'E') {
		return i, false
	}
	j := i + 1
	if j < len(s) && (s[j] == '+' || s[j] == '-') {
		j++
	}
	k := digits(s, j)
	if k == j {
		return i, false
	}
	return k, true
}

func matchHex(s string) int {
	if len(s) < 3 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return 0
	}
	i := 2
	for i < len(s) && (isHexDigit(s[i]) || s[i] == '_') {
		i++
	}
	if i == 2 {
		return 0
	}
	return integerSuffix(s, i)
}

func matchOctal(s string) int {
	if s[0] != '0' {
		return 0
	}
	return integerSuffix(s, digits(s, 1))
}

func matchDecimal(s string) int {
	if !isNonZeroDigit(s[0]) {
		return 0
	}
	return integerSuffix(s, digits(s, 1))
}

// matchExponentFloat matches [0-9]+[eE][+-]?[0-9]+[FfLl]?
func matchExponentFloat(s string) int {
	i := digits(s, 0)
	if i == 0 {
		return 0
	}
	i, ok := exponent(s, i)
	if !ok {
		return 0
	}
	return floatSuffix(s, i)
}

// matchFractionFloat matches [0-9]*\.[0-9]+ with optional exponent and suffix.
func matchFractionFloat(s string) int {
	i := digits(s, 0)
	if i >= len(s) || s[i] != '.' {
		return 0
	}
	j := digits(s, i+1)
	if j == i+1 {
		return 0
	}
	j, _ = exponent(s, j)
	return floatSuffix(s, j)
}

// matchDottedFloat matches [0-9]+\.[0-9]* with optional exponent and suffix.
func matchDottedFloat(s string) int {
	i := digits(s, 0)
	if i == 0 || i >= len(s) || s[i] != '.' {
		return 0
	}
	j := digits(s, i+1)
	j, _ = exponent(s, j)
	return floatSuffix(s, j)
}

// quoted matches an optional one-letter prefix, the opening quote, a body
// where a backslash escapes any following byte, and the closing quote.
func quoted(s string, quote byte, allowEmpty bool) int {
	i := 0
	if isLetter(s[0]) {
		i++
	}
	if i >= len(s) || s[i] != quote {
		return 0
	}
	i++
	start := i
	for i < len(s) {
		switch s[i] {
		case quote:
			if i == start && !allowEmpty {
				return 0
			}
			return i + 1
		case '\\':
			if i+1 >= len(s) {
				return 0
			}
			i += 2
		default:
			i++
		}
	}
	return 0
}

func matchCharConstant(s string) int {
	return quoted(s, '\'', false)
}

func matchString(s string) int {
	return quoted(s, '"', true)
}
