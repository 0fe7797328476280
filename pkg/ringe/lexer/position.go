package lexer

import (
	"fmt"
	"unicode/utf8"
)

// Location of a point in the input
type Location struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number, starting at 1 (rune count within the line)
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Before reports whether l comes strictly before other in the input.
func (l Location) Before(other Location) bool {
	return l.Offset < other.Offset
}

// Span is a half-open range [Start, End) of the input.
type Span struct {
	Start Location
	End   Location
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// SpannedToken is a token together with the input range it was read from.
type SpannedToken struct {
	Start Location
	Token Token
	End   Location
}

// Span returns the token's input range.
func (st SpannedToken) Span() Span {
	return Span{Start: st.Start, End: st.End}
}

func (st SpannedToken) String() string {
	return fmt.Sprintf("%s %s %q", st.Span(), st.Token.Type, st.Token.Literal)
}

// tracker keeps the current location as the cursor moves over consumed text.
type tracker struct {
	loc Location
}

func newTracker() tracker {
	return tracker{loc: Location{Offset: 0, Line: 1, Column: 1}}
}

// advance moves past text, which must be the input starting at the current
// offset. Every raw '\n' starts a new line.
func (t *tracker) advance(text string) {
	for i := 0; i < len(text); {
		b := text[i]
		if b < utf8.RuneSelf {
			i++
			if b == '\n' {
				t.loc.Line++
				t.loc.Column = 1
			} else {
				t.loc.Column++
			}
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
		t.loc.Column++
	}
	t.loc.Offset += len(text)
}
