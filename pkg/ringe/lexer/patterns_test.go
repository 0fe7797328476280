package lexer

import (
	"sort"
	"testing"
)

func patternByName(t *testing.T, name string) *Pattern {
	t.Helper()
	for _, p := range DefaultTable().Patterns() {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("no pattern named %q", name)
	return nil
}

func TestTableMatch(t *testing.T) {
	tests := []struct {
		input    string
		expected map[string]int // pattern name -> match length
		best     string
	}{
		{"<<=", map[string]int{"<<=": 3, "<<": 2, "<": 1}, "<<="},
		{"int", map[string]int{"int": 3, "identifier": 3}, "int"},
		{"0.1e+17f", map[string]int{"octal integer": 1, "fraction float": 8, "dotted float": 8}, "fraction float"},
		{"/**/", map[string]int{"block comment": 4, "/": 1}, "block comment"},
		{"// x", map[string]int{"line comment": 4, "/": 1}, "line comment"},
		{"L\"s\"", map[string]int{"identifier": 1, "string literal": 4}, "string literal"},
		{"42e3", map[string]int{"decimal integer": 2, "exponent float": 4}, "exponent float"},
		{"0x1F", map[string]int{"hex integer": 4, "octal integer": 1}, "hex integer"},
		{" \t\n", map[string]int{"whitespace": 3}, "whitespace"},
	}

	table := DefaultTable()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			matches := table.Match(tt.input, 0)

			got := map[string]int{}
			for _, m := range matches {
				got[m.Pattern.Name] = m.Length
			}
			if len(got) != len(tt.expected) {
				t.Errorf("expected matches %v, got %v", tt.expected, got)
			}
			for name, length := range tt.expected {
				if got[name] != length {
					t.Errorf("pattern %q: expected length %d, got %d", name, length, got[name])
				}
			}

			best, ok := table.Best(matches)
			if !ok || best.Pattern.Name != tt.best {
				t.Errorf("expected best %q, got %+v", tt.best, best)
			}

			longest, ok := table.Longest(tt.input, 0)
			if !ok || longest != best {
				t.Errorf("Longest disagrees with Best: %+v vs %+v", longest, best)
			}
		})
	}
}

func TestTableMatchAtOffset(t *testing.T) {
	input := "x >>= 1"
	matches := DefaultTable().Match(input, 2)

	var names []string
	for _, m := range matches {
		names = append(names, m.Pattern.Name)
	}
	sort.Strings(names)

	expected := []string{">", ">>", ">>="}
	if len(names) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, names)
			break
		}
	}

	if m := DefaultTable().Match(input, len(input)); m != nil {
		t.Errorf("expected no matches at end of input, got %v", m)
	}
	if m := DefaultTable().Match("`", 0); len(m) != 0 {
		t.Errorf("expected no matches for '`', got %v", m)
	}
	if _, ok := DefaultTable().Best(nil); ok {
		t.Error("Best of no matches should report false")
	}
}

func TestBestResolution(t *testing.T) {
	ident := patternByName(t, "identifier")
	kwInt := patternByName(t, "int")
	fraction := patternByName(t, "fraction float")
	dotted := patternByName(t, "dotted float")
	space := patternByName(t, "whitespace")

	tests := []struct {
		name     string
		matches  []Match
		expected *Pattern
	}{
		{"literal beats identifier", []Match{{ident, 3}, {kwInt, 3}}, kwInt},
		{"literal beats identifier in any order", []Match{{kwInt, 3}, {ident, 3}}, kwInt},
		{"length beats priority", []Match{{fraction, 2}, {dotted, 3}}, dotted},
		{"priority among equal floats", []Match{{dotted, 8}, {fraction, 8}}, fraction},
		{"trivia wins ties", []Match{{kwInt, 3}, {space, 3}}, space},
		{"first entry keeps equal ties", []Match{{dotted, 2}, {patternByName(t, "exponent float"), 2}}, dotted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, ok := DefaultTable().Best(tt.matches)
			if !ok || best.Pattern != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected.Name, best.Pattern.Name)
			}
		})
	}
}

func TestPatternPriorities(t *testing.T) {
	for _, p := range DefaultTable().Patterns() {
		switch p.Class {
		case ClassTrivia:
			if p.Priority != PriorityTrivia {
				t.Errorf("%q: trivia must have the top priority", p.Name)
			}
		case ClassKeyword, ClassOperator:
			if p.Priority != PriorityLiteral {
				t.Errorf("%q: literal priority expected", p.Name)
			}
			if p.Priority <= PriorityIdentifier {
				t.Errorf("%q: literal must outrank identifiers", p.Name)
			}
		}
		if p.Class != ClassTrivia && p.Type == ILLEGAL {
			t.Errorf("%q: token pattern without a token type", p.Name)
		}
	}
}

func TestPatternLen(t *testing.T) {
	tests := []struct {
		pattern  string
		input    string
		expected int
	}{
		{"block comment", "/* a */ b */", 7},
		{"block comment", "/* unterminated", 0},
		{"block comment", "/*/", 0},
		{"line comment", "// a\r\nb", 6},
		{"line comment", "// a\rb", 4},
		{"line comment", "//", 2},
		{"string literal", `"a\`, 0},
		{"string literal", "\"a\nb\"", 5},
		{"character constant", "''", 0},
		{"hex integer", "0x", 0},
		{"hex integer", "0xFFull", 7},
		{"octal integer", "0777", 4},
		{"decimal integer", "0", 0},
		{"identifier", "a1_b2 c", 5},
		{"whitespace", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			if got := patternByName(t, tt.pattern).Len(tt.input); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}
