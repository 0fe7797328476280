package errors

import (
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
)

func TestLexicalError_String(t *testing.T) {
	tests := []struct {
		name     string
		err      *LexicalError
		expected string
	}{
		{
			name:     "zero value",
			err:      &LexicalError{},
			expected: "unknown token",
		},
		{
			name:     "message only",
			err:      &LexicalError{Message: "something went wrong"},
			expected: "something went wrong",
		},
		{
			name: "with line and column",
			err: &LexicalError{
				Message: "unknown token \"@\"",
				Line:    5,
				Column:  10,
			},
			expected: "line 5, column 10: unknown token \"@\"",
		},
		{
			name: "with file",
			err: &LexicalError{
				Message: "unknown token",
				File:    "main.c",
				Line:    3,
				Column:  1,
			},
			expected: "main.c: line 3, column 1: unknown token",
		},
		{
			name: "with hints",
			err: &LexicalError{
				Message: "unknown token",
				Hints:   []string{"first", "second"},
			},
			expected: "unknown token\n  first\n  second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUnknownTokenAt(t *testing.T) {
	err := UnknownTokenAt(2, 1, 3, "@")

	if err.Kind != UnknownToken {
		t.Errorf("Kind = %v, want UnknownToken", err.Kind)
	}
	if err.Code != "LEX-0001" {
		t.Errorf("Code = %q, want LEX-0001", err.Code)
	}
	if err.Message != `unknown token "@"` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Offset != 2 || err.Line != 1 || err.Column != 3 || err.Char != "@" {
		t.Errorf("position = %d %d:%d %q", err.Offset, err.Line, err.Column, err.Char)
	}
	if len(err.Hints) != 1 {
		t.Errorf("expected one hint, got %v", err.Hints)
	}
}

func TestNewUnknownToken(t *testing.T) {
	err := NewUnknownToken()

	if err.Message != "unknown token" {
		t.Errorf("Message = %q, want %q", err.Message, "unknown token")
	}
	if len(err.Hints) != 0 {
		t.Errorf("expected no hints without a character, got %v", err.Hints)
	}
	if err.Line != 0 || err.Column != 0 || err.File != "" {
		t.Errorf("expected no position, got %+v", err)
	}
}

func TestLexicalError_Is(t *testing.T) {
	err := UnknownTokenAt(10, 2, 4, "$")

	if !stderrors.Is(err, ErrUnknownToken) {
		t.Error("positioned error should match ErrUnknownToken")
	}
	if !stderrors.Is(err.WithFile("a.c"), &LexicalError{}) {
		t.Error("zero value should match any UnknownToken")
	}
	if stderrors.Is(err, stderrors.New("unknown token")) {
		t.Error("plain errors must not match")
	}

	var lexErr *LexicalError
	if !stderrors.As(error(err), &lexErr) || lexErr.Column != 4 {
		t.Errorf("errors.As failed: %+v", lexErr)
	}
}

func TestLexicalError_PrettyString(t *testing.T) {
	tests := []struct {
		name     string
		err      *LexicalError
		source   string
		contains []string
		excludes []string
	}{
		{
			name:   "with file and source",
			err:    UnknownTokenAt(6, 2, 3, "@").WithFile("main.c"),
			source: "int x;\n  @y;\n",
			contains: []string{
				"Lexical error [LEX-0001]",
				"in: main.c",
				"at: line 2, column 3",
				`unknown token "@"`,
				"\n      @y;\n      ^",
				"Hint: remove the character",
			},
		},
		{
			name:     "without file",
			err:      UnknownTokenAt(0, 1, 1, "`"),
			source:   "`",
			contains: []string{"Lexical error [LEX-0001]: line 1, column 1", "    `\n    ^"},
			excludes: []string{"in:"},
		},
		{
			name:     "tabs are kept under the caret",
			err:      UnknownTokenAt(2, 1, 3, "#"),
			source:   "\t\t#",
			contains: []string{"\t\t#\n    \t\t^"},
		},
		{
			name:     "line beyond source",
			err:      UnknownTokenAt(0, 9, 1, "@"),
			source:   "x",
			excludes: []string{"^"},
		},
		{
			name:     "no position",
			err:      NewUnknownToken(),
			contains: []string{"Lexical error [LEX-0001]:\n  unknown token"},
			excludes: []string{"Hint:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.PrettyString(tt.source)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("PrettyString() missing %q in:\n%s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("PrettyString() should not contain %q in:\n%s", bad, got)
				}
			}
		})
	}
}

func TestLexicalError_ToJSON(t *testing.T) {
	err := UnknownTokenAt(4, 1, 5, "@").WithFile("x.c")

	data, jsonErr := err.ToJSON()
	if jsonErr != nil {
		t.Fatalf("ToJSON() error: %v", jsonErr)
	}

	var decoded map[string]any
	if jsonErr := json.Unmarshal(data, &decoded); jsonErr != nil {
		t.Fatalf("invalid JSON: %v", jsonErr)
	}

	if decoded["code"] != "LEX-0001" {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["file"] != "x.c" {
		t.Errorf("file = %v", decoded["file"])
	}
	if decoded["offset"] != float64(4) || decoded["column"] != float64(5) {
		t.Errorf("position = %v %v", decoded["offset"], decoded["column"])
	}
	if _, ok := decoded["Kind"]; ok {
		t.Error("Kind should not be serialised")
	}
}

func TestWithFile(t *testing.T) {
	orig := UnknownTokenAt(0, 1, 1, "@")
	named := orig.WithFile("a.c")

	if orig.File != "" {
		t.Error("WithFile must not modify the receiver")
	}
	if named.File != "a.c" || named.Column != 1 {
		t.Errorf("unexpected copy: %+v", named)
	}
}

func TestList(t *testing.T) {
	var empty List
	if empty.Err() != nil {
		t.Error("empty list should be a nil error")
	}

	one := List{UnknownTokenAt(0, 1, 1, "@")}
	if one.Error() != `line 1, column 1: unknown token "@"`+"\n  remove the character or place it inside a string or comment" {
		t.Errorf("single Error() = %q", one.Error())
	}

	many := List{UnknownTokenAt(0, 1, 1, "@"), UnknownTokenAt(3, 1, 4, "$")}
	if !strings.HasSuffix(many.Error(), "(and 1 more errors)") {
		t.Errorf("Error() = %q", many.Error())
	}

	err := many.Err()
	if !stderrors.Is(err, ErrUnknownToken) {
		t.Error("list should unwrap to its errors")
	}
	var lexErr *LexicalError
	if !stderrors.As(err, &lexErr) || lexErr.Char != "@" {
		t.Errorf("errors.As found %+v", lexErr)
	}
}

func TestErrorKind_String(t *testing.T) {
	if UnknownToken.String() != "UnknownToken" {
		t.Errorf("got %q", UnknownToken.String())
	}
	if ErrorKind(7).String() != "ErrorKind(7)" {
		t.Errorf("got %q", ErrorKind(7).String())
	}
}
