// Package errors provides structured error types for the ringe scanner.
//
// LexicalError is the only error the scanner produces. Its zero value is a
// valid UnknownToken error, so callers may construct and match it without
// any position information.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// ErrorKind classifies lexical errors. The zero value is UnknownToken.
type ErrorKind int

const (
	UnknownToken ErrorKind = iota // no pattern matches at this position
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownToken:
		return "UnknownToken"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ErrUnknownToken matches any UnknownToken error with errors.Is.
var ErrUnknownToken = NewUnknownToken()

// LexicalError is a scan failure. Position fields are zero when unknown.
type LexicalError struct {
	Kind    ErrorKind `json:"-"`
	Code    string    `json:"code"`            // Error code (e.g., "LEX-0001")
	Message string    `json:"message"`         // Human-readable message
	Hints   []string  `json:"hints,omitempty"` // Suggestions for fixing
	File    string    `json:"file,omitempty"`  // File path (if known)
	Offset  int       `json:"offset"`          // 0-based byte offset
	Line    int       `json:"line"`            // 1-based line (0 if unknown)
	Column  int       `json:"column"`          // 1-based column (0 if unknown)
	Char    string    `json:"char,omitempty"`  // Offending character
}

// NewUnknownToken returns an UnknownToken error with no position.
func NewUnknownToken() *LexicalError {
	return New(UnknownToken, nil)
}

// UnknownTokenAt returns an UnknownToken error for char at the given position.
func UnknownTokenAt(offset, line, column int, char string) *LexicalError {
	e := New(UnknownToken, map[string]any{"Char": char})
	e.Offset = offset
	e.Line = line
	e.Column = column
	e.Char = char
	return e
}

// Error implements the error interface.
func (e *LexicalError) Error() string {
	return e.String()
}

// Is matches any LexicalError of the same kind.
func (e *LexicalError) Is(target error) bool {
	t, ok := target.(*LexicalError)
	return ok && t.Kind == e.Kind
}

// message falls back to the catalog template when the error was built as a
// bare struct literal.
func (e *LexicalError) message() string {
	if e.Message != "" {
		return e.Message
	}
	if def, ok := catalog[e.Kind]; ok {
		return renderTemplate(def.Template, nil)
	}
	return e.Kind.String()
}

// String returns a formatted string representation of the error.
func (e *LexicalError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.message())

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line diagnostic. When source is the scanned
// text, the offending line is shown with a caret under the column.
func (e *LexicalError) PrettyString(source string) string {
	var sb strings.Builder

	sb.WriteString("Lexical error")
	if e.Code != "" {
		sb.WriteString(" [")
		sb.WriteString(e.Code)
		sb.WriteString("]")
	}

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.message())

	if line, ok := sourceLine(source, e.Line); ok && e.Column > 0 {
		sb.WriteString("\n\n    ")
		sb.WriteString(line)
		sb.WriteString("\n    ")
		sb.WriteString(caretPadding(line, e.Column))
		sb.WriteString("^")
	}

	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("Hint: ")
		} else {
			sb.WriteString("  or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *LexicalError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *LexicalError) WithFile(file string) *LexicalError {
	copy := *e
	copy.File = file
	return &copy
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Code     string   // Stable error code
	Template string   // Message template with {{.placeholders}}
	Hints    []string // Hint templates (may use {{.placeholders}})
}

var catalog = map[ErrorKind]ErrorDef{
	UnknownToken: {
		Code:     "LEX-0001",
		Template: "unknown token{{if .Char}} {{printf \"%q\" .Char}}{{end}}",
		Hints: []string{
			"{{if .Char}}remove the character or place it inside a string or comment{{end}}",
		},
	},
}

// New creates an error of the given kind from the catalog, rendering its
// templates with data.
func New(kind ErrorKind, data map[string]any) *LexicalError {
	def, ok := catalog[kind]
	if !ok {
		return &LexicalError{Kind: kind, Message: kind.String()}
	}

	var hints []string
	for _, hintTmpl := range def.Hints {
		if rendered := renderTemplate(hintTmpl, data); rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &LexicalError{
		Kind:    kind,
		Code:    def.Code,
		Message: renderTemplate(def.Template, data),
		Hints:   hints,
	}
}

func renderTemplate(tmplStr string, data map[string]any) string {
	tmpl, err := template.New("").Option("missingkey=zero").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	if data == nil {
		data = map[string]any{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

func sourceLine(source string, n int) (string, bool) {
	if source == "" || n < 1 {
		return "", false
	}
	lines := strings.Split(source, "\n")
	if n > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[n-1], "\r"), true
}

// caretPadding keeps tabs so the caret lines up under the column.
func caretPadding(line string, column int) string {
	var sb strings.Builder
	i := 1
	for _, r := range line {
		if i >= column {
			break
		}
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
		i++
	}
	return sb.String()
}

// List collects the errors of a scan that continued past failures.
type List []*LexicalError

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
	}
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns l as an error, or nil when it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
