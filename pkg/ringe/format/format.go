// Package format writes token streams and diagnostics for people and tools.
package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sambeau/ringe/pkg/ringe/errors"
	"github.com/sambeau/ringe/pkg/ringe/lexer"
)

// Text writes one row per token: start position, kind and the quoted
// literal. withEnd adds the end position after a dash.
func Text(w io.Writer, tokens []lexer.SpannedToken, withEnd bool) error {
	for _, tok := range tokens {
		pos := tok.Start.String()
		if withEnd {
			pos = tok.Span().String()
		}
		if _, err := fmt.Fprintf(w, "%-15s %-14s %q\n", pos, tok.Token.Type, tok.Token.Literal); err != nil {
			return err
		}
	}
	return nil
}

// Diagnostics writes each error as a pretty diagnostic with an excerpt of
// source, separated by blank lines.
func Diagnostics(w io.Writer, source string, errs []*errors.LexicalError) error {
	for i, e := range errs {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, e.PrettyString(source)); err != nil {
			return err
		}
	}
	return nil
}

type jsonLocation struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonToken struct {
	Kind  string       `json:"kind"`
	Text  string       `json:"text"`
	Start jsonLocation `json:"start"`
	End   jsonLocation `json:"end"`
}

type jsonDocument struct {
	File   string                 `json:"file,omitempty"`
	Tokens []jsonToken            `json:"tokens"`
	Errors []*errors.LexicalError `json:"errors"`
}

func location(l lexer.Location) jsonLocation {
	return jsonLocation{Offset: l.Offset, Line: l.Line, Column: l.Column}
}

// JSON writes the scan of one file as a single indented document.
func JSON(w io.Writer, file string, tokens []lexer.SpannedToken, errs []*errors.LexicalError) error {
	doc := jsonDocument{
		File:   file,
		Tokens: make([]jsonToken, 0, len(tokens)),
		Errors: make([]*errors.LexicalError, 0, len(errs)),
	}
	for _, tok := range tokens {
		doc.Tokens = append(doc.Tokens, jsonToken{
			Kind:  tok.Token.Type.String(),
			Text:  tok.Token.Literal,
			Start: location(tok.Start),
			End:   location(tok.End),
		})
	}
	doc.Errors = append(doc.Errors, errs...)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
