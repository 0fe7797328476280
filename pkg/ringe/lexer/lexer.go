// Package lexer turns preprocessed C source text into a stream of spanned
// tokens.
//
// Every position is resolved against a pattern table by maximal munch: the
// longest match wins, ties go to the higher priority, and trivia
// (whitespace and comments) wins any tie and is skipped. Keywords and
// operators are exact literals and outrank identifiers of the same length.
package lexer

import (
	"io"
	"iter"
	"unicode/utf8"

	"github.com/sambeau/ringe/pkg/ringe/errors"
)

// ErrorMode selects what happens after an unknown token.
type ErrorMode int

const (
	// HaltOnError stops the scan at the first error. Later calls to Next
	// return the same error.
	HaltOnError ErrorMode = iota
	// Resync skips the offending character and continues on the next call.
	Resync
)

func (m ErrorMode) String() string {
	switch m {
	case HaltOnError:
		return "halt"
	case Resync:
		return "resync"
	default:
		return "unknown"
	}
}

// Lexer represents the lexical analyzer. A Lexer is single-use: it reads
// its input once, front to back, and cannot be rewound.
type Lexer struct {
	filename string
	input    string
	table    *Table
	pos      tracker
	mode     ErrorMode
	err      *errors.LexicalError // sticky error in HaltOnError mode

	// TriviaHook, when set, is called with the pattern and span of every
	// elided whitespace run and comment.
	TriviaHook func(pattern *Pattern, span Span)
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with a specific filename.
// The filename is attached to errors.
func NewWithFilename(input string, filename string) *Lexer {
	return &Lexer{
		filename: filename,
		input:    input,
		table:    DefaultTable(),
		pos:      newTracker(),
	}
}

// SetErrorMode chooses between halting and resynchronising after an error.
func (l *Lexer) SetErrorMode(mode ErrorMode) {
	l.mode = mode
}

// Filename returns the name given at construction.
func (l *Lexer) Filename() string { return l.filename }

// Input returns the text being scanned.
func (l *Lexer) Input() string { return l.input }

// Location returns the current cursor location.
func (l *Lexer) Location() Location { return l.pos.loc }

// Next scans the input and returns the next token. It returns io.EOF once
// the input is exhausted and a *errors.LexicalError when nothing matches.
func (l *Lexer) Next() (SpannedToken, error) {
	if l.err != nil {
		return SpannedToken{}, l.err
	}

	for {
		offset := l.pos.loc.Offset
		if offset >= len(l.input) {
			return SpannedToken{}, io.EOF
		}

		m, ok := l.table.Longest(l.input, offset)
		if !ok {
			return SpannedToken{}, l.fail()
		}

		start := l.pos.loc
		lexeme := l.input[offset : offset+m.Length]
		l.pos.advance(lexeme)

		if m.Pattern.Class == ClassTrivia {
			if l.TriviaHook != nil {
				l.TriviaHook(m.Pattern, Span{Start: start, End: l.pos.loc})
			}
			continue
		}

		return SpannedToken{
			Start: start,
			Token: Token{Type: m.Pattern.Type, Literal: lexeme},
			End:   l.pos.loc,
		}, nil
	}
}

// fail builds the error for the current position and applies the error mode.
func (l *Lexer) fail() *errors.LexicalError {
	loc := l.pos.loc
	_, size := utf8.DecodeRuneInString(l.input[loc.Offset:])
	char := l.input[loc.Offset : loc.Offset+size]

	err := errors.UnknownTokenAt(loc.Offset, loc.Line, loc.Column, char)
	if l.filename != "" {
		err = err.WithFile(l.filename)
	}

	switch l.mode {
	case Resync:
		l.pos.advance(char)
	default:
		l.err = err
	}
	return err
}

// All returns the remaining tokens as a sequence. In HaltOnError mode the
// sequence ends after the first error; in Resync mode it carries on.
func (l *Lexer) All() iter.Seq2[SpannedToken, error] {
	return func(yield func(SpannedToken, error) bool) {
		for {
			tok, err := l.Next()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) {
				return
			}
			if err != nil && l.mode == HaltOnError {
				return
			}
		}
	}
}

// Tokenize scans the whole input. In HaltOnError mode it returns the tokens
// read before the first error together with that error. In Resync mode it
// returns every token and, if any occurred, an errors.List.
func (l *Lexer) Tokenize() ([]SpannedToken, error) {
	var tokens []SpannedToken
	var errs errors.List
	for tok, err := range l.All() {
		if err != nil {
			if l.mode == HaltOnError {
				return tokens, err
			}
			errs = append(errs, err.(*errors.LexicalError))
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, errs.Err()
}
