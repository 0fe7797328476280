// Package ringe is the embedding API for the scanner: it ties together
// source loading, configuration and the lexer.
package ringe

import (
	"github.com/sambeau/ringe/config"
	"github.com/sambeau/ringe/pkg/ringe/errors"
	"github.com/sambeau/ringe/pkg/ringe/lexer"
	"github.com/sambeau/ringe/pkg/ringe/source"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Options control a scan.
type Options struct {
	ErrorMode lexer.ErrorMode
	Logger    Logger // receives a summary line per scan; nil for none
}

// OptionsFromConfig derives scan options from a loaded configuration.
// Debug logging goes to logger; other levels discard scan summaries.
func OptionsFromConfig(cfg *config.Config, logger Logger) Options {
	opts := Options{ErrorMode: lexer.HaltOnError}
	if cfg.Lexer.ErrorMode == "resync" {
		opts.ErrorMode = lexer.Resync
	}
	if cfg.Logging.Enabled("debug") {
		opts.Logger = logger
	}
	return opts
}

// Result is the outcome of scanning one translation unit.
type Result struct {
	File   string
	Text   string
	Tokens []lexer.SpannedToken
	Errors []*errors.LexicalError
	Trivia int // number of elided whitespace runs and comments
}

// Err returns nil for a clean scan, the error itself when there was one
// and an errors.List otherwise.
func (r Result) Err() error {
	switch len(r.Errors) {
	case 0:
		return nil
	case 1:
		return r.Errors[0]
	default:
		return errors.List(r.Errors)
	}
}

var printer = message.NewPrinter(language.English)

// Summary describes the result in one line, e.g. "main.c: 1,204 tokens".
func (r Result) Summary() string {
	name := r.File
	if name == "" {
		name = "<input>"
	}
	if len(r.Errors) == 0 {
		return printer.Sprintf("%s: %d tokens", name, len(r.Tokens))
	}
	return printer.Sprintf("%s: %d tokens, %d errors", name, len(r.Tokens), len(r.Errors))
}

// Tokenize scans text. name is used in diagnostics and may be empty.
func Tokenize(name, text string, opts Options) Result {
	l := lexer.NewWithFilename(text, name)
	l.SetErrorMode(opts.ErrorMode)

	res := Result{File: name, Text: text}
	l.TriviaHook = func(*lexer.Pattern, lexer.Span) { res.Trivia++ }

	for tok, err := range l.All() {
		if err != nil {
			res.Errors = append(res.Errors, err.(*errors.LexicalError))
			continue
		}
		res.Tokens = append(res.Tokens, tok)
	}

	if opts.Logger != nil {
		opts.Logger.LogLine("[DEBUG]", res.Summary()+",", printer.Sprintf("%d trivia,", res.Trivia), "mode", opts.ErrorMode)
	}
	return res
}

// TokenizeFile loads path with the source loader and scans it.
func TokenizeFile(path string, opts Options) (Result, error) {
	f, err := source.Load(path)
	if err != nil {
		return Result{}, err
	}
	return Tokenize(f.Name, f.Text, opts), nil
}
