// Package repl is an interactive tokenizer: each complete input is scanned
// and its tokens printed.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/ringe/pkg/ringe/format"
	"github.com/sambeau/ringe/pkg/ringe/lexer"
	"github.com/sambeau/ringe/pkg/ringe/ringe"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

// session holds the output settings toggled by REPL commands.
type session struct {
	out   io.Writer
	opts  ringe.Options
	json  bool
	spans bool
}

// Start starts the REPL with line editing, history, and tab completion
func Start(in io.Reader, out io.Writer, version string, opts ringe.Options, spans bool) {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)

	line.SetCompleter(filterCompletions)

	historyFile := filepath.Join(os.TempDir(), ".ringe_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "ringe v%s\n", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	s := &session{out: out, opts: opts, spans: spans}
	var inputBuffer strings.Builder

	for {
		currentPrompt := PROMPT
		if inputBuffer.Len() > 0 {
			currentPrompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(currentPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C - clear any buffered input and return to main prompt
				if inputBuffer.Len() > 0 {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		if inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			s.command(trimmed)
			continue
		}

		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			continue
		}

		line.AppendHistory(fullInput)
		s.eval(fullInput)
		inputBuffer.Reset()
	}
}

// eval scans input and prints the tokens followed by any diagnostics.
func (s *session) eval(input string) {
	res := ringe.Tokenize("", input, s.opts)

	if s.json {
		if err := format.JSON(s.out, "", res.Tokens, res.Errors); err != nil {
			fmt.Fprintf(s.out, "Error writing output: %v\n", err)
		}
		return
	}

	if len(res.Tokens) == 0 && len(res.Errors) == 0 {
		fmt.Fprintln(s.out, "(no tokens)")
		return
	}
	format.Text(s.out, res.Tokens, s.spans)
	format.Diagnostics(s.out, input, res.Errors)
}

// command handles REPL meta-commands that start with ':'
func (s *session) command(cmd string) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(s.out, "  :json           Toggle JSON output")
		fmt.Fprintln(s.out, "  :resync         Toggle between halting and resyncing after errors")
		fmt.Fprintln(s.out, "  :spans          Toggle end positions in text output")
		fmt.Fprintln(s.out, "  :keywords       List the reserved words")
		fmt.Fprintln(s.out, "  exit, quit      Exit the REPL")

	case ":json":
		s.json = !s.json
		fmt.Fprintln(s.out, "JSON output", onOff(s.json))

	case ":resync":
		if s.opts.ErrorMode == lexer.Resync {
			s.opts.ErrorMode = lexer.HaltOnError
		} else {
			s.opts.ErrorMode = lexer.Resync
		}
		fmt.Fprintln(s.out, "Error mode:", s.opts.ErrorMode)

	case ":spans":
		s.spans = !s.spans
		fmt.Fprintln(s.out, "End positions", onOff(s.spans))

	case ":keywords":
		fmt.Fprintln(s.out, strings.Join(lexer.Keywords(), " "))

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

// filterCompletions returns keywords starting with the word being typed
func filterCompletions(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	// Don't complete after whitespace
	if last := line[len(line)-1]; last == ' ' || last == '\t' {
		return nil
	}

	start := strings.LastIndexFunc(line, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) + 1
	prefix, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	var matches []string
	for _, kw := range lexer.Keywords() {
		if strings.HasPrefix(kw, word) {
			matches = append(matches, prefix+kw)
		}
	}
	return matches
}

// needsMoreInput reports whether input ends inside a block comment or a
// string or character literal.
func needsMoreInput(input string) bool {
	const (
		code = iota
		block
		lineComment
		literal
	)

	state := code
	var quote byte
	for i := 0; i < len(input); i++ {
		ch := input[i]
		switch state {
		case code:
			switch {
			case strings.HasPrefix(input[i:], "/*"):
				state = block
				i++
			case strings.HasPrefix(input[i:], "//"):
				state = lineComment
				i++
			case ch == '"' || ch == '\'':
				state = literal
				quote = ch
			}
		case block:
			if strings.HasPrefix(input[i:], "*/") {
				state = code
				i++
			}
		case lineComment:
			if ch == '\n' {
				state = code
			}
		case literal:
			switch ch {
			case '\\':
				i++
			case quote:
				state = code
			}
		}
	}

	return state == block || state == literal
}
