package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sambeau/ringe/config"
	"github.com/sambeau/ringe/pkg/ringe/export"
	"github.com/sambeau/ringe/pkg/ringe/format"
	"github.com/sambeau/ringe/pkg/ringe/repl"
	"github.com/sambeau/ringe/pkg/ringe/ringe"
	"github.com/sambeau/ringe/pkg/ringe/source"
	"github.com/sambeau/ringe/pkg/ringe/watch"
)

// Version is set at build time via -ldflags
var Version = "0.1.0-dev"

// Exit codes
const (
	exitOK      = 0
	exitLexical = 1 // at least one lexical error
	exitUsage   = 2 // bad flags, config or unreadable input
)

func main() {
	ctx := context.Background()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv))
}

// cli carries what every mode needs once flags and config are resolved.
type cli struct {
	cfg    *config.Config
	opts   ringe.Options
	index  *export.Index
	stdout io.Writer
	stderr io.Writer
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	flags := flag.NewFlagSet("ringe", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { printUsage(stderr) }

	var (
		evalCode    = flags.String("e", "", "Tokenize a code string")
		evalLong    = flags.String("eval", "", "Tokenize a code string")
		checkMode   = flags.Bool("check", false, "Only report lexical errors")
		watchMode   = flags.Bool("watch", false, "Re-tokenize files in directories as they change")
		configPath  = flags.String("config", "", "Path to config file")
		jsonOut     = flags.Bool("json", false, "Write JSON output")
		resync      = flags.Bool("resync", false, "Continue after lexical errors")
		sqlitePath  = flags.String("sqlite", "", "Write tokens to a SQLite index")
		noSpans     = flags.Bool("no-spans", false, "Omit end positions in text output")
		showVersion = flags.Bool("V", false, "Show version")
		versionLong = flags.Bool("version", false, "Show version")
		showHelp    = flags.Bool("h", false, "Show help")
		helpLong    = flags.Bool("help", false, "Show help")
	)

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	if *showHelp || *helpLong {
		printUsage(stdout)
		return exitOK
	}

	if *showVersion || *versionLong {
		fmt.Fprintf(stdout, "ringe version %s\n", Version)
		return exitOK
	}

	cfg, configFile, err := config.LoadWithPath(*configPath, getenv)
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] loading config: %v\n", err)
		return exitUsage
	}

	// Apply CLI overrides
	if *jsonOut {
		cfg.Output.Format = "json"
	}
	if *resync {
		cfg.Lexer.ErrorMode = "resync"
	}
	if *noSpans {
		cfg.Output.Spans = false
	}
	if *sqlitePath != "" {
		cfg.Export.SQLite = *sqlitePath
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "[ERROR] config validation: %v\n", err)
		return exitUsage
	}

	c := &cli{
		cfg:    cfg,
		opts:   ringe.OptionsFromConfig(cfg, ringe.WriterLogger(stderr)),
		stdout: stdout,
		stderr: stderr,
	}
	if configFile != "" {
		c.logf("debug", "using config %s", configFile)
	}

	if cfg.Export.SQLite != "" {
		c.index, err = export.Open(cfg.Export.SQLite)
		if err != nil {
			fmt.Fprintf(stderr, "[ERROR] %v\n", err)
			return exitUsage
		}
		defer c.index.Close()
		c.logf("info", "indexing tokens into %s", cfg.Export.SQLite)
	}

	code := *evalCode
	if code == "" {
		code = *evalLong
	}

	switch {
	case code != "":
		return c.report(ctx, ringe.Tokenize("", code, c.opts), false)
	case *checkMode:
		if flags.NArg() == 0 {
			fmt.Fprintln(stderr, "[ERROR] --check requires at least one file")
			return exitUsage
		}
		return c.files(ctx, flags.Args(), stdin, true)
	case *watchMode:
		dirs := flags.Args()
		if len(dirs) == 0 {
			dirs = []string{"."}
		}
		return c.watch(ctx, dirs)
	case flags.NArg() > 0:
		return c.files(ctx, flags.Args(), stdin, false)
	default:
		repl.Start(stdin, stdout, Version, c.opts, cfg.Output.Spans)
		return exitOK
	}
}

// files tokenizes each file in turn. "-" reads stdin.
func (c *cli) files(ctx context.Context, paths []string, stdin io.Reader, check bool) int {
	exit := exitOK
	for _, path := range paths {
		var f *source.File
		var err error
		if path == "-" {
			f, err = source.Read(stdin, "<stdin>")
		} else {
			f, err = source.Load(path)
		}
		if err != nil {
			fmt.Fprintf(c.stderr, "[ERROR] %v\n", err)
			exit = exitUsage
			continue
		}

		res := ringe.Tokenize(f.Name, f.Text, c.opts)
		if code := c.report(ctx, res, check); code > exit {
			exit = code
		}
	}
	return exit
}

// report prints one result and indexes it when an index is open.
func (c *cli) report(ctx context.Context, res ringe.Result, check bool) int {
	switch {
	case check:
		if len(res.Errors) == 0 {
			fmt.Fprintf(c.stdout, "%s: ok\n", res.File)
		}
	case c.cfg.Output.Format == "json":
		if err := format.JSON(c.stdout, res.File, res.Tokens, res.Errors); err != nil {
			fmt.Fprintf(c.stderr, "[ERROR] writing output: %v\n", err)
			return exitUsage
		}
	default:
		if err := format.Text(c.stdout, res.Tokens, c.cfg.Output.Spans); err != nil {
			fmt.Fprintf(c.stderr, "[ERROR] writing output: %v\n", err)
			return exitUsage
		}
	}

	if len(res.Errors) > 0 && (check || c.cfg.Output.Format != "json") {
		format.Diagnostics(c.stderr, res.Text, res.Errors)
	}

	if c.index != nil {
		if err := c.index.Write(ctx, res.File, res.Tokens, res.Errors); err != nil {
			fmt.Fprintf(c.stderr, "[ERROR] indexing %s: %v\n", res.File, err)
			return exitUsage
		}
		c.logf("debug", "indexed %s", res.Summary())
	}

	if len(res.Errors) > 0 {
		return exitLexical
	}
	return exitOK
}

// watch re-tokenizes changed sources until interrupted.
func (c *cli) watch(ctx context.Context, dirs []string) int {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	w, err := watch.New(dirs, watch.Options{
		Debounce:   c.cfg.Watch.Debounce,
		Extensions: c.cfg.Watch.Extensions,
		Scan:       c.opts,
		Index:      c.index,
	}, c.stdout, c.stderr)
	if err != nil {
		fmt.Fprintf(c.stderr, "[ERROR] %v\n", err)
		return exitUsage
	}
	defer w.Close()

	if err := w.Start(ctx); err != nil {
		fmt.Fprintf(c.stderr, "[ERROR] %v\n", err)
		return exitUsage
	}

	<-ctx.Done()
	c.logf("info", "stopped watching after %d scans", w.Scans())
	return exitOK
}

func (c *cli) logf(level, msg string, args ...any) {
	if !c.cfg.Logging.Enabled(level) {
		return
	}
	prefix := map[string]string{"debug": "[DEBUG]", "info": "[INFO]", "warn": "[WARN]", "error": "[ERROR]"}[level]
	fmt.Fprintf(c.stderr, prefix+" "+msg+"\n", args...)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `ringe - C lexical scanner version %s

Usage:
  ringe [options] [file...]     Tokenize files ("-" reads stdin)
  ringe -e "code"               Tokenize a code string
  ringe --check <file>...       Report lexical errors only
  ringe --watch [dir...]        Re-tokenize sources as they change
  ringe                         Start interactive REPL

Options:
  -e, --eval <code>   Tokenize a code string
  --check             Exit 1 if any file has lexical errors
  --watch             Watch directories (default: current directory)
  --config PATH       Path to config file (default: auto-detect)
  --json              Write tokens as JSON
  --resync            Continue after lexical errors
  --sqlite PATH       Also write tokens to a SQLite index
  --no-spans          Omit end positions in text output
  -V, --version       Show version
  -h, --help          Show this help

Config Resolution:
  1. --config flag
  2. RINGE_CONFIG environment variable
  3. ./ringe.yaml
  4. ~/.config/ringe/ringe.yaml

Exit Codes:
  0  success
  1  lexical errors
  2  usage, config or I/O errors
`, Version)
}
