// Command sqlparse tokenizes, parses, formats or lints SQL files.
//
//	sqlparse [-config file.yaml] [-mode tokens|ast|format|analyze|check] [-workers N] [-v] [files...]
//
// With no files it reads standard input. Files are processed concurrently
// and reported in argument order. The exit status is 1 when any input fails
// to parse or, in check mode, is not canonically formatted, and 2 on usage or
// I/O errors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	dmp "github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/kestrel-db/sqlsyntax"
	"github.com/kestrel-db/sqlsyntax/lexer"
)

const stdinName = "<stdin>"

type input struct {
	name string
	path string // empty for standard input
	src  []byte
}

type result struct {
	out        string
	statements int
	dirty      bool  // check mode: the input differs from its canonical form
	err        error // parse failure; I/O failures abort the run
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sqlparse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	mode := fs.String("mode", ModeFormat, "output mode: tokens, ast, format, analyze or check")
	workers := fs.Int("workers", 0, "number of files processed concurrently (default: number of CPUs)")
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := newLogger(stderr, *verbose)

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			logger.Error("load config failed", "error", err)
			return 2
		}
		logger.Debug("config loaded", "path", *configPath)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = *mode
		case "workers":
			cfg.Workers = *workers
		}
	})
	if err := cfg.validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return 2
	}

	inputs := make([]input, 0, fs.NArg())
	for _, path := range fs.Args() {
		inputs = append(inputs, input{name: path, path: path})
	}
	if len(inputs) == 0 {
		src, err := io.ReadAll(stdin)
		if err != nil {
			logger.Error("read stdin failed", "error", err)
			return 2
		}
		inputs = append(inputs, input{name: stdinName, src: src})
	}

	results, err := process(ctx, cfg, inputs, logger)
	if err != nil {
		logger.Error("processing aborted", "error", err)
		return 2
	}

	failed, dirty := 0, 0
	for i, res := range results {
		if len(inputs) > 1 && (cfg.Mode != ModeCheck || res.dirty) {
			fmt.Fprintf(stdout, "== %s ==\n", inputs[i].name)
		}
		if res.err != nil {
			failed++
			logger.Error("parse failed", "input", inputs[i].name, "error", res.err)
			continue
		}
		if res.dirty {
			dirty++
		}
		io.WriteString(stdout, res.out)
	}
	logger.Debug("done", "inputs", len(inputs), "failed", failed, "unformatted", dirty)
	if failed > 0 || dirty > 0 {
		return 1
	}
	return 0
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// process renders every input with at most cfg.Workers running at once.
// Results are indexed like inputs.
func process(ctx context.Context, cfg Config, inputs []input, logger *slog.Logger) ([]result, error) {
	results := make([]result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			in := &inputs[i]
			if in.path != "" {
				src, err := os.ReadFile(in.path)
				if err != nil {
					return fmt.Errorf("read %s: %w", in.path, err)
				}
				in.src = src
			}
			start := time.Now()
			res, err := render(cfg, in.src)
			if err != nil {
				return fmt.Errorf("render %s: %w", in.name, err)
			}
			results[i] = res
			logger.Debug("processed", "input", in.name, "statements", res.statements,
				"elapsed", time.Since(start), "ok", res.err == nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// render produces the output of one input. Parse failures are reported in
// result.err; a non-nil error means the output itself could not be built.
func render(cfg Config, src []byte) (result, error) {
	if cfg.Mode == ModeTokens {
		return result{out: renderTokens(src)}, nil
	}

	var opts []sqlsyntax.Option
	if cfg.MaxDepth > 0 {
		opts = append(opts, sqlsyntax.WithMaxDepth(cfg.MaxDepth))
	}
	stmts, err := sqlsyntax.Parse(sqlsyntax.Tokenize(src, nil), opts...)
	if err != nil {
		return result{err: err}, nil
	}
	res := result{statements: len(stmts)}

	switch cfg.Mode {
	case ModeAST:
		out, err := yaml.Marshal(dumpStatements(stmts))
		if err != nil {
			return res, err
		}
		res.out = string(out)
	case ModeFormat:
		out, err := sqlsyntax.Format(stmts)
		if err != nil {
			return res, err
		}
		if out != "" {
			out += "\n"
		}
		res.out = out
	case ModeAnalyze:
		res.out = renderReport(sqlsyntax.AnalyzeStatements(stmts, cfg.Analysis))
	case ModeCheck:
		out, err := sqlsyntax.Format(stmts)
		if err != nil {
			return res, err
		}
		have := strings.TrimSpace(string(src))
		if have != out {
			res.dirty = true
			res.out = lineDiff(have+"\n", out+"\n")
		}
	default:
		return res, errors.New("unknown mode " + cfg.Mode)
	}
	return res, nil
}

func renderTokens(src []byte) string {
	var b strings.Builder
	for _, t := range sqlsyntax.Tokenize(src, nil) {
		fmt.Fprintf(&b, "%d:%d\t%s\t%s\n", t.Line, t.Col, t.Type, tokenText(t))
	}
	return b.String()
}

func tokenText(t lexer.Token) string {
	switch t.Type {
	case lexer.EOF:
		return ""
	case lexer.IDENT, lexer.NUMBER, lexer.STRING:
		return t.Value()
	}
	return string(t.Raw)
}

func renderReport(r sqlsyntax.AnalysisReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.String())
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "  - [%s] %s: %s (stmt %d)\n", f.Severity, f.Code, f.Message, f.StatementIndex)
	}
	return b.String()
}

// lineDiff renders a line-oriented diff of from and to, prefixing removed
// lines with -, added lines with + and unchanged lines with a space.
func lineDiff(from, to string) string {
	d := dmp.New()
	a, b, lines := d.DiffLinesToChars(from, to)
	diffs := d.DiffCharsToLines(d.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, df := range diffs {
		prefix := " "
		switch df.Type {
		case dmp.DiffDelete:
			prefix = "-"
		case dmp.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(df.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// statementDump labels each statement with its node type, which the YAML
// form of the node itself does not carry.
type statementDump struct {
	Kind      string              `yaml:"kind"`
	Statement sqlsyntax.Statement `yaml:"statement"`
}

func dumpStatements(stmts []sqlsyntax.Statement) []statementDump {
	out := make([]statementDump, len(stmts))
	for i, s := range stmts {
		out[i] = statementDump{Kind: strings.TrimPrefix(fmt.Sprintf("%T", s), "*ast."), Statement: s}
	}
	return out
}
