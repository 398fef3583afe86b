// Command dml-mapper compiles a DML mapping into a standalone Go mapper.
//
//	dml-mapper [options] INPUT [OUTPUT]
//
// The generated file is written next to INPUT with a .go extension unless
// an output is given. Diagnostics go to stderr as
//
//	stage: line:col: [Code] message
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/jessevdk/go-flags"

	"dml-mapper/internal/compiler"
	"dml-mapper/internal/config"
	"dml-mapper/internal/diagnostic"
	"dml-mapper/internal/gen"
	"dml-mapper/internal/logging"
)

// Options are the command-line flags.
type Options struct {
	Output   string `short:"o" long:"output" description:"Generated Go file (default: INPUT with .go)"`
	Config   string `short:"c" long:"config" description:"YAML configuration file"`
	Package  string `short:"p" long:"package" description:"Generated package name"`
	Runtime  string `long:"runtime" description:"Import path of the mapper runtime"`
	Check    bool   `long:"check" description:"Validate only, write nothing"`
	DumpIR   bool   `long:"dump-ir" description:"Dump the parsed mapping to stderr"`
	LogLevel string `short:"l" long:"log-level" description:"Log level" choice:"debug" choice:"info" choice:"warn" choice:"error"`

	Args struct {
		Input  string `positional-arg-name:"INPUT" required:"yes"`
		Output string `positional-arg-name:"OUTPUT"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts Options

	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, err)
			return 0
		}

		fmt.Fprintf(stderr, "dml-mapper: %v\n", err)

		return 1
	}

	cfg, err := loadConfig(&opts)
	if err != nil {
		fmt.Fprintf(stderr, "dml-mapper: %v\n", err)
		return 1
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		fmt.Fprintf(stderr, "dml-mapper: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	input := opts.Args.Input

	c := compiler.New(compiler.Options{
		Generator: gen.GeneratorConfig{
			PackageName:      cfg.Package,
			RuntimeImport:    cfg.Runtime,
			SourceName:       filepath.Base(input),
			GenerateComments: cfg.CommentsEnabled(),
		},
		Logger: logger,
	})

	var res *compiler.Result

	if opts.Check {
		src, readErr := os.ReadFile(input)
		if readErr != nil {
			fmt.Fprintf(stderr, "read: %v\n", readErr)
			return 1
		}

		res, err = c.Check(string(src))
	} else {
		res, err = c.CompileFile(input, outputPath(&opts))
	}

	if opts.DumpIR && res != nil && res.Mapping != nil {
		spew.Fdump(stderr, res.Mapping)
	}

	if err != nil {
		report(stderr, err)
		return 1
	}

	return 0
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg := config.Default()

	if opts.Config != "" {
		var err error
		if cfg, err = config.LoadFile(opts.Config); err != nil {
			return nil, err
		}
	}

	if opts.Package != "" {
		cfg.Package = opts.Package
	}

	if opts.Runtime != "" {
		cfg.Runtime = opts.Runtime
	}

	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func outputPath(opts *Options) string {
	switch {
	case opts.Output != "":
		return opts.Output
	case opts.Args.Output != "":
		return opts.Args.Output
	default:
		input := opts.Args.Input
		return strings.TrimSuffix(input, filepath.Ext(input)) + ".go"
	}
}

// report prints err with one line per diagnostic.
func report(w io.Writer, err error) {
	var (
		stageErr *compiler.StageError
		valErr   *compiler.ValidationError
	)

	if !errors.As(err, &stageErr) {
		fmt.Fprintf(w, "dml-mapper: %v\n", err)
		return
	}

	if !errors.As(err, &valErr) {
		fmt.Fprintln(w, err)
		return
	}

	for _, d := range valErr.Diagnostics.Errors {
		fmt.Fprintf(w, "%s: %s\n", stageErr.Stage, formatDiagnostic(d))
	}
}

func formatDiagnostic(d diagnostic.Diagnostic) string {
	var b strings.Builder

	if d.Pos.IsValid() {
		b.WriteString(d.Pos.String() + ": ")
	}

	fmt.Fprintf(&b, "[%s] %s", d.Code, d.Message)

	if len(d.Suggestions) > 0 {
		quoted := make([]string, len(d.Suggestions))
		for i, s := range d.Suggestions {
			quoted[i] = fmt.Sprintf("%q", s)
		}

		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(quoted, " or "))
	}

	return b.String()
}
