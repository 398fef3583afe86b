// Package compiler runs the DML pipeline: lex, parse, validate and generate.
// Each compile builds its own state; a Compiler may be reused.
package compiler

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"dml-mapper/internal/diagnostic"
	"dml-mapper/internal/gen"
	"dml-mapper/internal/lexer"
	"dml-mapper/internal/mapping"
	"dml-mapper/internal/parser"
	"dml-mapper/internal/plan"
	"dml-mapper/internal/transform"
)

// Options configures a Compiler.
type Options struct {
	Generator gen.GeneratorConfig
	// Registry is the transform library; nil means transform.Default.
	Registry *transform.Registry
	Logger   *zap.Logger
}

// Result holds what each completed stage produced.
type Result struct {
	Mapping     *mapping.Mapping
	Validated   *plan.ValidatedMapping
	Diagnostics *diagnostic.Diagnostics
	File        *gen.GeneratedFile
}

// Compiler turns DML text into a generated mapper.
type Compiler struct {
	opts   Options
	logger *zap.Logger
}

// New creates a Compiler.
func New(opts Options) *Compiler {
	if opts.Registry == nil {
		opts.Registry = transform.Default()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts.Generator.Logger = logger

	return &Compiler{opts: opts, logger: logger}
}

// Check lexes, parses and validates src. The returned Result is never nil;
// it holds the diagnostics even when validation fails.
func (c *Compiler) Check(src string) (*Result, error) {
	res := &Result{}

	var tokens []lexer.Token

	err := c.stage(StageLex, func() (err error) {
		tokens, err = lexer.Tokenize(src)
		return err
	})
	if err != nil {
		return res, err
	}

	err = c.stage(StageParse, func() (err error) {
		res.Mapping, err = parser.Parse(tokens)
		return err
	})
	if err != nil {
		return res, err
	}

	err = c.stage(StageValidate, func() error {
		res.Validated, res.Diagnostics = plan.Validate(res.Mapping, c.opts.Registry)

		for _, w := range res.Diagnostics.Warnings {
			c.logger.Warn(w.Message,
				zap.String("code", w.Code),
				zap.Stringer("pos", w.Pos),
				zap.String("subject", w.Subject))
		}

		if res.Diagnostics.HasErrors() {
			return &ValidationError{Diagnostics: res.Diagnostics}
		}

		return nil
	})

	return res, err
}

// Compile runs every stage up to code generation.
func (c *Compiler) Compile(src string) (*Result, error) {
	res, err := c.Check(src)
	if err != nil {
		return res, err
	}

	err = c.stage(StageGenerate, func() (err error) {
		res.File, err = gen.NewGenerator(c.opts.Generator).Generate(res.Validated)
		return err
	})

	return res, err
}

// CompileFile compiles the DML file at input and writes the mapper to
// output. Nothing is written when any stage fails.
func (c *Compiler) CompileFile(input, output string) (*Result, error) {
	var src []byte

	err := c.stage(StageRead, func() (err error) {
		src, err = os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading %s: %w", input, err)
		}

		return nil
	})
	if err != nil {
		return &Result{}, err
	}

	res, err := c.Compile(string(src))
	if err != nil {
		return res, err
	}

	err = c.stage(StageWrite, func() error {
		return gen.WriteFile(output, res.File.Content)
	})
	if err != nil {
		return res, err
	}

	c.logger.Info("mapper generated",
		zap.String("mapping", res.Mapping.Name),
		zap.String("input", input),
		zap.String("output", output))

	return res, nil
}

func (c *Compiler) stage(s Stage, fn func() error) error {
	start := time.Now()
	err := fn()

	c.logger.Debug("stage finished",
		zap.Stringer("stage", s),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", err == nil))

	if err != nil {
		return &StageError{Stage: s, Err: err}
	}

	return nil
}
