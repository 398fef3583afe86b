package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dml-mapper/internal/diagnostic"
	"dml-mapper/internal/gen"
	"dml-mapper/internal/lexer"
	"dml-mapper/internal/parser"
)

func newCompiler() *Compiler {
	return New(Options{Generator: gen.DefaultGeneratorConfig()})
}

func TestCompile(t *testing.T) {
	src, err := os.ReadFile("testdata/orders.map")
	require.NoError(t, err)

	res, err := newCompiler().Compile(string(src))
	require.NoError(t, err)
	require.NotNil(t, res.File)

	assert.Equal(t, "order_enrichment", res.Mapping.Name)
	assert.True(t, res.Diagnostics.IsValid())
	assert.Equal(t, "order_enrichment.go", res.File.Filename)

	content := string(res.File.Content)
	assert.Contains(t, content, "package main")
	assert.Contains(t, content, "Enrichment: &dmlrt.Enrichment{")
	assert.Contains(t, content, `out.SetPath("unknown", "Status")`)
}

func TestCompile_StageErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		stage Stage
		check func(t *testing.T, err error)
	}{
		{
			name:  "lex",
			src:   `MAPPING m { $ }`,
			stage: StageLex,
			check: func(t *testing.T, err error) {
				var lexErr *lexer.LexError
				assert.True(t, errors.As(err, &lexErr))
			},
		},
		{
			name:  "parse",
			src:   `MAPPING m { SOURCE CSV {} TARGET CSV {} RULES { a -> b } }`,
			stage: StageParse,
			check: func(t *testing.T, err error) {
				var parseErr *parser.ParseError
				assert.True(t, errors.As(err, &parseErr))
			},
		},
		{
			name: "validate",
			src: `MAPPING m {
    SOURCE CSV { file: "in.csv" }
    TARGET JSON { file: "out.json" }
    RULES {
        map a -> A TRANSFORM uper()
        map b -> B AS integr
    }
}`,
			stage: StageValidate,
			check: func(t *testing.T, err error) {
				var valErr *ValidationError
				require.True(t, errors.As(err, &valErr))
				assert.Equal(t, []string{diagnostic.CodeUnknownTransform, diagnostic.CodeInvalidCast},
					valErr.Diagnostics.Codes())
				assert.Contains(t, err.Error(), "2 errors")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newCompiler().Compile(tt.src)
			require.Error(t, err)
			require.NotNil(t, res)
			assert.Nil(t, res.File)

			var stageErr *StageError
			require.True(t, errors.As(err, &stageErr))
			assert.Equal(t, tt.stage, stageErr.Stage)
			assert.Contains(t, err.Error(), tt.stage.String()+": ")

			tt.check(t, err)
		})
	}
}

func TestCheck_LogsWarnings(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c := New(Options{Logger: zap.New(core)})

	res, err := c.Check(`MAPPING m {
    SOURCE CSV AS main { file: "main.csv" }
    SOURCE CSV AS ref { file: "ref.csv" }
    COMPONENT DB {
        query: "SELECT * FROM main JOIN ref ON main.id = ref.id"
        engine: sqlite
    }
    TARGET JSON { file: "out.json" }
    RULES { map id -> Id }
}`)
	require.NoError(t, err)
	require.NotNil(t, res.Validated)

	var codes []string
	for _, entry := range logs.All() {
		codes = append(codes, entry.ContextMap()["code"].(string))
	}

	assert.Contains(t, codes, diagnostic.CodeUnknownConfigKey)
	assert.Contains(t, codes, diagnostic.CodeUncheckedColumns)
}

func TestCompileFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "gen", "orders.go")

	res, err := newCompiler().CompileFile("testdata/orders.map", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, res.File.Content, data)
}

func TestCompileFile_NoOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.map")
	out := filepath.Join(dir, "bad.go")

	require.NoError(t, os.WriteFile(input, []byte(`MAPPING bad { SOURCE CSV { file: "in.csv" } TARGET JSON {} RULES { } }`), 0o644))

	_, err := newCompiler().CompileFile(input, out)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageValidate, stageErr.Stage)
	assert.NoFileExists(t, out)

	_, err = newCompiler().CompileFile(filepath.Join(dir, "missing.map"), out)
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageRead, stageErr.Stage)
	assert.NoFileExists(t, out)
}
