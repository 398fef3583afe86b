package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer

	code := run(args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func writeMapping(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mapping.map")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	return path
}

func TestRun_Examples(t *testing.T) {
	examples := []string{
		"../../examples/enrichment/orders.map",
		"../../examples/invoices/invoices.map",
		"../../examples/edi/purchase_orders.map",
	}

	for _, example := range examples {
		t.Run(filepath.Base(example), func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "mapper.go")

			code, _, stderr := runCLI("-l", "error", "-o", out, example)
			require.Equal(t, 0, code, stderr)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Contains(t, string(data), "// Code generated by dml-mapper from "+filepath.Base(example))
		})
	}
}

func TestRun_DefaultOutput(t *testing.T) {
	input := writeMapping(t, `MAPPING m { SOURCE CSV { file: "in.csv" } TARGET JSON {} RULES { map id -> Id } }`)

	code, _, stderr := runCLI("-l", "error", input)
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(filepath.Dir(input), "mapping.go"))
}

func TestRun_PositionalOutputAndPackage(t *testing.T) {
	input := writeMapping(t, `MAPPING m { SOURCE CSV { file: "in.csv" } TARGET JSON {} RULES { map id -> Id } }`)
	out := filepath.Join(t.TempDir(), "mappers", "m.go")

	code, _, stderr := runCLI("-l", "error", "-p", "mappers", "--runtime", "example.com/rt/dmlrt", input, out)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package mappers")
	assert.Contains(t, string(data), `dmlrt "example.com/rt/dmlrt"`)
}

func TestRun_ValidationDiagnostics(t *testing.T) {
	input := writeMapping(t, `MAPPING m {
    SOURCE CSV { file: "in.csv" }
    TARGET JSON { file: "out.json" }
    RULES {
        map a -> A TRANSFORM uper()
    }
}`)

	code, _, stderr := runCLI("-l", "error", input)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `validate: 5:30: [UnknownTransform]`)
	assert.Contains(t, stderr, `(did you mean "upper"?)`)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "mapping.go"))
}

func TestRun_LexError(t *testing.T) {
	input := writeMapping(t, "MAPPING m {\n  $ }")

	code, _, stderr := runCLI("-l", "error", input)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "lex: 2:3: unexpected character '$'")
}

func TestRun_CheckAndDump(t *testing.T) {
	input := writeMapping(t, `MAPPING m { SOURCE CSV { file: "in.csv" } TARGET JSON {} RULES { map id -> Id } }`)

	code, _, stderr := runCLI("-l", "error", "--check", "--dump-ir", input)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stderr, "mapping.Mapping")
	assert.Contains(t, stderr, `Name: (string) (len=1) "m"`)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "mapping.go"))
}

func TestRun_Config(t *testing.T) {
	input := writeMapping(t, `MAPPING m { SOURCE CSV { file: "in.csv" } TARGET JSON {} RULES { map id -> Id } }`)
	cfgPath := filepath.Join(t.TempDir(), "dml-mapper.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("package: fromconfig\ncomments: false\nlog:\n  level: error\n"), 0o644))

	out := filepath.Join(t.TempDir(), "m.go")

	code, _, stderr := runCLI("-c", cfgPath, "-o", out, input)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package fromconfig")
	assert.NotContains(t, string(data), "// map id -> Id")

	code, _, stderr = runCLI("-c", cfgPath, "-p", "1bad", input)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid config")
}

func TestRun_Usage(t *testing.T) {
	code, stdout, _ := runCLI("--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "--dump-ir")

	code, _, stderr := runCLI()
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "INPUT")
}
