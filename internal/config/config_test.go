package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "main", cfg.Package)
	assert.Equal(t, "dml-mapper/dmlrt", cfg.Runtime)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.CommentsEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
package: mappers
runtime: example.com/rt/dmlrt
comments: false
log:
  level: debug
  development: true
`))
	require.NoError(t, err)

	assert.Equal(t, "mappers", cfg.Package)
	assert.Equal(t, "example.com/rt/dmlrt", cfg.Runtime)
	assert.False(t, cfg.CommentsEnabled())
	assert.Equal(t, Log{Level: "debug", Development: true}, cfg.Log)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad package", "package: 1mappers", `rule "goident"`},
		{"keyword package", "package: func", `rule "goident"`},
		{"bad level", "log:\n  level: loud", `rule "oneof=debug info warn error"`},
		{"unknown key", "pkg: main", "field pkg not found"},
		{"malformed", "package: [", "failed to parse config YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dml-mapper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("package: out\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Package)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
