package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "orders.go")

	require.NoError(t, WriteFile(path, []byte("package main\n")))
	require.NoError(t, WriteFile(path, []byte("package main\n\nfunc main() {}\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nfunc main() {}\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWriteFile_LeavesTargetOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.go")

	require.NoError(t, os.Mkdir(path, dirPerm))

	err := WriteFile(path, []byte("package main\n"))
	require.Error(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
