package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMkdirOp(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	op := &MkdirOp{Path: filepath.Join(dir, "bin", "demo")}
	require.NoError(t, op.Validate(ctx, false))
	require.NoError(t, op.Execute(ctx))
	assert.DirExists(t, op.Path)
	assert.Contains(t, op.Description(), "bin/demo")

	// existing directory is fine
	require.NoError(t, op.Validate(ctx, false))
	require.NoError(t, op.Execute(ctx))

	file := filepath.Join(dir, "etc")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	err := (&MkdirOp{Path: file}).Validate(ctx, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a file with that name exists")
}

func TestWriteFileOp(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "src", "main.rs")

	op := &WriteFileOp{Path: path, Content: []byte("fn main() {}\n"), Mode: 0644}
	require.NoError(t, op.Validate(ctx, false))
	require.NoError(t, op.Execute(ctx))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}\n", string(content))
	assert.Equal(t, "Create "+path+" (13 bytes)", op.Description())

	assert.Error(t, op.Validate(ctx, false))
	assert.NoError(t, op.Validate(ctx, true))
}

func TestAppendFileOp(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".gitignore")

	op := &AppendFileOp{Path: path, Content: []byte("target/\n"), Mode: 0644}
	for i := 0; i < 2; i++ {
		require.NoError(t, op.Validate(ctx, false))
		require.NoError(t, op.Execute(ctx))
	}

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "target/\ntarget/\n", string(content))

	assert.Error(t, (&AppendFileOp{Path: path}).Validate(ctx, false), "nil content")
	assert.Error(t, (&AppendFileOp{Path: filepath.Dir(path), Content: []byte("x")}).Validate(ctx, false), "directory")
}

func TestCopyFileOp(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := filepath.Join(dir, "workflow.yml")
	require.NoError(t, os.WriteFile(src, []byte("jobs: {}\n"), 0644))

	dest := filepath.Join(dir, ".github", "workflows", "ci.yml")
	op := &CopyFileOp{Source: src, Dest: dest}
	require.NoError(t, op.Validate(ctx, false))
	require.NoError(t, op.Execute(ctx))

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "jobs: {}\n", string(content))

	assert.Error(t, op.Validate(ctx, false), "destination exists")
	assert.NoError(t, op.Validate(ctx, true))

	missing := &CopyFileOp{Source: filepath.Join(dir, "nope.yml"), Dest: dest}
	assert.Error(t, missing.Validate(ctx, true))

	isDir := &CopyFileOp{Source: dir, Dest: dest}
	assert.Error(t, isDir.Validate(ctx, true))
}
