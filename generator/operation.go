package generator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
)

// Operation represents a file system operation that can be validated and executed.
//
// Validate checks if the operation would succeed without executing it. It must not
// touch the file system beyond reading it: dry runs rely on that.
// force=true skips conflict checks (e.g., file already exists).
//
// Execute performs the actual operation. This should only be called after Validate succeeds.
//
// Description returns a human-readable description for output (e.g., "Create Cargo.toml (234 bytes)").
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// MkdirOp ensures a directory (and its parents) exists.
type MkdirOp struct {
	Path string
}

func (op *MkdirOp) Validate(ctx context.Context, force bool) error {
	info, err := os.Stat(op.Path)
	if err == nil && !info.IsDir() {
		return fmt.Errorf("cannot create directory %s: a file with that name exists", op.Path)
	}
	return nil
}

func (op *MkdirOp) Execute(ctx context.Context) error {
	if err := os.MkdirAll(op.Path, 0755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", op.Path, err)
	}
	return nil
}

func (op *MkdirOp) Description() string {
	return fmt.Sprintf("Create directory %s", op.Path)
}

// WriteFileOp creates (or truncates) a file with content.
//
// Validation behavior:
//   - Checks for file conflicts unless force=true
//   - Allows empty content (zero bytes) but rejects nil content
//
// Execution behavior:
//   - Creates parent directories if needed
//   - Writes file with specified Mode
type WriteFileOp struct {
	Path    string      // File path to create
	Content []byte      // File content (can be empty, must not be nil)
	Mode    fs.FileMode // File permissions (e.g., 0644)
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	if !force {
		if _, err := os.Stat(op.Path); err == nil {
			return fmt.Errorf("file already exists: %s", op.Path)
		}
	}

	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	dir := filepath.Dir(op.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}
	return os.WriteFile(op.Path, op.Content, op.Mode)
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Create %s (%d bytes)", op.Path, len(op.Content))
}

// AppendFileOp appends content to a file, creating it when missing.
// It never conflicts: existing content is kept and Content is added after it.
type AppendFileOp struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

func (op *AppendFileOp) Validate(ctx context.Context, force bool) error {
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}
	info, err := os.Stat(op.Path)
	if err == nil && info.IsDir() {
		return fmt.Errorf("cannot append to %s: is a directory", op.Path)
	}
	return nil
}

func (op *AppendFileOp) Execute(ctx context.Context) error {
	dir := filepath.Dir(op.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(op.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, op.Mode)
	if err != nil {
		return err
	}
	if _, err := f.Write(op.Content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (op *AppendFileOp) Description() string {
	return fmt.Sprintf("Append %s (%d bytes)", op.Path, len(op.Content))
}

// CopyFileOp copies an existing file to Dest.
type CopyFileOp struct {
	Source string
	Dest   string
}

func (op *CopyFileOp) Validate(ctx context.Context, force bool) error {
	info, err := os.Stat(op.Source)
	if err != nil {
		return fmt.Errorf("cannot read source %s: %w", op.Source, err)
	}
	if info.IsDir() {
		return fmt.Errorf("source %s is a directory", op.Source)
	}

	if !force {
		if _, err := os.Stat(op.Dest); err == nil {
			return fmt.Errorf("file already exists: %s", op.Dest)
		}
	}
	return nil
}

func (op *CopyFileOp) Execute(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(op.Dest), 0755); err != nil {
		return err
	}
	return cp.Copy(op.Source, op.Dest)
}

func (op *CopyFileOp) Description() string {
	return fmt.Sprintf("Copy %s -> %s", op.Source, op.Dest)
}
