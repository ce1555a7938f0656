package generator

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Step creates one category of artifacts (license, gitignore, crates, ...).
//
// A step that is not Enabled is skipped entirely: it adds nothing to the
// preview tree and performs no I/O. An enabled step records everything it
// would create in env.Tree whether or not the run is a dry run, and sends
// every mutation through env.Apply.
type Step interface {
	Name() string
	Enabled() bool
	Create(ctx context.Context, env *Env) error
}

// Env is what a step gets to work with.
type Env struct {
	// Dir is the absolute target directory.
	Dir    string
	DryRun bool
	// Tree receives the planned layout. Never nil inside a pipeline.
	Tree   Sink
	Logger *log.Logger
	// Out receives the "✓ Create ..." lines of executed operations.
	Out io.Writer
}

// Path joins elem onto the target directory.
func (e *Env) Path(elem ...string) string {
	return filepath.Join(append([]string{e.Dir}, elem...)...)
}

// Apply validates and then executes ops. In a dry run it does nothing.
func (e *Env) Apply(ctx context.Context, ops ...Operation) error {
	if e.DryRun {
		for _, op := range ops {
			e.Logger.Debug("dry run, skipping", "op", op.Description())
		}
		return nil
	}
	return Execute(ctx, ops, ExecuteOptions{Force: true, Writer: e.Out})
}
