package generator

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Builder assembles a Pipeline.
//
//	p, err := generator.NewBuilder().
//	    WithDir(dir).
//	    DryRun(true).
//	    WithSteps(steps...).
//	    Build()
type Builder struct {
	steps  []Step
	dir    string
	dryRun bool
	gate   Gate
	out    io.Writer
	logger *log.Logger
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithSteps appends steps. They run in the order given.
func (b *Builder) WithSteps(steps ...Step) *Builder {
	b.steps = append(b.steps, steps...)
	return b
}

// WithDir sets the target directory.
func (b *Builder) WithDir(dir string) *Builder {
	b.dir = dir
	return b
}

func (b *Builder) DryRun(dryRun bool) *Builder {
	b.dryRun = dryRun
	return b
}

// WithGate sets the check that runs before any step.
func (b *Builder) WithGate(g Gate) *Builder {
	b.gate = g
	return b
}

func (b *Builder) WithOutput(w io.Writer) *Builder {
	b.out = w
	return b
}

func (b *Builder) WithLogger(l *log.Logger) *Builder {
	b.logger = l
	return b
}

// Build returns a pipeline in the Built state.
func (b *Builder) Build() (*Pipeline, error) {
	if b.dir == "" {
		return nil, errors.New("pipeline needs a target directory")
	}

	dir, err := filepath.Abs(b.dir)
	if err != nil {
		return nil, err
	}


	out := b.out
	if out == nil {
		out = os.Stdout
	}
	logger := b.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Pipeline{
		steps:  append([]Step(nil), b.steps...),
		dir:    dir,
		dryRun: b.dryRun,
		gate:   b.gate,
		out:    out,
		logger: logger,
		tree:   NewTree(filepath.Base(dir)),
		status: Built,
	}, nil
}
