package generator

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Status is the lifecycle state of a Pipeline.
type Status int

const (
	Built Status = iota
	Executed
	Committed
)

func (s Status) String() string {
	switch s {
	case Built:
		return "built"
	case Executed:
		return "executed"
	case Committed:
		return "committed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Pipeline runs steps in order, exactly once.
//
// Execute moves Built to Executed and Commit moves Executed to Committed.
// Calls from the wrong state fail without changing it. A failing step aborts
// the run; whatever earlier steps wrote stays on disk.
type Pipeline struct {
	steps  []Step
	dir    string
	dryRun bool
	gate   Gate
	out    io.Writer
	logger *log.Logger
	tree   *Tree
	status Status
}

// Status returns the current lifecycle state.
func (p *Pipeline) Status() Status {
	return p.status
}

// Tree returns the layout recorded by the steps that ran so far.
func (p *Pipeline) Tree() *Tree {
	return p.tree
}

// DryRun reports whether the pipeline only previews.
func (p *Pipeline) DryRun() bool {
	return p.dryRun
}

// Execute passes the gate and then runs every enabled step in order.
func (p *Pipeline) Execute(ctx context.Context) error {
	if p.status != Built {
		return ErrAlreadyExecuted
	}
	p.status = Executed

	if p.gate != nil {
		if err := p.gate.Allow(ctx); err != nil {
			return err
		}
	}

	env := &Env{
		Dir:    p.dir,
		DryRun: p.dryRun,
		Tree:   p.tree,
		Logger: p.logger,
		Out:    p.out,
	}

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !step.Enabled() {
			p.logger.Debug("step disabled", "step", step.Name())
			continue
		}

		p.logger.Info("running step", "step", step.Name(), "dry_run", p.dryRun)
		if err := step.Create(ctx, env); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	if !p.tree.Balanced() {
		return ErrUnbalancedTree
	}
	return nil
}

// Commit finalizes an executed pipeline. In a dry run it prints the preview tree.
func (p *Pipeline) Commit() error {
	switch p.status {
	case Built:
		return ErrNotExecuted
	case Committed:
		return ErrAlreadyCommitted
	}

	if p.dryRun {
		rendered, err := p.tree.Render()
		if err != nil {
			return err
		}
		fmt.Fprintln(p.out, rendered)
	} else {
		p.logger.Info("workspace generated", "dir", p.dir)
	}

	p.status = Committed
	return nil
}
