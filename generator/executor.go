package generator

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	Force  bool
	Writer io.Writer // Where to write output (defaults to os.Stdout)
}

// Execute runs operations with validation.
// Every operation is validated before the first one executes, so a batch with
// a bad operation leaves the file system untouched.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	// Phase 1: Validate all operations
	for _, op := range ops {
		if err := op.Validate(ctx, opts.Force); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	// Phase 2: Execute
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := op.Execute(ctx); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		fmt.Fprintf(opts.Writer, "✓ %s\n", op.Description())
	}

	return nil
}
