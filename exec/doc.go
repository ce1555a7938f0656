// Package exec runs external commands (git, cargo) with beautiful UX.
//
// The package is domain-agnostic and provides two main components:
//
// 1. Executor - Runs system commands with context support, captured or streamed output, and spinners
// 2. GenericCommand - Fluent API for building and executing commands
//
// # Basic Usage
//
//	executor := exec.NewExecutor(nil)
//	err := executor.Run(ctx, "echo", "Hello, World!")
//
// # Capturing Output
//
// Output captures both streams and reports the exit status:
//
//	res, err := executor.Output(ctx, "git", "config", "--get", "user.name")
//	var exitErr *exec.ExitError
//	if errors.As(err, &exitErr) {
//	    // exitErr.Result.ExitCode, exitErr.Result.Stderr
//	}
//
// # Fluent Commands
//
//	err := exec.NewGenericCommand(executor, "cargo").
//	    WithArgs("init", "--bin").
//	    WithDir(dir).
//	    WithSpinner("Initializing crate").
//	    Run(ctx)
//
// Spinners are only drawn when stderr is a terminal.
//
// # Testing
//
// Options.CommandFunc replaces os/exec.Command, so tests can re-exec the test
// binary (see TestHelperProcess in the package tests) instead of running real tools.
package exec
