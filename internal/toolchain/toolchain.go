// Package toolchain drives the cargo and git binaries.
package toolchain

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/simonhull/nest/exec"
	"github.com/simonhull/nest/output"
)

// Kind selects the crate type cargo init creates.
type Kind string

const (
	Bin Kind = "bin"
	Lib Kind = "lib"
)

// Options configures a Toolchain.
type Options struct {
	// Debug, when set, receives the tools' output line by line and disables
	// the spinner.
	Debug       io.Writer
	Logger      *log.Logger
	CommandFunc exec.CommandFunc
}

// Toolchain runs cargo and git in a target directory.
type Toolchain struct {
	exec   *exec.Executor
	stream bool
	logger *log.Logger
}

// New creates a toolchain.
func New(opts Options) *Toolchain {
	logger := opts.Logger
	if logger == nil {
		logger = output.Discard()
	}

	execOpts := &exec.Options{CommandFunc: opts.CommandFunc}
	if opts.Debug != nil {
		execOpts.Stdout = exec.NewPrefixWriter(opts.Debug, "  │ ")
		execOpts.Stderr = exec.NewPrefixWriter(opts.Debug, "  │ ")
	}

	return &Toolchain{
		exec:   exec.NewExecutor(execOpts),
		stream: opts.Debug != nil,
		logger: logger,
	}
}

// Executor exposes the underlying executor for other git/cargo consumers.
func (t *Toolchain) Executor() *exec.Executor {
	return t.exec
}

func (t *Toolchain) run(ctx context.Context, dir, message, name string, args ...string) error {
	cmd := exec.NewGenericCommand(t.exec, name).WithArgs(args...).WithDir(dir)
	t.logger.Debug("running", "cmd", cmd.String(), "dir", dir)
	if !t.stream {
		cmd = cmd.WithSpinner(message)
	}
	if err := cmd.Run(ctx); err != nil {
		return fmt.Errorf("%s: %w", cmd.String(), err)
	}
	return nil
}

// CargoInit runs `cargo init --<kind> --vcs none --name <name>` in dir.
func (t *Toolchain) CargoInit(ctx context.Context, dir string, kind Kind, name string) error {
	return t.run(ctx, dir, fmt.Sprintf("Initializing %s crate %s", kind, name),
		"cargo", "init", "--"+string(kind), "--vcs", "none", "--name", name)
}

// GitInit runs `git init -b main` in dir.
func (t *Toolchain) GitInit(ctx context.Context, dir string) error {
	return t.run(ctx, dir, "Initializing git repository", "git", "init", "-b", "main")
}

// GitAddRemote registers url as origin.
func (t *Toolchain) GitAddRemote(ctx context.Context, dir, url string) error {
	return t.run(ctx, dir, "Adding git remote", "git", "remote", "add", "origin", url)
}

// RepositoryURL is the GitHub page of user/repo.
func RepositoryURL(user, repo string) string {
	return fmt.Sprintf("https://github.com/%s/%s", user, repo)
}

// RemoteURL is the clone URL of user/repo.
func RemoteURL(user, repo string) string {
	return RepositoryURL(user, repo) + ".git"
}
