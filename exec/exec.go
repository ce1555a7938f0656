package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// CommandFunc builds the *exec.Cmd for a command line. Tests swap it out to
// re-exec the test binary instead of running real tools.
type CommandFunc func(name string, args ...string) *exec.Cmd

// Executor runs external commands with beautiful UX
type Executor struct {
	stdout io.Writer
	stderr io.Writer
	env    []string
	dir    string

	commandFunc CommandFunc
}

// Options configures command execution
type Options struct {
	Stdout      io.Writer
	Stderr      io.Writer
	Env         []string    // Additional environment variables
	Dir         string      // Working directory
	CommandFunc CommandFunc // Defaults to os/exec.Command
}

// Result is the outcome of a command whose streams were captured.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Command string
	Result  *Result
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Result.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.Result.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.Result.ExitCode, msg)
}

// NewExecutor creates an executor with sensible defaults
func NewExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{}
	}

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.CommandFunc == nil {
		opts.CommandFunc = exec.Command
	}

	return &Executor{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		env:         opts.Env,
		dir:         opts.Dir,
		commandFunc: opts.CommandFunc,
	}
}

func (e *Executor) command(name string, args ...string) *exec.Cmd {
	cmd := e.commandFunc(name, args...)
	if e.dir != "" {
		cmd.Dir = e.dir
	}
	if len(e.env) > 0 {
		if cmd.Env == nil {
			cmd.Env = os.Environ()
		}
		cmd.Env = append(cmd.Env, e.env...)
	}
	return cmd
}

// wait starts cmd and blocks until it exits or ctx is cancelled.
func wait(ctx context.Context, cmd *exec.Cmd, name string) error {
	if err := cmd.Start(); err != nil {
		if isCommandNotFound(err) {
			return enhanceError(err, name)
		}
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		<-errCh
		return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
	case err := <-errCh:
		return err
	}
}

// Run executes a command, streaming its output to the executor's writers.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	cmd := e.command(name, args...)
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := wait(ctx, cmd, name); err != nil {
		if isCommandNotFound(err) {
			return enhanceError(err, name)
		}
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// Output executes a command and captures both streams.
// A non-zero exit yields the Result together with an *ExitError.
func (e *Executor) Output(ctx context.Context, name string, args ...string) (*Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := e.command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := wait(ctx, cmd, name)
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, &ExitError{Command: commandLine(name, args), Result: res}
	}
	return res, err
}

// RunWithSpinner runs a command with a progress spinner.
// When stderr is not a terminal the spinner is skipped and output is discarded.
func (e *Executor) RunWithSpinner(ctx context.Context, message string, name string, args ...string) error {
	if !isTerminal(e.stderr) {
		_, err := e.Output(ctx, name, args...)
		return err
	}

	done := make(chan error, 1)
	go func() {
		_, err := e.Output(ctx, name, args...)
		done <- err
	}()

	m := newSpinnerModel(message)
	p := tea.NewProgram(m, tea.WithOutput(e.stderr), tea.WithInput(nil))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		// The spinner is cosmetic; the command's own error is what counts.
		_, _ = p.Run()
	}()

	err := <-done
	p.Send(spinnerDoneMsg{err: err})

	select {
	case <-finished:
	case <-time.After(200 * time.Millisecond):
		p.Quit()
		<-finished
	}

	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// spinnerModel is the bubbletea model for the spinner
type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{
		spinner: s,
		message: message,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("❌ %s\n", m.message)
		}
		return fmt.Sprintf("✅ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}

// isCommandNotFound checks if an error indicates a command was not found
func isCommandNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) ||
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "command not found")
}

// enhanceError adds helpful message for missing commands
func enhanceError(err error, cmd string) error {
	return fmt.Errorf("%w\n💡 Command '%s' not found. Please install it and try again", err, cmd)
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// GenericCommand provides a fluent API for building and executing commands
type GenericCommand struct {
	executor    *Executor
	command     string
	args        []string
	env         []string
	dir         string
	showSpinner bool
	spinnerMsg  string
}

// NewGenericCommand creates a new generic command builder
func NewGenericCommand(executor *Executor, command string) *GenericCommand {
	return &GenericCommand{
		executor: executor,
		command:  command,
		args:     []string{},
	}
}

// WithArgs adds arguments to the command
func (g *GenericCommand) WithArgs(args ...string) *GenericCommand {
	g.args = append(g.args, args...)
	return g
}

// WithEnv adds environment variables
func (g *GenericCommand) WithEnv(env ...string) *GenericCommand {
	g.env = append(g.env, env...)
	return g
}

// WithDir sets the working directory
func (g *GenericCommand) WithDir(dir string) *GenericCommand {
	g.dir = dir
	return g
}

// WithSpinner enables spinner with the given message
func (g *GenericCommand) WithSpinner(message string) *GenericCommand {
	g.showSpinner = true
	g.spinnerMsg = message
	return g
}

func (g *GenericCommand) resolve() *Executor {
	e := &Executor{
		stdout:      g.executor.stdout,
		stderr:      g.executor.stderr,
		env:         append(append([]string{}, g.executor.env...), g.env...),
		dir:         g.dir,
		commandFunc: g.executor.commandFunc,
	}
	if g.dir == "" {
		e.dir = g.executor.dir
	}
	return e
}

// Run executes the command
func (g *GenericCommand) Run(ctx context.Context) error {
	e := g.resolve()
	if g.showSpinner {
		return e.RunWithSpinner(ctx, g.spinnerMsg, g.command, g.args...)
	}
	return e.Run(ctx, g.command, g.args...)
}

// Output executes the command and captures its streams.
func (g *GenericCommand) Output(ctx context.Context) (*Result, error) {
	return g.resolve().Output(ctx, g.command, g.args...)
}

// String returns the command string representation for debugging
func (g *GenericCommand) String() string {
	return commandLine(g.command, g.args)
}
