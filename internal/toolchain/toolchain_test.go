package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nestexec "github.com/simonhull/nest/exec"
)

// mockCommand re-executes the test binary, which records the command line
// into calls.log in its working directory.
func mockCommand(name string, args ...string) *exec.Cmd {
	cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
	cmd := exec.Command(os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	return cmd
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}

	line := strings.Join(args, " ")
	f, err := os.OpenFile("calls.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintln(f, line)
		f.Close()
	}

	if len(args) > 2 && args[0] == "cargo" && strings.Contains(line, "--name broken") {
		fmt.Fprintln(os.Stderr, "error: invalid character in package name")
		os.Exit(101)
	}
	fmt.Println("ok: " + line)
	os.Exit(0)
}

func calls(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "calls.log"))
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestCargoInit(t *testing.T) {
	dir := t.TempDir()
	tc := New(Options{CommandFunc: mockCommand})

	require.NoError(t, tc.CargoInit(context.Background(), dir, Bin, "app"))
	require.NoError(t, tc.CargoInit(context.Background(), dir, Lib, "core"))

	assert.Equal(t, []string{
		"cargo init --bin --vcs none --name app",
		"cargo init --lib --vcs none --name core",
	}, calls(t, dir))
}

func TestCargoInit_Failure(t *testing.T) {
	dir := t.TempDir()
	tc := New(Options{CommandFunc: mockCommand})

	err := tc.CargoInit(context.Background(), dir, Bin, "broken")
	require.Error(t, err)

	var exitErr *nestexec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 101, exitErr.Result.ExitCode)
	assert.Contains(t, err.Error(), "invalid character in package name")
}

func TestGit(t *testing.T) {
	dir := t.TempDir()
	tc := New(Options{CommandFunc: mockCommand})
	ctx := context.Background()

	require.NoError(t, tc.GitInit(ctx, dir))
	require.NoError(t, tc.GitAddRemote(ctx, dir, RemoteURL("ada", "engine")))

	assert.Equal(t, []string{
		"git init -b main",
		"git remote add origin https://github.com/ada/engine.git",
	}, calls(t, dir))
}

func TestDebugStreaming(t *testing.T) {
	dir := t.TempDir()
	var debug bytes.Buffer
	tc := New(Options{CommandFunc: mockCommand, Debug: &debug})

	require.NoError(t, tc.GitInit(context.Background(), dir))
	assert.Equal(t, "  │ ok: git init -b main\n", debug.String())
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "https://github.com/ada/engine", RepositoryURL("ada", "engine"))
	assert.Equal(t, "https://github.com/ada/engine.git", RemoteURL("ada", "engine"))
}
