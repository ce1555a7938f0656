package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/nest"
	"github.com/simonhull/nest/internal/assets"
	"github.com/simonhull/nest/internal/config"
	"github.com/simonhull/nest/internal/license"
	"github.com/simonhull/nest/internal/scaffold"
	"github.com/simonhull/nest/internal/toolchain"
)

type fakeToolchain struct {
	calls []string
}

func (f *fakeToolchain) CargoInit(_ context.Context, dir string, kind toolchain.Kind, name string) error {
	f.calls = append(f.calls, "cargo init "+string(kind)+" "+name)
	src := "main.rs"
	if kind == toolchain.Lib {
		src = "lib.rs"
	}
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "src", src), nil, 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]\nname = \""+name+"\"\n"), 0o644)
}

func (f *fakeToolchain) GitInit(_ context.Context, dir string) error {
	f.calls = append(f.calls, "git init")
	return os.Mkdir(filepath.Join(dir, ".git"), 0o755)
}

func (f *fakeToolchain) GitAddRemote(_ context.Context, _ string, url string) error {
	f.calls = append(f.calls, "git remote add origin "+url)
	return nil
}

type fakeIdentity struct{}

func (fakeIdentity) Name(_ context.Context, authors []string) string {
	if len(authors) > 0 {
		return authors[0]
	}
	return "Ada"
}

func (f fakeIdentity) Authors(ctx context.Context, authors []string) []string {
	if len(authors) > 0 {
		return authors
	}
	return []string{"Ada"}
}

func (fakeIdentity) GitUser(context.Context) string { return "ada" }

type fakeFetcher struct{}

func (fakeFetcher) Fetch(context.Context, assets.Asset) ([]byte, error) {
	return nil, errors.New("offline")
}

type harness struct {
	tc   *fakeToolchain
	cfgs []*config.Config
}

func (h *harness) deps(cfg *config.Config, _ *log.Logger, _ io.Writer) scaffold.Deps {
	h.cfgs = append(h.cfgs, cfg)
	return scaffold.Deps{
		Licenses:  license.Static{"mit": license.MIT},
		Assets:    fakeFetcher{},
		Toolchain: h.tc,
		Identity:  fakeIdentity{},
		Now:       func() time.Time { return time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
}

// execute runs nest with args and stdin, returning the exit code and both streams.
func execute(t *testing.T, h *harness, stdin string, args ...string) (int, string, string) {
	t.Helper()
	cmd := newRootCmd(h.deps)
	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	code := Execute(context.Background(), cmd)
	return code, stdout.String(), stderr.String()
}

func newHarness() *harness {
	return &harness{tc: &fakeToolchain{}}
}

func TestWorkspace(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	h := newHarness()

	code, stdout, stderr := execute(t, h, "", dir, "--name", "engine", "--authors", "Grace Hopper")
	require.Equal(t, 0, code, stderr)

	assert.FileExists(t, filepath.Join(dir, "Cargo.toml"))
	assert.FileExists(t, filepath.Join(dir, "bin", "engine", "src", "main.rs"))
	assert.FileExists(t, filepath.Join(dir, "crates", "common", "src", "lib.rs"))
	assert.Empty(t, h.tc.calls)

	assert.Contains(t, stdout, "Created workspace engine")
	assert.Contains(t, stdout, "cd "+dir)
	assert.Contains(t, stdout, "cargo run --bin engine")

	manifest, err := os.ReadFile(filepath.Join(dir, "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), `"Grace Hopper"`)
}

func TestDryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	h := newHarness()

	code, stdout, stderr := execute(t, h, "", dir, "--dry-run", "--full")
	require.Equal(t, 0, code, stderr)

	assert.NoDirExists(t, dir)
	assert.Empty(t, h.tc.calls)
	for _, entry := range []string{"proj/", "LICENSE", ".gitignore", "etc", "banner.png", "Cargo.toml", "main.rs", "lib.rs", "ci.yml"} {
		assert.Contains(t, stdout, entry)
	}
	assert.Contains(t, stdout, "Dry run, nothing was written")
}

func TestBin(t *testing.T) {
	dir := t.TempDir()
	h := newHarness()

	code, _, stderr := execute(t, h, "", dir, "--bin", "--name", "tool", "--git")
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, []string{
		"cargo init bin tool",
		"git init",
		"git remote add origin " + toolchain.RemoteURL("ada", filepath.Base(dir)),
	}, h.tc.calls)
	assert.FileExists(t, filepath.Join(dir, "README.md"))
}

func TestConflictAbort(t *testing.T) {
	dir := t.TempDir()
	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("mine\n"), 0o644))
	h := newHarness()

	code, stdout, stderr := execute(t, h, "n\n", dir)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Found README.md")
	assert.Contains(t, stdout, AbortMessage)
	assert.Contains(t, stderr, "README.md already exists")
	assert.NoFileExists(t, filepath.Join(dir, "Cargo.toml"))

	data, err := os.ReadFile(readme)
	require.NoError(t, err)
	assert.Equal(t, "mine\n", string(data))
}

func TestConflictingManifestDeclined(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]\n"), 0o644))

	code, stdout, _ := execute(t, newHarness(), "n\n", dir)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Found conflicting files")
	assert.Contains(t, stdout, AbortMessage)
	assert.NoDirExists(t, filepath.Join(dir, "bin"))
}

func TestWorkflowsWithoutCIIgnoreExistingCI(t *testing.T) {
	dir := t.TempDir()
	ci := filepath.Join(dir, ".github", "workflows", "ci.yml")
	require.NoError(t, os.MkdirAll(filepath.Dir(ci), 0o755))
	require.NoError(t, os.WriteFile(ci, []byte("mine\n"), 0o644))

	code, stdout, stderr := execute(t, newHarness(), "", dir, "--workflows", "release")
	require.Equal(t, 0, code, stderr)

	assert.NotContains(t, stdout, "Found conflicting files")
	assert.FileExists(t, filepath.Join(dir, ".github", "workflows", "release.yml"))

	data, err := os.ReadFile(ci)
	require.NoError(t, err)
	assert.Equal(t, "mine\n", string(data))
}

func TestConflictAccepted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("mine\n"), 0o644))
	h := newHarness()

	code, stdout, stderr := execute(t, h, "y\n", dir)

	require.Equal(t, 0, code, stderr)
	assert.NotContains(t, stdout, AbortMessage)
	assert.FileExists(t, filepath.Join(dir, "Cargo.toml"))
}

func TestOverwriteDeclined(t *testing.T) {
	dir := t.TempDir()
	h := newHarness()

	code, stdout, _ := execute(t, h, "\n", dir, "--overwrite")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Overwrite mode")
	assert.Contains(t, stdout, AbortMessage)
	assert.NoFileExists(t, filepath.Join(dir, "Cargo.toml"))
}

func TestInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "bin and lib", args: []string{"--bin", "--lib"}, want: "mutually exclusive"},
		{name: "bare workspace", args: []string{"--bare"}, want: "--bare requires"},
		{name: "workspace named common", args: []string{"--name", "common"}, want: "reserved for the workspace library crate"},
		{name: "bad name", args: []string{"--name", "9lives"}, want: "not a valid crate name"},
		{name: "unknown workflow", args: []string{"--workflows", "deploy"}, want: "unknown workflows deploy"},
		{name: "missing ci file", args: []string{"--ci-yml", "does-not-exist.yml"}, want: "does-not-exist.yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			args := append([]string{t.TempDir()}, tt.args...)

			code, _, stderr := execute(t, h, "", args...)

			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
			assert.Empty(t, h.cfgs, "no run may start with an invalid configuration")
		})
	}
}

func TestTooManyArguments(t *testing.T) {
	code, _, stderr := execute(t, newHarness(), "", "a", "b")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "accepts at most 1 arg")
}

func TestConfigFile(t *testing.T) {
	tmp := t.TempDir()
	cfgFile := filepath.Join(tmp, "nest.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("name: fromfile\nauthors:\n  - Linus\nlib: true\n"), 0o644))
	h := newHarness()

	code, _, stderr := execute(t, h, "", filepath.Join(tmp, "proj"), "--config", cfgFile, "--dry-run")
	require.Equal(t, 0, code, stderr)

	require.Len(t, h.cfgs, 1)
	cfg := h.cfgs[0]
	assert.Equal(t, "fromfile", cfg.Name)
	assert.Equal(t, []string{"Linus"}, cfg.Authors)
	assert.Equal(t, config.ModeLib, cfg.Mode())
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("NEST_NAME", "fromenv")
	t.Setenv("NEST_DRY_RUN", "true")

	h := newHarness()
	code, _, stderr := execute(t, h, "", t.TempDir())
	require.Equal(t, 0, code, stderr)
	require.Len(t, h.cfgs, 1)
	assert.Equal(t, "fromenv", h.cfgs[0].Name)
	assert.True(t, h.cfgs[0].DryRun)

	h = newHarness()
	code, _, stderr = execute(t, h, "", t.TempDir(), "--name", "fromflag")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "fromflag", h.cfgs[0].Name)
}

func TestUnderscoreFlags(t *testing.T) {
	h := newHarness()
	code, _, stderr := execute(t, h, "", t.TempDir(), "--dry_run", "--without_readme")
	require.Equal(t, 0, code, stderr)
	assert.True(t, h.cfgs[0].DryRun)
	assert.True(t, h.cfgs[0].WithoutReadme)
}

func TestMissingConfigFile(t *testing.T) {
	code, _, stderr := execute(t, newHarness(), "", t.TempDir(), "--config", filepath.Join(t.TempDir(), "nope.yml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to read config")
}

func TestVerbosity(t *testing.T) {
	h := newHarness()
	code, _, stderr := execute(t, h, "", t.TempDir(), "--dry-run", "-vvv")
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, 3, h.cfgs[0].Verbosity)
	assert.Contains(t, stderr, "running step")
}

func TestDeps(t *testing.T) {
	code, stdout, stderr := execute(t, newHarness(), "", "deps")
	require.Equal(t, 0, code, stderr)

	for _, want := range []string{"CRATE", "clap", "4.4.3", "derive", "serde_json", "tracing-subscriber"} {
		assert.Contains(t, stdout, want)
	}
}

func TestVersion(t *testing.T) {
	code, stdout, _ := execute(t, newHarness(), "", "version")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "nest "+nest.Version))

	code, stdout, _ = execute(t, newHarness(), "", "--version")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, nest.Version)
}
