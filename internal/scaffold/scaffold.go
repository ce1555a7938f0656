// Package scaffold holds the generation steps that lay out a Rust project.
//
// Steps run in a fixed order: root, license, gitignore, etc, workspace, ci,
// git. Each one records what it creates in the preview tree, whether or not
// the run is a dry run, and sends its mutations through the Env.
package scaffold

import (
	"context"
	"embed"
	"os"
	"path"
	"time"

	"github.com/simonhull/nest/generator"
	"github.com/simonhull/nest/input"
	"github.com/simonhull/nest/internal/assets"
	"github.com/simonhull/nest/internal/config"
	"github.com/simonhull/nest/internal/license"
	"github.com/simonhull/nest/internal/manifest"
	"github.com/simonhull/nest/internal/toolchain"
)

//go:embed files/gitignore files/workflows/*.yml
var filesFS embed.FS

// Toolchain runs cargo and git.
type Toolchain interface {
	CargoInit(ctx context.Context, dir string, kind toolchain.Kind, name string) error
	GitInit(ctx context.Context, dir string) error
	GitAddRemote(ctx context.Context, dir, url string) error
}

// Identity answers who owns the generated project.
type Identity interface {
	Name(ctx context.Context, authors []string) string
	Authors(ctx context.Context, authors []string) []string
	GitUser(ctx context.Context) string
}

// Deps are the capabilities steps reach outside the process through.
type Deps struct {
	Confirm   input.Confirmer
	Licenses  license.Source
	Assets    assets.Fetcher
	Versions  manifest.Versioner
	Toolchain Toolchain
	Identity  Identity
	Renderer  *manifest.Renderer
	// Now is used for the license year. Defaults to time.Now.
	Now func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Renderer == nil {
		d.Renderer = manifest.NewRenderer()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Confirm == nil {
		d.Confirm = input.Fixed(false)
	}
	return d
}

// Steps returns every step for cfg in execution order. Disabled steps are
// included; the pipeline skips them.
func Steps(cfg *config.Config, deps Deps) []generator.Step {
	deps = deps.withDefaults()
	return []generator.Step{
		&RootStep{},
		&LicenseStep{cfg: cfg, deps: deps},
		&GitignoreStep{cfg: cfg},
		&EtcStep{cfg: cfg, deps: deps},
		&WorkspaceStep{cfg: cfg, deps: deps},
		&CIStep{cfg: cfg},
		&GitStep{cfg: cfg, deps: deps},
	}
}

// plan records files in the preview tree and, outside dry runs, queues the
// operations that create them.
type plan struct {
	env *generator.Env
	cwd []string
	ops []generator.Operation
}

func newPlan(env *generator.Env) *plan {
	return &plan{env: env}
}

func (p *plan) path(name string) string {
	return p.env.Path(append(append([]string{}, p.cwd...), name)...)
}

// dir opens name in the tree, queues its creation and runs fn inside it.
func (p *plan) dir(name string, fn func() error) error {
	p.ops = append(p.ops, &generator.MkdirOp{Path: p.path(name)})
	p.cwd = append(p.cwd, name)
	defer func() { p.cwd = p.cwd[:len(p.cwd)-1] }()
	return generator.Within(p.env.Tree, name, fn)
}

// file records name and, outside dry runs, renders and queues it.
// content is not called in a dry run.
func (p *plan) file(name string, content func() ([]byte, error)) error {
	p.env.Tree.AddLeaf(name)
	if p.env.DryRun {
		return nil
	}
	data, err := content()
	if err != nil {
		return err
	}
	p.ops = append(p.ops, &generator.WriteFileOp{Path: p.path(name), Content: data, Mode: 0644})
	return nil
}

// copy records name and queues a copy of src into it.
func (p *plan) copy(name, src string) {
	p.env.Tree.AddLeaf(name)
	p.ops = append(p.ops, &generator.CopyFileOp{Source: src, Dest: p.path(name)})
}

func (p *plan) apply(ctx context.Context) error {
	return p.env.Apply(ctx, p.ops...)
}

func static(name string) func() ([]byte, error) {
	return func() ([]byte, error) {
		return filesFS.ReadFile(path.Join("files", name))
	}
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
