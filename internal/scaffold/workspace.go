package scaffold

import (
	"context"
	"fmt"

	"github.com/simonhull/nest/generator"
	"github.com/simonhull/nest/internal/config"
	"github.com/simonhull/nest/internal/manifest"
	"github.com/simonhull/nest/internal/toolchain"
)

// CommonCrate is the library every workspace binary depends on.
const CommonCrate = config.CommonCrate

// WorkspaceStep lays out the crates. In workspace mode that is the
// workspace manifest, bin/<name> and crates/common; with bin or lib it is a
// single crate created by cargo init and then filled in.
type WorkspaceStep struct {
	cfg  *config.Config
	deps Deps
}

func (s *WorkspaceStep) Name() string  { return "workspace" }
func (s *WorkspaceStep) Enabled() bool { return true }

func (s *WorkspaceStep) Create(ctx context.Context, env *generator.Env) error {
	switch s.cfg.Mode() {
	case config.ModeBin:
		return s.createPackage(ctx, env, toolchain.Bin)
	case config.ModeLib:
		return s.createPackage(ctx, env, toolchain.Lib)
	default:
		return s.createWorkspace(ctx, env)
	}
}

// project gathers the values shared by every rendered file. Outside a dry
// run that means asking who the owner is and resolving dependency versions.
func (s *WorkspaceStep) project(ctx context.Context, env *generator.Env, kind string, defaults []manifest.Dependency) manifest.Project {
	p := manifest.Project{
		Name:        s.cfg.Name,
		Description: s.cfg.Description,
		License:     manifest.LicenseID(s.cfg.LicenseType),
		Kind:        kind,
	}
	if env.DryRun {
		return p
	}

	p.Owner = s.deps.Identity.Name(ctx, s.cfg.Authors)
	p.Authors = s.deps.Identity.Authors(ctx, s.cfg.Authors)
	p.Dependencies = manifest.Resolve(ctx, s.deps.Versions, defaults, s.cfg.Dependencies)
	return p
}

func (s *WorkspaceStep) createWorkspace(ctx context.Context, env *generator.Env) error {
	env.Logger.Info("creating workspace", "name", s.cfg.Name)

	r := s.deps.Renderer
	proj := s.project(ctx, env, config.ModeWorkspace.String(), manifest.Defaults)
	p := newPlan(env)

	err := func() error {
		if !s.cfg.WithoutReadme {
			if err := p.file("README.md", func() ([]byte, error) { return r.Readme(proj) }); err != nil {
				return err
			}
		}
		if err := p.file("Cargo.toml", func() ([]byte, error) { return r.Workspace(proj) }); err != nil {
			return err
		}

		err := p.dir("bin", func() error {
			return p.dir(s.cfg.Name, func() error {
				if err := p.file("Cargo.toml", func() ([]byte, error) { return r.BinMember(s.cfg.Name) }); err != nil {
					return err
				}
				return p.dir("src", func() error {
					return p.file("main.rs", r.MainRS)
				})
			})
		})
		if err != nil {
			return err
		}

		return p.dir("crates", func() error {
			return p.dir(CommonCrate, func() error {
				if err := p.file("Cargo.toml", func() ([]byte, error) { return r.LibMember(CommonCrate) }); err != nil {
					return err
				}
				if err := p.file("README.md", func() ([]byte, error) { return r.CrateReadme(CommonCrate) }); err != nil {
					return err
				}
				return p.dir("src", func() error {
					return p.file("lib.rs", r.LibRS)
				})
			})
		})
	}()
	if err != nil {
		return err
	}
	return p.apply(ctx)
}

func (s *WorkspaceStep) createPackage(ctx context.Context, env *generator.Env, kind toolchain.Kind) error {
	env.Logger.Info("creating crate", "kind", kind, "name", s.cfg.Name)

	if !env.DryRun {
		if exists(env.Path("Cargo.toml")) {
			env.Logger.Warn("Cargo.toml already exists, skipping cargo init")
		} else if err := s.deps.Toolchain.CargoInit(ctx, env.Dir, kind, s.cfg.Name); err != nil {
			return fmt.Errorf("cargo init: %w", err)
		}
	}

	defaults := manifest.BinaryDependencies()
	entry := "main.rs"
	if kind == toolchain.Lib {
		defaults = manifest.LibraryDependencies()
		entry = "lib.rs"
	}

	r := s.deps.Renderer
	p := newPlan(env)

	// cargo init wrote these; bare leaves them as they are.
	if s.cfg.Bare {
		env.Tree.AddLeaf("Cargo.toml")
	} else {
		proj := s.project(ctx, env, string(kind), defaults)
		if err := p.file("Cargo.toml", func() ([]byte, error) { return r.Package(proj) }); err != nil {
			return err
		}
		if !s.cfg.WithoutReadme {
			if err := p.file("README.md", func() ([]byte, error) { return r.Readme(proj) }); err != nil {
				return err
			}
		}
	}

	err := generator.Within(env.Tree, "src", func() error {
		env.Tree.AddLeaf(entry)
		return nil
	})
	if err != nil {
		return err
	}
	return p.apply(ctx)
}
