package scaffold

import (
	"context"
	"fmt"

	"github.com/simonhull/nest/generator"
	"github.com/simonhull/nest/internal/assets"
	"github.com/simonhull/nest/internal/config"
	"github.com/simonhull/nest/internal/license"
)

// RootStep makes sure the target directory exists.
type RootStep struct{}

func (s *RootStep) Name() string  { return "root" }
func (s *RootStep) Enabled() bool { return true }

func (s *RootStep) Create(ctx context.Context, env *generator.Env) error {
	env.Logger.Info("creating project directory", "dir", env.Dir)
	return env.Apply(ctx, &generator.MkdirOp{Path: env.Dir})
}

const licenseFallbackPrompt = "Failed to query for license %q, do you want to proceed with the MIT License instead?"

// LicenseStep writes LICENSE with the year and copyright holder filled in.
type LicenseStep struct {
	cfg  *config.Config
	deps Deps
}

func (s *LicenseStep) Name() string  { return "license" }
func (s *LicenseStep) Enabled() bool { return s.cfg.License }

func (s *LicenseStep) Create(ctx context.Context, env *generator.Env) error {
	env.Logger.Info("creating license file", "license", s.cfg.LicenseType)

	if env.DryRun {
		env.Tree.AddLeaf("LICENSE")
		return nil
	}

	text, err := s.text(ctx, env)
	if err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	holder := s.deps.Identity.Name(ctx, s.cfg.Authors)
	text = license.Impute(text, s.deps.Now().UTC().Year(), holder)

	p := newPlan(env)
	if err := p.file("LICENSE", func() ([]byte, error) { return []byte(text), nil }); err != nil {
		return err
	}
	return p.apply(ctx)
}

// text looks the license up, offering the bundled MIT text when that fails.
// An empty text means the user declined and the step is skipped.
func (s *LicenseStep) text(ctx context.Context, env *generator.Env) (string, error) {
	if s.deps.Licenses != nil {
		text, err := s.deps.Licenses.Text(ctx, s.cfg.LicenseType)
		if err == nil {
			return text, nil
		}
		env.Logger.Warn("failed to find license in SPDX database", "license", s.cfg.LicenseType, "err", err)
	}

	ok, err := s.deps.Confirm.Confirm(fmt.Sprintf(licenseFallbackPrompt, s.cfg.LicenseType), true)
	if err != nil {
		return "", fmt.Errorf("license prompt: %w", err)
	}
	if !ok {
		env.Logger.Warn("user chose not to proceed with the MIT License, skipping LICENSE")
		return "", nil
	}
	return license.MIT, nil
}

// GitignoreStep writes the Rust .gitignore. An existing file is appended to
// unless overwrite is set.
type GitignoreStep struct {
	cfg *config.Config
}

func (s *GitignoreStep) Name() string  { return "gitignore" }
func (s *GitignoreStep) Enabled() bool { return s.cfg.Gitignore }

func (s *GitignoreStep) Create(ctx context.Context, env *generator.Env) error {
	env.Logger.Info("creating .gitignore")
	env.Tree.AddLeaf(".gitignore")

	content, err := static("gitignore")()
	if err != nil {
		return err
	}

	target := env.Path(".gitignore")
	if s.cfg.Overwrite {
		return env.Apply(ctx, &generator.WriteFileOp{Path: target, Content: content, Mode: 0644})
	}
	if exists(target) {
		env.Logger.Warn("appending to existing .gitignore", "path", target)
	}
	return env.Apply(ctx, &generator.AppendFileOp{Path: target, Content: content, Mode: 0644})
}

// EtcStep creates etc/ and, with assets, downloads the template images into
// it. A failed download is skipped with a warning.
type EtcStep struct {
	cfg  *config.Config
	deps Deps
}

func (s *EtcStep) Name() string  { return "etc" }
func (s *EtcStep) Enabled() bool { return s.cfg.Etc }

func (s *EtcStep) Create(ctx context.Context, env *generator.Env) error {
	env.Logger.Info("creating etc directory")

	p := newPlan(env)
	err := p.dir("etc", func() error {
		if !s.cfg.Assets {
			return nil
		}
		for _, a := range assets.Templates {
			if env.DryRun {
				env.Tree.AddLeaf(a.Name)
				continue
			}
			if s.deps.Assets == nil {
				env.Logger.Warn("no asset source configured, skipping", "asset", a.Name)
				continue
			}
			data, err := s.deps.Assets.Fetch(ctx, a)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				env.Logger.Warn("failed to fetch asset, skipping", "asset", a.Name, "err", err)
				continue
			}
			if err := p.file(a.Name, func() ([]byte, error) { return data, nil }); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return p.apply(ctx)
}
