package scaffold

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/simonhull/nest/generator"
	"github.com/simonhull/nest/internal/config"
	"github.com/simonhull/nest/internal/toolchain"
)

// GitStep initializes a repository on main with a GitHub origin named
// after the target directory.
type GitStep struct {
	cfg  *config.Config
	deps Deps
}

func (s *GitStep) Name() string  { return "git" }
func (s *GitStep) Enabled() bool { return s.cfg.Git }

func (s *GitStep) Create(ctx context.Context, env *generator.Env) error {
	env.Logger.Info("initializing git repository")
	env.Tree.AddLeaf(".git")

	if env.DryRun {
		return nil
	}
	if exists(env.Path(".git")) {
		env.Logger.Warn("already a git repository, leaving it alone", "dir", env.Dir)
		return nil
	}

	if err := s.deps.Toolchain.GitInit(ctx, env.Dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}

	user := s.deps.Identity.GitUser(ctx)
	if user == "" {
		user = s.deps.Identity.Name(ctx, s.cfg.Authors)
	}
	origin := toolchain.RemoteURL(user, filepath.Base(env.Dir))
	env.Logger.Debug("adding remote", "origin", origin)
	if err := s.deps.Toolchain.GitAddRemote(ctx, env.Dir, origin); err != nil {
		return fmt.Errorf("git remote: %w", err)
	}
	return nil
}
