// Package identity works out who the generated project belongs to.
package identity

import (
	"context"
	"os/user"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/simonhull/nest/exec"
	"github.com/simonhull/nest/output"
)

// Fallback is used when no other source knows a name.
const Fallback = "unknown"

// Resolver answers "who is the author" from, in order, the configured
// authors, git's user.name and the operating system account.
type Resolver struct {
	exec   *exec.Executor
	logger *log.Logger

	// osUser is swapped in tests.
	osUser func() (string, error)

	gitName *string
}

// NewResolver creates a resolver that asks git through e.
func NewResolver(e *exec.Executor, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = output.Discard()
	}
	return &Resolver{exec: e, logger: logger, osUser: currentUser}
}

// Name returns the first configured author, else the git user name, else the
// OS user name.
func (r *Resolver) Name(ctx context.Context, authors []string) string {
	if len(authors) > 0 && strings.TrimSpace(authors[0]) != "" {
		return strings.TrimSpace(authors[0])
	}
	if name := r.GitUser(ctx); name != "" {
		return name
	}
	if name, err := r.osUser(); err == nil && name != "" {
		return name
	}
	return Fallback
}

// Authors returns authors unchanged when set, otherwise a single-entry list
// holding Name.
func (r *Resolver) Authors(ctx context.Context, authors []string) []string {
	if len(authors) > 0 {
		return authors
	}
	return []string{r.Name(ctx, nil)}
}

// GitUser returns `git config --get user.name`, or "" when git has none.
// The answer is remembered for the life of the resolver.
func (r *Resolver) GitUser(ctx context.Context) string {
	if r.gitName != nil {
		return *r.gitName
	}

	name := ""
	if r.exec != nil {
		res, err := exec.NewGenericCommand(r.exec, "git").
			WithArgs("config", "--get", "user.name").
			Output(ctx)
		if err != nil {
			r.logger.Debug("git user.name unavailable", "err", err)
		} else {
			name = strings.TrimSpace(res.Stdout)
		}
	}
	r.gitName = &name
	return name
}

func currentUser() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}
