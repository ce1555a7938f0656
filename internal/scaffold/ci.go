package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/simonhull/nest/generator"
	"github.com/simonhull/nest/internal/config"
)

// ErrInvalidWorkflow is returned for a user CI file that is not a workflow.
var ErrInvalidWorkflow = errors.New("invalid workflow")

// CIStep writes .github/workflows: the user's CI file as ci.yml, or the
// bundled ci workflow, plus any other selected bundled workflows.
type CIStep struct {
	cfg *config.Config
}

func (s *CIStep) Name() string  { return "ci" }
func (s *CIStep) Enabled() bool { return s.cfg.TouchesCI() }

func (s *CIStep) Create(ctx context.Context, env *generator.Env) error {
	env.Logger.Info("creating ci workflows", "workflows", s.cfg.Workflows, "ci_yml", s.cfg.CIFile)

	if s.cfg.CIFile != "" {
		if err := ValidateWorkflowFile(s.cfg.CIFile); err != nil {
			return err
		}
	}

	p := newPlan(env)
	err := p.dir(".github", func() error {
		return p.dir("workflows", func() error {
			if s.cfg.CIFile != "" {
				p.copy("ci.yml", s.cfg.CIFile)
			}
			for _, wf := range s.cfg.Workflows {
				name := wf + ".yml"
				if err := p.file(name, static("workflows/"+name)); err != nil {
					return fmt.Errorf("workflow %s: %w", wf, err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	return p.apply(ctx)
}

// ValidateWorkflowFile checks that path holds a YAML document with a jobs
// mapping, the least GitHub Actions accepts.
func ValidateWorkflowFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read ci workflow: %w", err)
	}
	return ValidateWorkflow(path, data)
}

// ValidateWorkflow is ValidateWorkflowFile for content already in memory.
func ValidateWorkflow(name string, data []byte) error {
	var doc struct {
		Jobs yaml.Node `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidWorkflow, name, err)
	}
	if doc.Jobs.Kind != yaml.MappingNode || len(doc.Jobs.Content) == 0 {
		return fmt.Errorf("%w: %s has no jobs", ErrInvalidWorkflow, name)
	}
	return nil
}
