package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/simonhull/nest"
	"github.com/simonhull/nest/generator"
	"github.com/simonhull/nest/input"
	"github.com/simonhull/nest/internal/assets"
	"github.com/simonhull/nest/internal/config"
	"github.com/simonhull/nest/internal/identity"
	"github.com/simonhull/nest/internal/license"
	"github.com/simonhull/nest/internal/registry"
	"github.com/simonhull/nest/internal/scaffold"
	"github.com/simonhull/nest/internal/toolchain"
	"github.com/simonhull/nest/output"
)

// depsFunc builds the capabilities a run reaches the outside world through.
// Tests replace it with fakes.
type depsFunc func(cfg *config.Config, logger *log.Logger, stderr io.Writer) scaffold.Deps

func defaultDeps(cfg *config.Config, logger *log.Logger, stderr io.Writer) scaffold.Deps {
	opts := toolchain.Options{Logger: logger}
	if cfg.Verbosity >= 3 {
		opts.Debug = stderr
	}
	tc := toolchain.New(opts)

	lookup := registry.Chain{
		&registry.CargoSearch{Exec: tc.Executor()},
		registry.NewCratesIO(userAgent()),
	}

	return scaffold.Deps{
		Licenses:  license.NewSPDX(),
		Assets:    assets.NewHTTPFetcher(),
		Versions:  registry.NewResolver(lookup, logger),
		Toolchain: tc,
		Identity:  identity.NewResolver(tc.Executor(), logger),
	}
}

func userAgent() string {
	return "nest/" + nest.Version + " (https://github.com/simonhull/nest)"
}

// confirmer prompts on the command's streams, with a menu when both are
// terminals.
func confirmer(cmd *cobra.Command) input.Confirmer {
	in, inOK := cmd.InOrStdin().(*os.File)
	out, outOK := cmd.OutOrStdout().(*os.File)
	if inOK && outOK {
		return input.New(in, out)
	}
	return input.NewLineConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
}

func runNew(cmd *cobra.Command, v *viper.Viper, deps depsFunc) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger := output.NewLogger(cmd.ErrOrStderr(), cfg.Verbosity)
	logger.Debug("configuration loaded",
		"dir", cfg.AbsDirectory(),
		"name", cfg.Name,
		"mode", cfg.Mode(),
		"dry_run", cfg.DryRun,
		"config_file", v.ConfigFileUsed())

	prev := output.SetOutput(cmd.OutOrStdout())
	defer output.SetOutput(prev)

	d := deps(cfg, logger, cmd.ErrOrStderr())
	d.Confirm = confirmer(cmd)

	gate := &generator.ConflictGate{
		Detector:  generator.NewDetector(d.Confirm, logger),
		Dir:       cfg.AbsDirectory(),
		TouchCI:   cfg.WritesCIWorkflow(),
		DryRun:    cfg.DryRun,
		Overwrite: cfg.Overwrite,
	}

	p, err := generator.NewBuilder().
		WithDir(cfg.Directory).
		DryRun(cfg.DryRun).
		WithGate(gate).
		WithSteps(scaffold.Steps(cfg, d)...).
		WithOutput(cmd.OutOrStdout()).
		WithLogger(logger).
		Build()
	if err != nil {
		return err
	}

	if err := p.Execute(cmd.Context()); err != nil {
		return err
	}
	if err := p.Commit(); err != nil {
		return err
	}

	printSummary(cfg)
	return nil
}

func printSummary(cfg *config.Config) {
	if cfg.DryRun {
		output.Info("Dry run, nothing was written")
		return
	}

	output.Success(fmt.Sprintf("Created %s %s in %s", cfg.Mode(), cfg.Name, cfg.AbsDirectory()))
	output.Info("Next steps:")
	if cfg.Directory != config.DefaultDirectory {
		output.Step(fmt.Sprintf("cd %s", filepath.Clean(cfg.Directory)))
	}
	output.Step("cargo build")
	if cfg.Mode() != config.ModeLib {
		output.Step(fmt.Sprintf("cargo run --bin %s", cfg.Name))
	}
}
