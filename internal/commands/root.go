package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/simonhull/nest"
	"github.com/simonhull/nest/generator"
	"github.com/simonhull/nest/internal/config"
	"github.com/simonhull/nest/output"
)

// AbortMessage is printed when the user declines to overwrite files.
const AbortMessage = "Phew, close call... aborting"

// RootCmd creates the nest command. Running it without a subcommand
// generates a project.
func RootCmd() *cobra.Command {
	return newRootCmd(defaultDeps)
}

func newRootCmd(deps depsFunc) *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "nest [directory]",
		Short: "Scaffold a Rust workspace",
		Long: `nest lays out a new Rust project in a directory.

By default it generates a workspace:
• Cargo.toml with shared package metadata and dependencies
• bin/<name>, a binary crate
• crates/common, a library crate the binary depends on

Use --bin or --lib for a single crate instead, and --full for a license,
.gitignore, etc/ assets and GitHub workflows.

Examples:
  nest my-project --name engine
  nest --dry-run --full
  nest tool --bin --bare`,
		Version:       nest.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Setup(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				v.Set(config.KeyDirectory, args[0])
			}
			return runNew(cmd, v, deps)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a nest.yml (default: ./nest.yml, then $XDG_CONFIG_HOME/nest/nest.yml)")
	cmd.Flags().SetNormalizeFunc(normalizeFlag)
	addGenerateFlags(cmd.Flags())
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}

	cmd.AddCommand(DepsCmd())
	cmd.AddCommand(VersionCmd())

	return cmd
}

// normalizeFlag accepts --dry_run for --dry-run, matching the NEST_DRY_RUN
// spelling of the environment.
func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func addGenerateFlags(f *pflag.FlagSet) {
	f.StringP(config.KeyName, "n", config.DefaultName, "Project name, also the name of the binary crate")
	f.StringP(config.KeyDescription, "d", "", "Project description")
	f.StringSliceP(config.KeyAuthors, "a", nil, "Authors (repeatable, the first one is the copyright holder)")
	f.Bool(config.KeyDryRun, false, "Preview the file tree without writing anything")
	f.Bool(config.KeyOverwrite, false, "Overwrite existing files after a single confirmation")
	f.BoolP(config.KeyWithCI, "c", false, "Add GitHub Actions workflows")
	f.String(config.KeyCIFile, "", "Copy this workflow to .github/workflows/ci.yml")
	f.StringSlice(config.KeyWorkflows, nil, fmt.Sprintf("Bundled workflows to add (%v)", config.KnownWorkflows))
	f.Bool(config.KeyLicense, false, "Add a LICENSE")
	f.String(config.KeyLicenseType, "", "SPDX identifier of the license (implies --license, default mit)")
	f.Bool(config.KeyGitignore, false, "Add a Rust .gitignore")
	f.Bool(config.KeyEtc, false, "Add an etc/ directory")
	f.Bool(config.KeyAssets, false, "Download template images into etc/ (implies --etc)")
	f.BoolP(config.KeyBin, "b", false, "Generate a single binary crate")
	f.BoolP(config.KeyLib, "l", false, "Generate a single library crate")
	f.Bool(config.KeyFull, false, "Add ci, license, gitignore, etc and assets")
	f.Bool(config.KeyBare, false, "With --bin or --lib, keep what cargo init generates")
	f.Bool(config.KeyWithoutReadme, false, "Skip README.md")
	f.StringSlice(config.KeyDependencies, nil, "Extra dependencies to add to the manifest")
	f.Bool(config.KeyGit, false, "Initialize a git repository with a GitHub origin")
	f.CountP(config.KeyVerbosity, "v", "Increase log verbosity (-v warn, -vv info, -vvv debug)")
}

// Execute runs cmd and returns the process exit code. Declining the overwrite
// confirmation exits 0; declining to overwrite a conflicting file exits 1.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, generator.ErrUserAborted):
		fmt.Fprintln(cmd.OutOrStdout(), AbortMessage)
		return 0
	case errors.As(err, new(*generator.ConflictError)):
		fmt.Fprintln(cmd.OutOrStdout(), AbortMessage)
		printError(cmd, err)
		return 1
	default:
		printError(cmd, err)
		return 1
	}
}

func printError(cmd *cobra.Command, err error) {
	prev := output.SetOutput(cmd.ErrOrStderr())
	output.Error(err.Error())
	output.SetOutput(prev)
}
