package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/simonhull/nest/exec"
	"github.com/simonhull/nest/internal/manifest"
	"github.com/simonhull/nest/internal/registry"
	"github.com/simonhull/nest/output"
)

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// DepsCmd lists the dependencies generated manifests start with.
func DepsCmd() *cobra.Command {
	var latest bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "List the default crate dependencies",
		Long: `Lists the crates every generated manifest depends on, with the version
used when the registry cannot be reached.

With --latest the registry is asked for the current version of each crate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var versions manifest.Versioner
			if latest {
				e := exec.NewExecutor(&exec.Options{})
				versions = registry.NewResolver(registry.Chain{
					&registry.CargoSearch{Exec: e},
					registry.NewCratesIO(userAgent()),
				}, output.NewLogger(cmd.ErrOrStderr(), 1))
			}

			deps := manifest.Resolve(cmd.Context(), versions, manifest.Defaults, nil)
			fmt.Fprintln(cmd.OutOrStdout(), dependencyTable(deps))
			return nil
		},
	}

	cmd.Flags().BoolVar(&latest, "latest", false, "Ask the registry for current versions")
	return cmd
}

func dependencyTable(deps []manifest.Dependency) string {
	lib := lo.Map(manifest.LibraryDependencies(), func(d manifest.Dependency, _ int) string {
		return d.Name
	})

	rows := lo.Map(deps, func(d manifest.Dependency, _ int) []string {
		return []string{
			d.Name,
			d.Version,
			strings.Join(d.Features, ", "),
			lo.Ternary(lo.Contains(lib, d.Name), "yes", ""),
		}
	})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers("CRATE", "VERSION", "FEATURES", "LIBRARY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	return t.String()
}
