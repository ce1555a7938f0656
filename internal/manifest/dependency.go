package manifest

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/simonhull/nest/generator"
)

// OverrideFallback is the version written for a user-named dependency whose
// lookup failed.
const OverrideFallback = "0.0.0"

// Dependency is one entry of a [dependencies] table.
type Dependency struct {
	Name     string
	Version  string
	Features []string
	// Path points at a crate in the same workspace.
	Path string
	// Workspace inherits the entry from [workspace.dependencies].
	Workspace bool
}

// Key is the TOML key of the entry.
func (d Dependency) Key() string {
	return d.Name
}

// Value renders the entry as a TOML value: a bare version string when that is
// all there is, an inline table otherwise.
func (d Dependency) Value() string {
	var fields []string
	if d.Path != "" {
		fields = append(fields, "path = "+generator.Quote(d.Path))
	}
	if d.Workspace {
		fields = append(fields, "workspace = true")
	}
	if d.Version != "" {
		if len(fields) == 0 && len(d.Features) == 0 {
			return generator.Quote(d.Version)
		}
		fields = append(fields, "version = "+generator.Quote(d.Version))
	}
	if len(d.Features) > 0 {
		fields = append(fields, "features = "+generator.TomlArray(d.Features))
	}
	return "{ " + strings.Join(fields, ", ") + " }"
}

// Defaults are the dependencies every generated manifest starts from, with
// the versions used when the registry cannot be asked.
var Defaults = []Dependency{
	{Name: "anyhow", Version: "1.0"},
	{Name: "inquire", Version: "0.6.2"},
	{Name: "tracing", Version: "0.1.39"},
	{Name: "serde", Version: "1.0.189"},
	{Name: "serde_json", Version: "1.0.107"},
	{Name: "tracing-subscriber", Version: "0.3.17"},
	{Name: "clap", Version: "4.4.3", Features: []string{"derive"}},
}

// Library crates get the subset that makes sense without a main.
var libraryDependencies = []string{"serde", "serde_json", "anyhow", "tracing"}

// Binary members of a workspace inherit these from the workspace.
var binaryDependencies = []string{"clap", "anyhow", "inquire", "tracing", "tracing-subscriber"}

// Versioner resolves the version of a crate, returning fallback when it
// cannot.
type Versioner interface {
	Version(ctx context.Context, name, fallback string) string
}

// Resolve returns defaults followed by every override that is not already a
// default, each with its version looked up through v. A nil v keeps the
// fallback versions.
func Resolve(ctx context.Context, v Versioner, defaults []Dependency, overrides []string) []Dependency {
	deps := make([]Dependency, 0, len(defaults)+len(overrides))
	deps = append(deps, defaults...)

	known := lo.SliceToMap(defaults, func(d Dependency) (string, struct{}) {
		return d.Name, struct{}{}
	})
	for _, name := range lo.Uniq(overrides) {
		if _, ok := known[name]; ok {
			continue
		}
		deps = append(deps, Dependency{Name: name, Version: OverrideFallback})
	}

	if v == nil {
		return deps
	}
	for i := range deps {
		deps[i].Version = v.Version(ctx, deps[i].Name, deps[i].Version)
	}
	return deps
}

// Pick returns the named defaults, in the order given.
func Pick(names ...string) []Dependency {
	byName := lo.KeyBy(Defaults, func(d Dependency) string { return d.Name })
	return lo.FilterMap(names, func(n string, _ int) (Dependency, bool) {
		d, ok := byName[n]
		return d, ok
	})
}

// Inherit turns deps into `{ workspace = true }` entries.
func Inherit(deps []Dependency) []Dependency {
	return lo.Map(deps, func(d Dependency, _ int) Dependency {
		return Dependency{Name: d.Name, Workspace: true}
	})
}
