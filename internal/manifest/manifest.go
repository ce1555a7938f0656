// Package manifest renders the text files of a generated project: Cargo
// manifests, READMEs and the starter sources.
//
// Every Cargo manifest is parsed back before it is returned, so a template
// or value that would produce invalid TOML fails the run instead of the
// user's first cargo build.
package manifest

import (
	"embed"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/simonhull/nest/generator"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Edition is the Rust edition of generated crates.
const Edition = "2021"

// Project holds the values substituted into rendered files.
type Project struct {
	Name        string
	Description string
	// Owner is the GitHub user the repository URLs point at.
	Owner   string
	Authors []string
	// License is an SPDX identifier.
	License      string
	Dependencies []Dependency
	// Kind is "workspace", "bin" or "lib".
	Kind string
}

// Repository is the GitHub URL of the project.
func (p Project) Repository() string {
	return fmt.Sprintf("https://github.com/%s/%s", p.Owner, p.Name)
}

// LicenseID normalizes a license type to the identifier written into
// manifests. The default "mit" is spelled the SPDX way.
func LicenseID(id string) string {
	if strings.EqualFold(id, "mit") || id == "" {
		return "MIT"
	}
	return id
}

// Renderer renders project files from the embedded templates.
type Renderer struct {
	renderer *generator.Renderer
}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{renderer: generator.NewRenderer()}
}

func (r *Renderer) render(name string, data any) ([]byte, error) {
	return r.renderer.RenderFS(templatesFS, "templates/"+name, data)
}

func (r *Renderer) renderCargo(name string, data any) ([]byte, error) {
	out, err := r.render(name, data)
	if err != nil {
		return nil, err
	}
	if _, err := Parse(out); err != nil {
		return nil, fmt.Errorf("rendered %s is not valid TOML: %w", name, err)
	}
	return out, nil
}

// Workspace renders the top-level Cargo.toml of a workspace.
func (r *Renderer) Workspace(p Project) ([]byte, error) {
	if p.Description == "" {
		p.Description = p.Name + " workspace"
	}
	return r.renderCargo("workspace.toml.tmpl", p)
}

// BinMember renders bin/<name>/Cargo.toml, which inherits everything from
// the workspace and depends on crates/common.
func (r *Renderer) BinMember(name string) ([]byte, error) {
	deps := append([]Dependency{{Name: "common", Path: "../../crates/common"}},
		Inherit(Pick(binaryDependencies...))...)
	return r.renderCargo("member.toml.tmpl", Project{
		Name:         name,
		Description:  name + " cli binary",
		Dependencies: deps,
	})
}

// LibMember renders crates/<name>/Cargo.toml.
func (r *Renderer) LibMember(name string) ([]byte, error) {
	return r.renderCargo("member.toml.tmpl", Project{
		Name:         name,
		Description:  name + " crate",
		Dependencies: Inherit(Pick(libraryDependencies...)),
	})
}

// Package renders the Cargo.toml of a standalone bin or lib crate.
func (r *Renderer) Package(p Project) ([]byte, error) {
	if p.Description == "" {
		if p.Kind == "lib" {
			p.Description = "A new library crate"
		} else {
			p.Description = "A new binary crate"
		}
	}
	return r.renderCargo("package.toml.tmpl", p)
}

// Readme renders a project README.
func (r *Renderer) Readme(p Project) ([]byte, error) {
	if p.Description == "" {
		p.Description = p.Name + " workspace"
	}
	return r.render("README.md.tmpl", p)
}

// CrateReadme renders the one-line README of a workspace library crate.
func (r *Renderer) CrateReadme(name string) ([]byte, error) {
	return r.render("crate_README.md.tmpl", Project{Name: name})
}

// MainRS is the starter binary source.
func (r *Renderer) MainRS() ([]byte, error) {
	return r.render("main.rs.tmpl", nil)
}

// LibRS is the starter library source.
func (r *Renderer) LibRS() ([]byte, error) {
	return r.render("lib.rs.tmpl", nil)
}

// BinaryDependencies are the defaults a standalone binary crate starts with.
func BinaryDependencies() []Dependency {
	return append([]Dependency(nil), Defaults...)
}

// LibraryDependencies are the defaults a standalone library crate starts with.
func LibraryDependencies() []Dependency {
	return Pick(libraryDependencies...)
}

// Manifest is the subset of Cargo.toml nest cares about when reading one back.
type Manifest struct {
	Workspace *struct {
		Members      []string       `toml:"members"`
		Resolver     string         `toml:"resolver"`
		Package      map[string]any `toml:"package"`
		Dependencies map[string]any `toml:"dependencies"`
	} `toml:"workspace"`
	Package      map[string]any            `toml:"package"`
	Dependencies map[string]any            `toml:"dependencies"`
	Profile      map[string]map[string]any `toml:"profile"`
}

// Parse decodes a Cargo manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
