// Package config turns flags, NEST_* environment variables and an optional
// nest.yml into a validated Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyDirectory     = "directory"
	KeyName          = "name"
	KeyDescription   = "description"
	KeyAuthors       = "authors"
	KeyDryRun        = "dry-run"
	KeyOverwrite     = "overwrite"
	KeyWithCI        = "with-ci"
	KeyCIFile        = "ci-yml"
	KeyWorkflows     = "workflows"
	KeyLicense       = "license"
	KeyLicenseType   = "with-license"
	KeyGitignore     = "gitignore"
	KeyEtc           = "etc"
	KeyAssets        = "assets"
	KeyBin           = "bin"
	KeyLib           = "lib"
	KeyFull          = "full"
	KeyBare          = "bare"
	KeyWithoutReadme = "without-readme"
	KeyDependencies  = "dependencies"
	KeyGit           = "git"
	KeyVerbosity     = "verbose"
)

const (
	DefaultName        = "example"
	DefaultDirectory   = "."
	DefaultLicenseType = "mit"
	MaxVerbosity       = 4

	// CommonCrate is the library crate every workspace binary depends on.
	CommonCrate = "common"
)

// Workflows that ship with nest, in the order they are written.
var KnownWorkflows = []string{"ci", "release", "tag", "version-validate", "audit"}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

var crateName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Mode selects what kind of project is generated.
type Mode int

const (
	ModeWorkspace Mode = iota
	ModeBin
	ModeLib
)

func (m Mode) String() string {
	switch m {
	case ModeBin:
		return "bin"
	case ModeLib:
		return "lib"
	default:
		return "workspace"
	}
}

// Config is everything a run needs to know. It is not modified after Load.
type Config struct {
	Directory   string
	Name        string
	Description string
	Authors     []string

	DryRun        bool
	Overwrite     bool
	WithCI        bool
	License       bool
	Gitignore     bool
	Etc           bool
	Assets        bool
	Bin           bool
	Lib           bool
	Full          bool
	Bare          bool
	WithoutReadme bool
	Git           bool

	// CIFile is a user workflow copied to .github/workflows/ci.yml.
	CIFile string
	// Workflows selects bundled workflow templates.
	Workflows    []string
	Dependencies []string
	// LicenseType is an SPDX identifier.
	LicenseType string
	Verbosity   int

	licenseTypeSet bool
}

// Mode reports whether a workspace, a single binary or a single library is generated.
func (c *Config) Mode() Mode {
	switch {
	case c.Bin:
		return ModeBin
	case c.Lib:
		return ModeLib
	default:
		return ModeWorkspace
	}
}

// TouchesCI reports whether the run writes .github/workflows.
func (c *Config) TouchesCI() bool {
	return c.WithCI || c.CIFile != ""
}

// WritesCIWorkflow reports whether .github/workflows/ci.yml is written,
// either copied from CIFile or from the bundled ci workflow.
func (c *Config) WritesCIWorkflow() bool {
	return c.CIFile != "" || lo.Contains(c.Workflows, "ci")
}

// Setup points v at nest.yml (explicit file, working directory, then the XDG
// config directory) and NEST_* environment variables, and reads the file if
// there is one.
func Setup(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("NEST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDirectory, DefaultDirectory)
	v.SetDefault(KeyName, DefaultName)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("nest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, "nest"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load builds a Config from v, then normalizes and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Directory:     v.GetString(KeyDirectory),
		Name:          v.GetString(KeyName),
		Description:   v.GetString(KeyDescription),
		Authors:       v.GetStringSlice(KeyAuthors),
		DryRun:        v.GetBool(KeyDryRun),
		Overwrite:     v.GetBool(KeyOverwrite),
		WithCI:        v.GetBool(KeyWithCI),
		License:       v.GetBool(KeyLicense),
		Gitignore:     v.GetBool(KeyGitignore),
		Etc:           v.GetBool(KeyEtc),
		Assets:        v.GetBool(KeyAssets),
		Bin:           v.GetBool(KeyBin),
		Lib:           v.GetBool(KeyLib),
		Full:          v.GetBool(KeyFull),
		Bare:          v.GetBool(KeyBare),
		WithoutReadme: v.GetBool(KeyWithoutReadme),
		Git:           v.GetBool(KeyGit),
		CIFile:        v.GetString(KeyCIFile),
		Workflows:     v.GetStringSlice(KeyWorkflows),
		Dependencies:  v.GetStringSlice(KeyDependencies),
		LicenseType:   v.GetString(KeyLicenseType),
		Verbosity:     v.GetInt(KeyVerbosity),

		licenseTypeSet: v.IsSet(KeyLicenseType) && v.GetString(KeyLicenseType) != "",
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetLicenseType sets an explicit license, which also turns the license on.
func (c *Config) SetLicenseType(id string) {
	c.LicenseType = id
	c.licenseTypeSet = true
}

// Normalize applies defaults and implied flags.
//
//   - Full turns on ci, license, gitignore, etc and assets.
//   - An explicit license type, a CI file or selected workflows turn on their feature.
//   - Assets live in etc/, so they turn etc on.
//   - With CI on and nothing selected, the bundled "ci" workflow is used.
func (c *Config) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	if c.Directory == "" {
		c.Directory = DefaultDirectory
	}
	if c.LicenseType == "" {
		c.LicenseType = DefaultLicenseType
	}

	if c.Full {
		c.WithCI = true
		c.License = true
		c.Gitignore = true
		c.Etc = true
		c.Assets = true
	}
	if c.licenseTypeSet {
		c.License = true
	}
	if c.Assets {
		c.Etc = true
	}

	c.Authors = clean(c.Authors)
	c.Dependencies = clean(c.Dependencies)
	c.Workflows = clean(c.Workflows)

	if c.CIFile != "" || len(c.Workflows) > 0 {
		c.WithCI = true
	}
	if c.WithCI && c.CIFile == "" && len(c.Workflows) == 0 {
		c.Workflows = []string{"ci"}
	}

	c.Verbosity = max(0, min(c.Verbosity, MaxVerbosity))
}

// clean trims entries, splits comma lists, drops empties and duplicates.
func clean(items []string) []string {
	parts := lo.FlatMap(items, func(s string, _ int) []string {
		return strings.Split(s, ",")
	})
	parts = lo.Map(parts, func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Uniq(lo.Compact(parts))
}

// Validate rejects configurations no run could satisfy.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalid)
	}
	if !crateName.MatchString(c.Name) {
		return fmt.Errorf("%w: %q is not a valid crate name (letters, digits, '_' and '-', not starting with a digit)", ErrInvalid, c.Name)
	}

	abs, err := filepath.Abs(c.Directory)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve directory %q: %v", ErrInvalid, c.Directory, err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalid, abs)
	}

	if c.Mode() == ModeWorkspace && isCommonCrate(c.Name) {
		return fmt.Errorf("%w: %q is reserved for the workspace library crate, pick another name or use --bin/--lib", ErrInvalid, c.Name)
	}

	if c.Bin && c.Lib {
		return fmt.Errorf("%w: --bin and --lib are mutually exclusive", ErrInvalid)
	}
	if c.Bare && c.Mode() == ModeWorkspace {
		return fmt.Errorf("%w: --bare requires --bin or --lib", ErrInvalid)
	}

	if c.CIFile != "" {
		info, err := os.Stat(c.CIFile)
		if err != nil {
			return fmt.Errorf("%w: ci workflow %s: %v", ErrInvalid, c.CIFile, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%w: ci workflow %s is a directory", ErrInvalid, c.CIFile)
		}
		if lo.Contains(c.Workflows, "ci") {
			return fmt.Errorf("%w: --ci-yml replaces the bundled ci workflow, drop \"ci\" from --workflows", ErrInvalid)
		}
	}

	if unknown := lo.Without(c.Workflows, KnownWorkflows...); len(unknown) > 0 {
		return fmt.Errorf("%w: unknown workflows %s (known: %s)", ErrInvalid,
			strings.Join(unknown, ", "), strings.Join(KnownWorkflows, ", "))
	}

	if strings.TrimSpace(c.LicenseType) == "" {
		return fmt.Errorf("%w: license type must not be empty", ErrInvalid)
	}

	for _, dep := range c.Dependencies {
		if !crateName.MatchString(dep) {
			return fmt.Errorf("%w: %q is not a valid dependency name", ErrInvalid, dep)
		}
	}

	return nil
}

// isCommonCrate reports whether cargo would treat name as the common crate.
func isCommonCrate(name string) bool {
	return strings.EqualFold(strings.ReplaceAll(name, "-", "_"), CommonCrate)
}

// AbsDirectory returns Directory as an absolute path.
func (c *Config) AbsDirectory() string {
	abs, err := filepath.Abs(c.Directory)
	if err != nil {
		return c.Directory
	}
	return abs
}
