package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/simonhull/nest/input"
)

const (
	conflictPrompt  = "[WARNING] Found conflicting files. Are you sure you wish to proceed?"
	readmePrompt    = "[WARNING] Found README.md in the project directory. Proceeding will overwrite this file. Are you sure you wish to proceed?"
	overwritePrompt = "[WARNING] Overwrite mode will overwrite any conflicting files and directories. Are you sure you wish to proceed?"
)

// artifact is a file a run would overwrite, in the order it is checked.
type artifact struct {
	path   string
	ci     bool
	prompt string
}

var artifacts = []artifact{
	{path: "Cargo.toml", prompt: conflictPrompt},
	{path: "LICENSE", prompt: conflictPrompt},
	{path: "README.md", prompt: readmePrompt},
	{path: filepath.Join(".github", "workflows", "ci.yml"), ci: true, prompt: conflictPrompt},
}

// Detector looks for existing artifacts before anything is written.
type Detector struct {
	confirm input.Confirmer
	logger  *log.Logger
}

// NewDetector creates a detector that asks c before overwriting.
func NewDetector(c input.Confirmer, logger *log.Logger) *Detector {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Detector{confirm: c, logger: logger}
}

// Check inspects dir for artifacts a run would overwrite.
//
// Artifacts are checked in a fixed order (Cargo.toml, LICENSE, README.md and,
// when touchCI is set, .github/workflows/ci.yml). The first one found is put
// to the user; a "yes" covers the rest of the run and nothing further is
// checked. A "no" returns a *ConflictError. Check never writes.
func (d *Detector) Check(dir string, touchCI, dryRun bool) error {
	if dryRun {
		return nil
	}

	for _, a := range artifacts {
		if a.ci && !touchCI {
			continue
		}

		path := filepath.Join(dir, a.path)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}

		d.logger.Warn("existing artifact in project directory",
			"file", a.path,
			"modified", formatRelativeTime(info.ModTime()),
			"size", formatFileSize(info.Size()))

		ok, err := d.confirm.Confirm(a.prompt, false)
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return &ConflictError{Path: a.path}
		}
		return nil
	}

	return nil
}

// Gate decides whether a run may touch the file system at all.
type Gate interface {
	Allow(ctx context.Context) error
}

// GateFunc adapts a function to Gate.
type GateFunc func(ctx context.Context) error

func (f GateFunc) Allow(ctx context.Context) error {
	return f(ctx)
}

// ConflictGate runs the detector, or in overwrite mode asks a single
// overwrite confirmation instead.
type ConflictGate struct {
	Detector  *Detector
	Dir       string
	TouchCI   bool
	DryRun    bool
	Overwrite bool
}

func (g *ConflictGate) Allow(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.DryRun {
		return nil
	}
	if !g.Overwrite {
		return g.Detector.Check(g.Dir, g.TouchCI, false)
	}

	g.Detector.logger.Warn("overwrite flag is set, existing files will be overwritten")
	ok, err := g.Detector.confirm.Confirm(overwritePrompt, false)
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return ErrUserAborted
	}
	return nil
}

// formatRelativeTime formats a time as relative (e.g., "2 hours ago")
func formatRelativeTime(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		return plural(int(duration.Minutes()), "minute")
	case duration < 24*time.Hour:
		return plural(int(duration.Hours()), "hour")
	case duration < 7*24*time.Hour:
		return plural(int(duration.Hours()/24), "day")
	case duration < 30*24*time.Hour:
		return plural(int(duration.Hours()/24/7), "week")
	case duration < 365*24*time.Hour:
		return plural(int(duration.Hours()/24/30), "month")
	default:
		return plural(int(duration.Hours()/24/365), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// formatFileSize formats file size in human-readable format
func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
