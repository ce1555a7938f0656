// Package registry resolves the latest published version of a crate.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"

	"github.com/simonhull/nest/exec"
)

// ErrNotFound means the registry has no such crate.
var ErrNotFound = errors.New("crate not found")

// Lookup finds the newest version of a crate.
type Lookup interface {
	Latest(ctx context.Context, name string) (string, error)
}

// CargoSearch asks `cargo search`, which uses whatever registry cargo is
// configured for.
type CargoSearch struct {
	Exec *exec.Executor
}

func (c *CargoSearch) Latest(ctx context.Context, name string) (string, error) {
	res, err := exec.NewGenericCommand(c.Exec, "cargo").
		WithArgs("search", name, "--limit", "10").
		WithEnv("CARGO_TERM_COLOR=never").
		Output(ctx)
	if err != nil {
		return "", fmt.Errorf("cargo search %s: %w", name, err)
	}
	return ParseSearch(name, res.Stdout)
}

// ParseSearch picks the version out of `cargo search` output, which lists
// matches as `name = "1.2.3"    # description`.
func ParseSearch(name, output string) (string, error) {
	prefix := name + ` = "`
	for _, line := range strings.Split(output, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), prefix)
		if !ok {
			continue
		}
		version, _, ok := strings.Cut(rest, `"`)
		if !ok || version == "" {
			break
		}
		return version, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// DefaultCratesIOURL is the public crates.io API.
const DefaultCratesIOURL = "https://crates.io"

// CratesIO queries the crates.io HTTP API directly.
type CratesIO struct {
	BaseURL   string
	Client    *http.Client
	UserAgent string
}

// NewCratesIO creates a client for the public registry with a 10s timeout.
func NewCratesIO(userAgent string) *CratesIO {
	return &CratesIO{
		BaseURL:   DefaultCratesIOURL,
		Client:    &http.Client{Timeout: 10 * time.Second},
		UserAgent: userAgent,
	}
}

type crateResponse struct {
	Crate struct {
		MaxStableVersion string `json:"max_stable_version"`
		MaxVersion       string `json:"max_version"`
	} `json:"crate"`
}

func (c *CratesIO) Latest(ctx context.Context, name string) (string, error) {
	endpoint := strings.TrimSuffix(c.BaseURL, "/") + "/api/v1/crates/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("crates.io request for %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("crates.io returned %s for %s", resp.Status, name)
	}

	var body crateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode crates.io response for %s: %w", name, err)
	}

	if v := body.Crate.MaxStableVersion; v != "" {
		return v, nil
	}
	if v := body.Crate.MaxVersion; v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s has no published version", ErrNotFound, name)
}

// Chain tries each lookup in turn and returns the first answer.
type Chain []Lookup

func (c Chain) Latest(ctx context.Context, name string) (string, error) {
	var errs []error
	for _, l := range c {
		v, err := l.Latest(ctx, name)
		if err == nil {
			return v, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("%w: %s (no registry configured)", ErrNotFound, name)
	}
	return "", errors.Join(errs...)
}

// Valid reports whether v is a full semantic version such as 1.0.189.
func Valid(v string) bool {
	return strings.Count(v, ".") == 2 && semver.IsValid("v"+v)
}

// Resolver turns lookups into versions that are always usable: failures and
// malformed answers fall back to a caller supplied default. Answers are
// cached for the life of the resolver.
type Resolver struct {
	lookup Lookup
	logger *log.Logger
	cache  map[string]string
}

// NewResolver wraps lookup. A nil lookup always falls back.
func NewResolver(lookup Lookup, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{lookup: lookup, logger: logger, cache: make(map[string]string)}
}

// Version returns the latest version of name, or fallback when it cannot be determined.
func (r *Resolver) Version(ctx context.Context, name, fallback string) string {
	if v, ok := r.cache[name]; ok {
		return v
	}

	version := fallback
	if r.lookup != nil {
		v, err := r.lookup.Latest(ctx, name)
		switch {
		case err != nil:
			r.logger.Warn("version lookup failed, using fallback", "crate", name, "fallback", fallback, "err", err)
		case !Valid(v):
			r.logger.Warn("registry returned an invalid version, using fallback", "crate", name, "version", v, "fallback", fallback)
		default:
			r.logger.Debug("resolved version", "crate", name, "version", v)
			version = v
		}
	}

	r.cache[name] = version
	return version
}
