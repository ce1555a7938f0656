package generator

import (
	"bytes"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	"text/template"
)

// Renderer parses templates from a file system once and caches them by path.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex
}

// NewRenderer creates a renderer with the TOML helpers installed.
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: template.FuncMap{
			"quote":     Quote,     // test → "test"
			"tomlArray": TomlArray, // [a b] → ["a", "b"]
		},
		cache: make(map[string]*template.Template),
	}
}

// RenderFS renders a template from a file system, usually an embed.FS
func (r *Renderer) RenderFS(fsys fs.FS, path string, data any) ([]byte, error) {
	tmpl, err := r.lookup(fsys, path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template '%s': %w", path, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) lookup(fsys fs.FS, path string) (*template.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[path]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	src, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template from fs '%s': %w", path, err)
	}
	tmpl, err = template.New(path).Funcs(r.funcMap).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", path, err)
	}

	r.mu.Lock()
	r.cache[path] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}

// Quote wraps a string in double quotes, escaping as TOML basic strings do
func Quote(s string) string {
	return strconv.Quote(s)
}

// TomlArray renders a string slice as an inline TOML array
func TomlArray(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = Quote(it)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
