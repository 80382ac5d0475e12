// Package pongo implements template.TemplateRenderer with pongo2. Views are
// normalised through their JSON encoding so templates address struct fields
// by json tag.
package pongo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-regforms/pkg/render/template"
)

// Option configures an Engine.
type Option func(*Engine)

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		e.files = files
	}
}

// WithBaseDir loads templates from a directory on disk. It is consulted
// before the WithFS files.
func WithBaseDir(dir string) Option {
	return func(e *Engine) {
		e.baseDir = strings.TrimSpace(dir)
	}
}

// WithExtension sets the suffix appended to bare template names. Defaults
// to ".tmpl".
func WithExtension(ext string) Option {
	return func(e *Engine) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		e.ext = ext
	}
}

// Engine renders pongo2 templates. Parsed templates are cached by path.
type Engine struct {
	files   fs.FS
	baseDir string
	ext     string

	mu     sync.RWMutex
	set    *pongo2.TemplateSet
	parsed map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine. At least one of WithFS or WithBaseDir is required.
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		ext:    ".tmpl",
		parsed: make(map[string]*pongo2.Template),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.files == nil && e.baseDir == "" {
		return nil, errors.New("pongo: templates fs or base dir is required")
	}

	var loaders []pongo2.TemplateLoader
	if e.baseDir != "" {
		local, err := pongo2.NewLocalFileSystemLoader(e.baseDir)
		if err != nil {
			return nil, fmt.Errorf("pongo: base dir %s: %w", e.baseDir, err)
		}
		loaders = append(loaders, local)
	}
	if e.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(e.files))
	}
	e.set = pongo2.NewSet("regforms", loaders...)
	registerFilters()
	return e, nil
}

// Render executes name as inline content when it holds template tags and
// as a template path otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") || strings.Contains(name, "{%") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate executes the template at name.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	result, err := e.execute(tmpl, data, out)
	if err != nil {
		return "", fmt.Errorf("pongo: execute %s: %w", name, err)
	}
	return result, nil
}

// RenderString parses and executes content without caching it.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("pongo: parse inline template: %w", err)
	}
	result, err := e.execute(tmpl, data, out)
	if err != nil {
		return "", fmt.Errorf("pongo: execute inline template: %w", err)
	}
	return result, nil
}

// RegisterFilter adds a filter. pongo2 filters are process-wide, so a name
// can be registered once.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("pongo: filter name and function are required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already registered", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the globals of every template.
func (e *Engine) GlobalContext(data any) error {
	if data == nil {
		return nil
	}
	globals, err := toContext(data)
	if err != nil {
		return fmt.Errorf("pongo: globals: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = pongo2.Context{}
	}
	e.set.Globals.Update(globals)
	return nil
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.parsed[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.parsed[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load %s: %w", path, err)
	}
	e.parsed[path] = tmpl
	return tmpl, nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", err
	}

	e.mu.RLock()
	result, err := tmpl.Execute(ctx)
	e.mu.RUnlock()
	if err != nil {
		return "", err
	}

	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, result); err != nil {
			return "", err
		}
	}
	return result, nil
}

// toContext converts maps entry by entry and anything else through JSON.
// Function values are kept so they stay callable from templates.
func toContext(data any) (pongo2.Context, error) {
	var entries map[string]any
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		entries = v
	case map[string]any:
		entries = v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode view: %w", err)
		}
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("view must encode as an object: %w", err)
		}
		return pongo2.Context(entries), nil
	}

	ctx := make(pongo2.Context, len(entries))
	for key, value := range entries {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		normalized, err := normalize(value)
		if err != nil {
			return nil, fmt.Errorf("view key %q: %w", key, err)
		}
		ctx[key] = normalized
	}
	return ctx, nil
}

func normalize(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, int, int64, float64:
		return v, nil
	case pongo2.Context:
		return toContext(v)
	case map[string]any:
		return toContext(v)
	}
	if isFunc(value) {
		return value, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func isFunc(value any) bool {
	switch value.(type) {
	case func() string, func(string) string, func(any) any, func(any) string:
		return true
	}
	return false
}

var filtersOnce sync.Once

func registerFilters() {
	filtersOnce.Do(func() {
		if !pongo2.FilterExists("trim") {
			_ = pongo2.RegisterFilter("trim", func(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
				return pongo2.AsValue(strings.TrimSpace(in.String())), nil
			})
		}
		if !pongo2.FilterExists("dom_id") {
			_ = pongo2.RegisterFilter("dom_id", func(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
				return pongo2.AsValue(DOMID(in.String())), nil
			})
		}
	})
}

// DOMID turns a dotted field path ("hobbies.0.name") into the element id
// the templates use ("rf-hobbies-0-name").
func DOMID(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return "rf-" + strings.NewReplacer(".", "-", " ", "-").Replace(path)
}
