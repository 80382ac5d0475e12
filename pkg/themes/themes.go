package themes

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-regforms/pkg/registration"
)

const (
	// ThemeName names the built-in manifest.
	ThemeName = "regforms"
	// AssetPrefix is the URL prefix the built-in assets are served under.
	AssetPrefix = "/assets/regforms"
	// StylesheetAsset is the asset key resolving to the stylesheet URL.
	StylesheetAsset = "stylesheet"
	// StylesheetName is the stylesheet file inside AssetsFS.
	StylesheetName = "regforms.css"
)

// Partial keys looked up in RendererConfig.Partials.
const (
	PartialPage          = "forms.page"
	PartialIndex         = "forms.index"
	PartialInput         = "forms.input"
	PartialTextarea      = "forms.textarea"
	PartialSelect        = "forms.select"
	PartialRadio         = "forms.radio"
	PartialCheckbox      = "forms.checkbox"
	PartialCheckboxGroup = "forms.checkbox-group"
	PartialHobbies       = "forms.hobbies"
)

// ErrUnknownTheme is returned when a selection names a theme that was never
// registered.
var ErrUnknownTheme = errors.New("themes: unknown theme")

//go:embed assets/*
var embeddedAssets embed.FS

// AssetsFS exposes the embedded stylesheet bundle for serving under
// AssetPrefix.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// Manifest returns a fresh copy of the built-in manifest. Base tokens are
// shared by both forms; each form variant overrides the accent colours.
func Manifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    ThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":       "#2f6fed",
			"on-brand":    "#ffffff",
			"surface":     "#ffffff",
			"muted":       "#f6f8fa",
			"text":        "#1f2933",
			"border":      "#d0d7de",
			"error":       "#c62828",
			"success":     "#2e7d32",
			"radius":      "6px",
			"font-family": "system-ui, sans-serif",
		},
		Templates: map[string]string{
			PartialPage:  "templates/form.tmpl",
			PartialIndex: "templates/index.tmpl",
		},
		Assets: theme.Assets{
			Prefix: AssetPrefix,
			Files: map[string]string{
				StylesheetAsset: StylesheetName,
			},
		},
		Variants: map[string]theme.Variant{
			registration.FormOneID: {
				Tokens: map[string]string{
					"brand": "#ec5990",
				},
			},
			registration.FormTwoID: {
				Tokens: map[string]string{
					"brand":  "#1976d2",
					"radius": "4px",
				},
			},
		},
	}
}

type manifestRegistry interface {
	Register(manifest *theme.Manifest) error
}

// Selector resolves theme names and variants against registered manifests.
// It satisfies theme.ThemeSelector and is safe for concurrent use.
type Selector struct {
	mu           sync.RWMutex
	defaultTheme string
	manifests    map[string]*theme.Manifest
	registry     manifestRegistry
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector registers the provided manifests (the built-in manifest when
// none are given). defaultTheme is used when Select receives an empty name
// and falls back to the first registered manifest.
func NewSelector(defaultTheme string, manifests ...*theme.Manifest) (*Selector, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{Manifest()}
	}
	s := &Selector{
		manifests: make(map[string]*theme.Manifest, len(manifests)),
		registry:  theme.NewRegistry(),
	}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}

	s.defaultTheme = strings.TrimSpace(defaultTheme)
	if s.defaultTheme == "" {
		s.defaultTheme = manifests[0].Name
	}
	if _, ok := s.manifests[s.defaultTheme]; !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTheme, s.defaultTheme)
	}
	return s, nil
}

// Register validates manifest through go-theme and makes it selectable.
func (s *Selector) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return errors.New("themes: manifest is required")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return errors.New("themes: manifest name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.manifests[name]; exists {
		return fmt.Errorf("themes: theme %q already registered", name)
	}
	if err := s.registry.Register(manifest); err != nil {
		return fmt.Errorf("themes: register %q: %w", name, err)
	}
	s.manifests[name] = manifest
	return nil
}

// DefaultTheme reports the theme used for empty names.
func (s *Selector) DefaultTheme() string {
	return s.defaultTheme
}

// Select returns the selection for name and variant. A variant the manifest
// does not declare resolves to the base theme with an empty variant.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTheme, name)
	}

	variant = strings.TrimSpace(variant)
	if _, declared := manifest.Variants[variant]; !declared {
		variant = ""
	}
	return &theme.Selection{
		Theme:    manifest.Name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// RendererConfig flattens a selection into the configuration renderers
// consume. Variant tokens, templates and assets override the base manifest;
// fallbacks fill partials neither declares.
func RendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil {
		return nil
	}

	var (
		tokens   = map[string]string{}
		partials = map[string]string{}
		files    = map[string]string{}
		prefix   string
	)
	for key, value := range fallbacks {
		partials[key] = value
	}

	if manifest := selection.Manifest; manifest != nil {
		mergeInto(tokens, manifest.Tokens)
		mergeInto(partials, manifest.Templates)
		mergeInto(files, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if variant, ok := manifest.Variants[selection.Variant]; ok && selection.Variant != "" {
			mergeInto(tokens, variant.Tokens)
			mergeInto(partials, variant.Templates)
			mergeInto(files, variant.Assets.Files)
			if strings.TrimSpace(variant.Assets.Prefix) != "" {
				prefix = variant.Assets.Prefix
			}
		}
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  CSSVars(tokens),
		AssetURL: assetResolver(prefix, files),
	}
}

// CSSVars maps design tokens to custom property names ("brand" becomes
// "--brand").
func CSSVars(tokens map[string]string) map[string]string {
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		out[name] = value
	}
	return out
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if isAbsoluteURL(file) || prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}
}

func isAbsoluteURL(value string) bool {
	return strings.HasPrefix(value, "/") ||
		strings.HasPrefix(value, "http://") ||
		strings.HasPrefix(value, "https://")
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}
