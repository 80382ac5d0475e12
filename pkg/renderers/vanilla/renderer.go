package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-regforms/pkg/model"
	"github.com/goliatone/go-regforms/pkg/render"
	rendertemplate "github.com/goliatone/go-regforms/pkg/render/template"
	"github.com/goliatone/go-regforms/pkg/render/template/pongo"
	"github.com/goliatone/go-regforms/pkg/themes"
)

// Name is the registry name of the HTML renderer.
const Name = "vanilla"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	stylesheet       string
	indexTitle       string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. Paths
// must match DefaultPartials or the active theme partials.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir overlays a directory on the template bundle. A file in
// dir shadows the bundled template with the same path; everything else
// still comes from the bundle.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		cfg.templateDir = dir
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet links url when the theme does not resolve a stylesheet.
func WithStylesheet(url string) Option {
	return func(cfg *config) {
		cfg.stylesheet = url
	}
}

// WithIndexTitle overrides the heading of the index page.
func WithIndexTitle(title string) Option {
	return func(cfg *config) {
		if title != "" {
			cfg.indexTitle = title
		}
	}
}

// Renderer produces server-rendered HTML pages for registration forms.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	stylesheet string
	indexTitle string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), indexTitle: "Registration forms"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithBaseDir(cfg.templateDir),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:  renderer,
		stylesheet: cfg.stylesheet,
		indexTitle: cfg.indexTitle,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form page: every field with its visible errors, the
// hobby list controls, the action buttons and the JSON preview.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if options.Action == "" {
		options.Action = form.Endpoint
	}
	partials := resolvePartials(options.Theme)
	page := buildPage(form, options)
	page.Stylesheet, page.Style, page.Theme, page.ThemeVariant = r.chrome(options.Theme)

	for i, section := range page.Sections {
		for _, field := range section.source {
			html, err := r.renderField(partials, field, options)
			if err != nil {
				return nil, err
			}
			page.Sections[i].Fields = append(page.Sections[i].Fields, html)
		}
	}

	result, err := r.templates.RenderTemplate(partials[themes.PartialPage], page)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// IndexEntry is one link on the index page.
type IndexEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// RenderIndex produces the page listing the available forms.
func (r *Renderer) RenderIndex(ctx context.Context, entries []IndexEntry, cfg *theme.RendererConfig) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view := indexView{Title: r.indexTitle, Entries: entries}
	view.Stylesheet, view.Style, _, _ = r.chrome(cfg)

	result, err := r.templates.RenderTemplate(resolvePartials(cfg)[themes.PartialIndex], view)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render index: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) renderField(partials map[string]string, field model.Field, options render.RenderOptions) (string, error) {
	key := partialForWidget(field.Widget)
	view := buildField(field, options)
	out, err := r.templates.RenderTemplate(partials[key], view)
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render field %q: %w", field.Name, err)
	}
	return out, nil
}

func (r *Renderer) chrome(cfg *theme.RendererConfig) (stylesheet, style, name, variant string) {
	stylesheet = r.stylesheet
	if cfg == nil {
		return stylesheet, "", "", ""
	}
	if cfg.AssetURL != nil {
		if url := cfg.AssetURL(themes.StylesheetAsset); url != "" {
			stylesheet = url
		}
	}
	return stylesheet, inlineStyle(cfg.CSSVars), cfg.Theme, cfg.Variant
}

func resolvePartials(cfg *theme.RendererConfig) map[string]string {
	partials := DefaultPartials()
	if cfg == nil {
		return partials
	}
	for key, value := range cfg.Partials {
		if value != "" {
			partials[key] = value
		}
	}
	return partials
}

func partialForWidget(widget string) string {
	switch widget {
	case model.WidgetTextarea:
		return themes.PartialTextarea
	case model.WidgetSelect:
		return themes.PartialSelect
	case model.WidgetRadio:
		return themes.PartialRadio
	case model.WidgetCheckbox:
		return themes.PartialCheckbox
	case model.WidgetCheckboxGroup:
		return themes.PartialCheckboxGroup
	case model.WidgetArray:
		return themes.PartialHobbies
	default:
		return themes.PartialInput
	}
}
