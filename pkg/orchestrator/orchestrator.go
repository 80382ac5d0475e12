package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-regforms/internal/openapi/loader"
	internalParser "github.com/goliatone/go-regforms/internal/openapi/parser"
	"github.com/goliatone/go-regforms/pkg/model"
	pkgopenapi "github.com/goliatone/go-regforms/pkg/openapi"
	"github.com/goliatone/go-regforms/pkg/render"
	"github.com/goliatone/go-regforms/pkg/renderers/vanilla"
	"github.com/goliatone/go-regforms/pkg/themes"
)

const defaultRendererName = vanilla.Name

// ErrUnknownForm is returned when the document has no operation for the
// requested form id.
var ErrUnknownForm = errors.New("orchestrator: unknown form")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom document parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithModelBuilder injects a custom form model builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithSource changes the document used when a request names neither a
// Source nor a Document. Defaults to the embedded registration document.
func WithSource(src pkgopenapi.Source) Option {
	return func(o *Orchestrator) {
		if src != nil {
			o.source = src
		}
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithRendererOptions configures the vanilla renderer registered when no
// registry is injected.
func WithRendererOptions(options ...vanilla.Option) Option {
	return func(o *Orchestrator) {
		o.rendererOptions = append(o.rendererOptions, options...)
	}
}

// WithSchemaTransformer registers a Transformer that can mutate form models
// after building but before decorators run.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithUIDecorators registers decorators that run against the generated form
// model before it is cached.
func WithUIDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithThemeSelector overrides the selector resolving theme manifests. The
// built-in regforms manifest is used otherwise.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
		o.themeConfigured = true
	}
}

// WithThemeName selects the theme requested when a request leaves ThemeName
// empty.
func WithThemeName(name string) Option {
	return func(o *Orchestrator) {
		o.themeName = strings.TrimSpace(name)
	}
}

// WithThemeFallbacks overrides the partial paths used when a theme manifest
// does not declare a template. Defaults to the vanilla renderer partials.
func WithThemeFallbacks(partials map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = partials
	}
}

// WithoutTheme disables theme resolution; renderers receive a nil config.
func WithoutTheme() Option {
	return func(o *Orchestrator) {
		o.themeSelector = nil
		o.themeConfigured = true
	}
}

// WithLogger wires a logger for pipeline diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the pipeline from form document to rendered
// output. The default document is loaded once and its form models are cached
// per form id; callers must treat returned models as read-only.
type Orchestrator struct {
	loader          pkgopenapi.Loader
	parser          pkgopenapi.Parser
	builder         model.Builder
	registry        *render.Registry
	source          pkgopenapi.Source
	defaultRenderer string
	rendererOptions []vanilla.Option
	initialiseErr   error
	defaultsApplied bool
	decorators      []model.Decorator
	transformer     Transformer
	themeSelector   theme.ThemeSelector
	themeConfigured bool
	themeName       string
	themeFallbacks  map[string]string
	logger          *zap.Logger

	mu         sync.Mutex
	operations map[string]pkgopenapi.Operation
	models     map[string]model.FormModel
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a form.
type Request struct {
	// Source identifies an alternate document. Optional; results for explicit
	// sources are not cached.
	Source pkgopenapi.Source

	// Document allows callers to bypass the loader when they already have a
	// parsed payload.
	Document *pkgopenapi.Document

	// OperationID selects the form, e.g. form-one.
	OperationID string

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName overrides the configured theme.
	ThemeName string

	// ThemeVariant overrides the variant, which defaults to OperationID.
	ThemeVariant string

	// RenderOptions carries the per-request state of the form instance.
	// RenderOptions.Theme, when set, wins over the resolved theme.
	RenderOptions render.RenderOptions
}

// Generate resolves the form model, the theme and the renderer, and returns
// the rendered bytes (HTML for the default vanilla renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.OperationID) == "" {
		return nil, errors.New("orchestrator: operation id is required")
	}

	form, err := o.resolveForm(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	if options.Theme == nil {
		variant := req.ThemeVariant
		if variant == "" {
			variant = form.OperationID
		}
		cfg, err := o.ThemeConfig(req.ThemeName, variant)
		if err != nil {
			return nil, err
		}
		options.Theme = cfg
	}

	output, err := renderer.Render(ctx, form, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}

	o.logger.Debug("form rendered",
		zap.String("form", form.OperationID),
		zap.String("renderer", renderer.Name()),
		zap.Int("bytes", len(output)),
	)
	return output, nil
}

// Model returns the cached form model of the default document.
func (o *Orchestrator) Model(ctx context.Context, operationID string) (model.FormModel, error) {
	if ctx == nil {
		return model.FormModel{}, errors.New("orchestrator: context is required")
	}
	if err := o.ready(); err != nil {
		return model.FormModel{}, err
	}
	return o.cachedModel(ctx, strings.TrimSpace(operationID))
}

// Forms lists the form ids of the default document in sorted order.
func (o *Orchestrator) Forms(ctx context.Context) ([]string, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := o.ready(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	operations, err := o.loadOperationsLocked(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(operations))
	for id := range operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ThemeConfig resolves the renderer theme configuration. An empty name uses
// the configured theme; a nil config is returned when themes are disabled.
func (o *Orchestrator) ThemeConfig(name, variant string) (*theme.RendererConfig, error) {
	if err := o.ready(); err != nil {
		return nil, err
	}
	if o.themeSelector == nil {
		return nil, nil
	}
	if name == "" {
		name = o.themeName
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return themes.RendererConfig(selection, o.themeFallbacks), nil
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) ready() error {
	if err := o.initialiseErr; err != nil {
		return err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
	}
	return o.initialiseErr
}

func (o *Orchestrator) resolveForm(ctx context.Context, req Request) (model.FormModel, error) {
	id := strings.TrimSpace(req.OperationID)
	if req.Document == nil && req.Source == nil {
		return o.cachedModel(ctx, id)
	}

	doc := pkgopenapi.Document{}
	if req.Document != nil {
		doc = *req.Document
	} else {
		loaded, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: load document: %w", err)
		}
		doc = loaded
	}

	operations, err := o.parser.Operations(ctx, doc)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: parse operations: %w", err)
	}
	op, ok := operations[id]
	if !ok {
		return model.FormModel{}, fmt.Errorf("%w: %q", ErrUnknownForm, id)
	}
	return o.buildForm(ctx, op)
}

func (o *Orchestrator) cachedModel(ctx context.Context, id string) (model.FormModel, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if form, ok := o.models[id]; ok {
		return form, nil
	}

	operations, err := o.loadOperationsLocked(ctx)
	if err != nil {
		return model.FormModel{}, err
	}
	op, ok := operations[id]
	if !ok {
		return model.FormModel{}, fmt.Errorf("%w: %q", ErrUnknownForm, id)
	}

	form, err := o.buildForm(ctx, op)
	if err != nil {
		return model.FormModel{}, err
	}
	if o.models == nil {
		o.models = make(map[string]model.FormModel)
	}
	o.models[id] = form
	return form, nil
}

func (o *Orchestrator) loadOperationsLocked(ctx context.Context) (map[string]pkgopenapi.Operation, error) {
	if o.operations != nil {
		return o.operations, nil
	}
	doc, err := o.loader.Load(ctx, o.source)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load document: %w", err)
	}
	operations, err := o.parser.Operations(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse operations: %w", err)
	}
	o.operations = operations
	o.logger.Debug("form document loaded",
		zap.String("source", doc.Location()),
		zap.Int("forms", len(operations)),
	)
	return operations, nil
}

func (o *Orchestrator) buildForm(ctx context.Context, op pkgopenapi.Operation) (model.FormModel, error) {
	form, err := o.builder.Build(op)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: build form model: %w", err)
	}
	if err := o.applyTransformer(ctx, &form); err != nil {
		return model.FormModel{}, err
	}
	if err := o.applyDecorators(&form); err != nil {
		return model.FormModel{}, err
	}
	return form, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDecorators(form *model.FormModel) error {
	if len(o.decorators) == 0 || form == nil {
		return nil
	}
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(form); err != nil {
			return fmt.Errorf("orchestrator: decorate form: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, form *model.FormModel) error {
	if o.transformer == nil || form == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, form); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.source == nil {
		o.source = pkgopenapi.RegistrationSource()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New(o.rendererOptions...)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = defaultThemeFallbacks()
	}
	if !o.themeConfigured {
		selector, err := themes.NewSelector(o.themeName)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: theme selector: %w", err)
		} else {
			o.themeSelector = selector
		}
	}

	o.decorators = append([]model.Decorator{VariantDecorator()}, o.decorators...)
	o.defaultsApplied = true
}

func defaultThemeFallbacks() map[string]string {
	return vanilla.DefaultPartials()
}
