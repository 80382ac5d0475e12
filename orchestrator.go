// Package regforms is the entry point for embedding the registration forms.
// It re-exports the orchestrator constructor and the loader and parser
// implementations so callers never import internal packages.
package regforms

import (
	"context"

	pkgopenapi "github.com/goliatone/go-regforms/pkg/openapi"
	"github.com/goliatone/go-regforms/pkg/orchestrator"
	"github.com/goliatone/go-regforms/pkg/render"
	theme "github.com/goliatone/go-theme"
)

// RenderOptions carries the state of a form instance into a renderer.
type RenderOptions = render.RenderOptions

// NewOrchestrator returns an orchestrator over the embedded registration
// document unless options select another source.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders the pristine form formID with the default renderer.
func GenerateHTML(ctx context.Context, formID string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		OperationID: formID,
	})
}

// GenerateHTMLFromDocument renders formID from a pre-loaded document,
// bypassing the loader and the model cache.
func GenerateHTMLFromDocument(ctx context.Context, doc pkgopenapi.Document, formID string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Document:      &doc,
		OperationID:   formID,
		RenderOptions: opts,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeFallbacks forwards fallback partials used when a theme omits one.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}
