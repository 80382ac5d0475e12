package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry the state of one form instance into a renderer without
// mutating the cached form model.
type RenderOptions struct {
	// Method overrides the HTTP method declared by the form model.
	Method string
	// Action is the URL the rendered form posts to. Defaults to the model
	// endpoint.
	Action string
	// Values pre-populates controls keyed by JSON field name. Hobbies are a
	// slice of {"name", "level"} maps.
	Values map[string]any
	// Errors holds the visible violations keyed by field path, including
	// indexed hobby paths such as "hobbies.0.name".
	Errors map[string][]string
	// FormErrors are messages not attached to any field.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs in sorted order.
	HiddenFields map[string]string
	// Preview is the indented JSON of the current draft.
	Preview string
	// CanSubmit enables the submit control.
	CanSubmit bool
	// Submitted switches the page into its success state.
	Submitted bool
	// Pristine reports the draft still equals its defaults.
	Pristine bool
	// Theme is the resolved theme configuration. Nil renders unthemed.
	Theme *theme.RendererConfig
}

// FieldErrors returns the messages for path.
func (o RenderOptions) FieldErrors(path string) []string {
	if len(o.Errors) == 0 {
		return nil
	}
	return o.Errors[path]
}
