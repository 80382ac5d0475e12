package tui

import (
	"io"

	"github.com/goliatone/go-regforms/pkg/form"
)

// OutputFormat controls how the submitted draft is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads
	// using the same field paths the HTML form posts.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one path=value line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat resolves a format name. The empty string selects JSON.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch OutputFormat(name) {
	case "", OutputFormatJSON:
		return OutputFormatJSON, nil
	case OutputFormatFormURLEncoded, "form-urlencoded":
		return OutputFormatFormURLEncoded, nil
	case OutputFormatPrettyText:
		return OutputFormatPrettyText, nil
	default:
		return "", ErrUnknownFormat
	}
}

// Theme captures optional message prefixes the renderer applies when
// printing through the driver.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithInfoWriter sends messages of the default survey driver to out.
func WithInfoWriter(out io.Writer) Option {
	return func(r *Renderer) {
		r.infoWriter = out
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithFormOptions forwards options to the form instances Render creates.
func WithFormOptions(options ...form.Option) Option {
	return func(r *Renderer) {
		r.formOptions = append(r.formOptions, options...)
	}
}

// WithConfirm toggles the final "submit?" prompt. Enabled by default.
func WithConfirm(enabled bool) Option {
	return func(r *Renderer) {
		r.confirm = enabled
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
