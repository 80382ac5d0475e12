package vanilla

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-regforms/pkg/themes"
)

//go:embed templates/*.tmpl templates/partials/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// DefaultPartials maps theme partial keys to the embedded templates. Theme
// manifests override entries through their Templates map.
func DefaultPartials() map[string]string {
	return map[string]string{
		themes.PartialPage:          "templates/form.tmpl",
		themes.PartialIndex:         "templates/index.tmpl",
		themes.PartialInput:         "templates/partials/input.tmpl",
		themes.PartialTextarea:      "templates/partials/textarea.tmpl",
		themes.PartialSelect:        "templates/partials/select.tmpl",
		themes.PartialRadio:         "templates/partials/radio.tmpl",
		themes.PartialCheckbox:      "templates/partials/checkbox.tmpl",
		themes.PartialCheckboxGroup: "templates/partials/checkbox-group.tmpl",
		themes.PartialHobbies:       "templates/partials/hobbies.tmpl",
	}
}
