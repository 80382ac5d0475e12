package regforms

import (
	"io/fs"

	"github.com/goliatone/go-regforms/pkg/renderers/vanilla"
	"github.com/goliatone/go-regforms/pkg/themes"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the stylesheet served under themes.AssetPrefix.
func EmbeddedAssets() fs.FS {
	return themes.AssetsFS()
}
