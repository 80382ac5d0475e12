package render

import (
	"context"

	"github.com/goliatone/go-regforms/pkg/model"
)

// Renderer converts a FormModel plus per-request state into bytes (an HTML
// page, a terminal transcript).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
