package model

import internalmodel "github.com/goliatone/go-regforms/internal/model"

// ParseExtensions extracts the scalar x-formgen metadata from an extension
// map. It returns nil when no supported metadata is found.
func ParseExtensions(ext map[string]any) map[string]string {
	return internalmodel.ParseExtensions(ext)
}
