// Package themes ships the regforms go-theme manifest and resolves a theme
// selection into the renderer configuration consumed by pkg/render. Each
// form variant maps to a manifest variant of the same name.
package themes
