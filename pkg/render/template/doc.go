// Package template defines the renderer-agnostic template contract. The
// pongo subpackage implements it with pongo2.
package template
