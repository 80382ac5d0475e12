// Package orchestrator wires the loader → parser → model builder → renderer
// pipeline behind a single entry point. The embedded registration document is
// parsed once; form models are cached per form id and rendered with the theme
// variant named after the form.
package orchestrator
