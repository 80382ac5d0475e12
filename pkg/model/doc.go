// Package model defines the typed form model consumed by renderers. Builders
// reside in internal/model but return the types defined here. Validation
// rules expose canonical identifiers (min/max, minLength, minItems, pattern,
// accepted) with string parameters so renderers can map them onto HTML
// attributes. Presentation metadata comes from the x-formgen extension
// namespace: labels, placeholders, widgets, sections, option labels and field
// order.
package model
