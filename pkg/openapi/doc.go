// Package openapi exposes the loader and parser contracts for the form
// description document, plus the embedded document describing both
// registration forms. Implementations live under internal/openapi to keep
// kin-openapi types out of the public API.
package openapi
