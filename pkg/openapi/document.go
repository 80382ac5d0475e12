package openapi

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Source names where a document comes from.
type Source interface {
	Kind() SourceKind
	Location() string
}

type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
)

// Document is an unparsed OpenAPI payload plus its origin. It owns a copy
// of the bytes.
type Document struct {
	source Source
	raw    []byte
}

func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}

	return Document{source: src, raw: slices.Clone(raw)}, nil
}

// MustNewDocument is NewDocument for fixtures.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source { return d.source }

// Raw answers a copy of the payload.
func (d Document) Raw() []byte { return slices.Clone(d.raw) }

func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Operation is one form submission endpoint. The operation id names the form.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	RequestBody Schema
	Extensions  map[string]any
}

// NewOperation requires the id, method and path.
func NewOperation(id, method, path string, request Schema) (Operation, error) {
	if id == "" {
		return Operation{}, errors.New("openapi: operation id is required")
	}
	if method == "" {
		return Operation{}, errors.New("openapi: operation method is required")
	}
	if path == "" {
		return Operation{}, errors.New("openapi: operation path is required")
	}
	return Operation{
		ID:          id,
		Method:      method,
		Path:        path,
		RequestBody: request,
	}, nil
}

// MustNewOperation is NewOperation for fixtures.
func MustNewOperation(id, method, path string, request Schema) Operation {
	op, err := NewOperation(id, method, path, request)
	if err != nil {
		panic(err)
	}
	return op
}

// Schema is the subset of a JSON schema node the form builder reads.
type Schema struct {
	Ref         string
	Type        string
	Format      string
	Title       string
	Description string
	Required    []string
	Properties  map[string]Schema
	Items       *Schema
	Enum        []any
	Default     any

	Minimum     *float64
	Maximum     *float64
	MinLength   *int
	MaxLength   *int
	MinItems    *int
	UniqueItems bool
	Pattern     string

	Extensions map[string]any
}

// IsRequired reports whether the object schema lists name as required.
func (s Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

// Validate walks the tree and rejects arrays without items. Errors carry
// the dotted path of the offending node.
func (s Schema) Validate() error {
	return s.validate("")
}

func (s Schema) validate(path string) error {
	if s.Type == "array" && s.Items == nil {
		return fmt.Errorf("openapi: %sarray schema must define items", prefix(path))
	}
	for _, name := range slices.Sorted(maps.Keys(s.Properties)) {
		if err := s.Properties[name].validate(join(path, name)); err != nil {
			return err
		}
	}
	if s.Items != nil {
		return s.Items.validate(join(path, "items"))
	}
	return nil
}

// String summarises the node for logs and test failures.
func (s Schema) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "type=%s", s.Type)
	if s.Ref != "" {
		fmt.Fprintf(&b, " ref=%s", s.Ref)
	}
	if n := len(s.Properties); n > 0 {
		fmt.Fprintf(&b, " properties=%d required=%d", n, len(s.Required))
	}
	if s.Items != nil {
		fmt.Fprintf(&b, " items=(%s)", s.Items)
	}
	return b.String()
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func prefix(path string) string {
	if path == "" {
		return ""
	}
	return path + ": "
}
