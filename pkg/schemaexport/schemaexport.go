// Package schemaexport publishes the registration record as JSON Schema. The
// structure is reflected from registration.Draft; each variant then receives
// the constraints enforced by the validation package so clients validating
// against the schema agree with the Go rules.
package schemaexport

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/goliatone/go-regforms/pkg/registration"
	"github.com/goliatone/go-regforms/pkg/validation"
)

// DefaultBaseID prefixes the $id of exported schemas.
const DefaultBaseID = "https://regforms.goliatone.dev/schemas/"

// emailPattern is validation.EmailPattern without the case-insensitive flag,
// which JSON Schema patterns cannot carry.
const emailPattern = `^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`

// Option customises an Exporter.
type Option func(*Exporter)

// WithBaseID changes the prefix of the exported $id. An empty base omits the
// identifier.
func WithBaseID(base string) Option {
	return func(e *Exporter) {
		e.baseID = strings.TrimSpace(base)
	}
}

// Exporter reflects registration drafts into JSON Schema documents.
type Exporter struct {
	baseID string
}

// New constructs an Exporter.
func New(options ...Option) *Exporter {
	e := &Exporter{baseID: DefaultBaseID}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Schema returns the schema of the variant's draft. Every call reflects a
// fresh value, so callers may mutate the result.
func (e *Exporter) Schema(variant registration.Variant) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := r.Reflect(new(registration.Draft))
	schema.Title = variant.Title
	schema.Description = variant.Description
	if e.baseID != "" {
		schema.ID = jsonschema.ID(e.baseID + variant.ID + ".schema.json")
	}

	defaults := variant.Defaults()

	if prop := property(schema, validation.FieldName); prop != nil {
		prop.MinLength = uintPtr(1)
	}
	if prop := property(schema, validation.FieldSurname); prop != nil {
		prop.MinLength = uintPtr(1)
	}
	if prop := property(schema, validation.FieldEmail); prop != nil {
		prop.Format = "email"
		prop.Pattern = emailPattern
	}
	if prop := property(schema, validation.FieldPassword); prop != nil {
		prop.MinLength = uintPtr(validation.MinPasswordLength)
	}
	if prop := property(schema, validation.FieldAge); prop != nil {
		prop.Minimum = number(validation.MinAge)
		if variant.MaxAge > 0 {
			prop.Maximum = number(variant.MaxAge)
		}
	}
	if prop := property(schema, validation.FieldGender); prop != nil {
		prop.Enum = enum(registration.Genders())
		prop.Default = nonEmpty(defaults.Gender)
	}
	if prop := property(schema, validation.FieldInterests); prop != nil {
		prop.MinItems = uintPtr(1)
		if prop.Items != nil {
			prop.Items.Enum = enum(registration.Interests())
		}
	}
	if prop := property(schema, validation.FieldCountry); prop != nil {
		prop.Enum = enum(registration.Countries())
		prop.Default = nonEmpty(defaults.Country)
	}
	if prop := property(schema, validation.FieldSubscribe); prop != nil {
		prop.Default = defaults.Subscribe
	}
	if prop := property(schema, validation.FieldTerms); prop != nil {
		prop.Enum = []any{true}
	}
	if prop := property(schema, validation.FieldBio); prop != nil {
		prop.MinLength = uintPtr(validation.MinBioLength)
	}
	if prop := property(schema, validation.FieldColor); prop != nil {
		prop.Default = nonEmpty(defaults.FavoriteColor)
	}
	if prop := property(schema, validation.FieldBirthDate); prop != nil {
		prop.Format = "date"
	}

	if !variant.Hobbies {
		if schema.Properties != nil {
			schema.Properties.Delete(validation.FieldHobbies)
		}
		return schema
	}

	if prop := property(schema, validation.FieldHobbies); prop != nil {
		prop.MinItems = uintPtr(1)
		if item := prop.Items; item != nil && item.Properties != nil {
			if name, ok := item.Properties.Get("name"); ok && name != nil {
				name.MinLength = uintPtr(1)
			}
			if level, ok := item.Properties.Get("level"); ok && level != nil {
				level.Enum = enum(registration.HobbyLevels())
				level.Default = registration.LevelBeginner
			}
		}
		schema.Required = appendUnique(schema.Required, validation.FieldHobbies)
	}
	return schema
}

// JSON returns the indented schema document of the form id.
func (e *Exporter) JSON(id string) ([]byte, error) {
	variant, err := registration.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("schemaexport: %w", err)
	}
	data, err := json.MarshalIndent(e.Schema(variant), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("schemaexport: encode %s: %w", variant.ID, err)
	}
	return append(data, '\n'), nil
}

// For returns the schema of the form id using the default exporter.
func For(id string) (*jsonschema.Schema, error) {
	variant, err := registration.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("schemaexport: %w", err)
	}
	return New().Schema(variant), nil
}

func property(schema *jsonschema.Schema, name string) *jsonschema.Schema {
	if schema == nil || schema.Properties == nil {
		return nil
	}
	prop, ok := schema.Properties.Get(name)
	if !ok {
		return nil
	}
	return prop
}

func enum(options []registration.Option) []any {
	out := make([]any, 0, len(options))
	for _, value := range registration.Values(options) {
		out = append(out, value)
	}
	return out
}

func nonEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func number(value int) json.Number {
	return json.Number(strconv.Itoa(value))
}

func uintPtr(value int) *uint64 {
	v := uint64(value)
	return &v
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
