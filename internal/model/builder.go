package model

import (
	"fmt"
	"strconv"
	"strings"

	pkgopenapi "github.com/goliatone/go-regforms/pkg/openapi"
)

// Options configures the Builder.
type Options struct {
	Labeler func(string) string
}

// Builder converts OpenAPI operations into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := Options{Labeler: DefaultLabeler}
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	return &Builder{opts: opts}
}

// Build transforms an operation into a FormModel. Fields follow the
// x-formgen order of the request body; properties not listed there come
// after, sorted by name.
func (b *Builder) Build(op pkgopenapi.Operation) (FormModel, error) {
	if err := validateOperation(op); err != nil {
		return FormModel{}, err
	}

	form := FormModel{
		OperationID: op.ID,
		Endpoint:    op.Path,
		Method:      strings.ToUpper(op.Method),
		Title:       op.RequestBody.Title,
		Summary:     op.Summary,
		Description: op.Description,
		Metadata:    make(map[string]string),
	}
	mergeMetadata(form.Metadata, metadataFromExtensions(op.Extensions))
	mergeMetadata(form.Metadata, metadataFromExtensions(op.RequestBody.Extensions))

	fields, err := b.fieldsFromObject(op.RequestBody)
	if err != nil {
		return FormModel{}, err
	}
	form.Fields = fields
	form.Sections = buildSections(namespace(op.RequestBody.Extensions), fields)

	if len(form.Metadata) == 0 {
		form.Metadata = nil
	}
	return form, nil
}

func (b *Builder) fieldsFromObject(schema pkgopenapi.Schema) ([]Field, error) {
	fields := make([]Field, 0, len(schema.Properties))
	for _, name := range propertyOrder(schema) {
		field, err := b.field(name, schema.Properties[name], schema.IsRequired(name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func propertyOrder(schema pkgopenapi.Schema) []string {
	seen := make(map[string]bool, len(schema.Properties))
	var order []string
	for _, name := range stringList(namespace(schema.Extensions), extOrder) {
		if _, ok := schema.Properties[name]; ok && !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	for _, name := range sortedKeys(schema.Properties) {
		if !seen[name] {
			order = append(order, name)
		}
	}
	return order
}

func (b *Builder) field(name string, schema pkgopenapi.Schema, required bool) (Field, error) {
	ns := namespace(schema.Extensions)
	field := Field{
		Name:        name,
		Type:        mapType(schema.Type),
		Format:      schema.Format,
		Required:    required,
		Label:       stringValue(ns, extLabel),
		Placeholder: stringValue(ns, extPlaceholder),
		Section:     stringValue(ns, extSection),
		Widget:      stringValue(ns, extWidget),
		Description: schema.Description,
		Default:     schema.Default,
		Metadata:    metadataFromExtensions(schema.Extensions),
	}
	if field.Label == "" {
		field.Label = b.opts.Labeler(name)
	}
	if len(schema.Enum) > 0 {
		field.Enum = append([]any(nil), schema.Enum...)
	}

	switch field.Type {
	case FieldTypeArray:
		if schema.Items == nil {
			return Field{}, fmt.Errorf("model builder: array field %q missing items", name)
		}
		items := *schema.Items
		if items.Type == "object" || len(items.Properties) > 0 {
			nested, err := b.fieldsFromObject(items)
			if err != nil {
				return Field{}, err
			}
			item := Field{Name: name, Type: FieldTypeObject, Widget: WidgetObject, Nested: nested}
			field.Items = &item
		} else {
			item, err := b.field(name, items, false)
			if err != nil {
				return Field{}, err
			}
			field.Items = &item
			field.Options = options(items.Enum, labelMap(ns))
		}
	case FieldTypeObject:
		nested, err := b.fieldsFromObject(schema)
		if err != nil {
			return Field{}, err
		}
		field.Nested = nested
	case FieldTypeBoolean:
	default:
		field.Options = options(schema.Enum, labelMap(ns))
	}

	applyValidations(&field, schema, ns)
	if field.Widget == "" {
		field.Widget = inferWidget(field)
	}
	return field, nil
}

func options(enum []any, labels map[string]string) []Option {
	if len(enum) == 0 {
		return nil
	}
	out := make([]Option, 0, len(enum))
	for _, value := range enum {
		raw, ok := CanonicalizeExtensionValue(value)
		if !ok {
			continue
		}
		label := labels[raw]
		if label == "" {
			label = DefaultLabeler(raw)
		}
		out = append(out, Option{Value: raw, Label: label})
	}
	return out
}

func inferWidget(field Field) string {
	switch field.Type {
	case FieldTypeBoolean:
		return WidgetCheckbox
	case FieldTypeInteger, FieldTypeNumber:
		return WidgetNumber
	case FieldTypeObject:
		return WidgetObject
	case FieldTypeArray:
		if field.Items != nil && field.Items.Type == FieldTypeObject {
			return WidgetArray
		}
		return WidgetCheckboxGroup
	}
	switch field.Format {
	case "email":
		return WidgetEmail
	case "password":
		return WidgetPassword
	case "date":
		return WidgetDate
	}
	if len(field.Options) > 0 {
		return WidgetSelect
	}
	return WidgetText
}

func buildSections(ns map[string]any, fields []Field) []Section {
	declared := sectionList(ns)
	if len(declared) == 0 {
		return nil
	}
	index := make(map[string]int, len(declared))
	for i, section := range declared {
		index[section.ID] = i
	}
	for _, field := range fields {
		i, ok := index[field.Section]
		if !ok {
			continue
		}
		declared[i].Fields = append(declared[i].Fields, field.Name)
	}
	out := declared[:0]
	for _, section := range declared {
		if len(section.Fields) > 0 {
			out = append(out, section)
		}
	}
	return out
}

func mapType(schemaType string) FieldType {
	switch schemaType {
	case "integer":
		return FieldTypeInteger
	case "number":
		return FieldTypeNumber
	case "boolean":
		return FieldTypeBoolean
	case "array":
		return FieldTypeArray
	case "object":
		return FieldTypeObject
	default:
		return FieldTypeString
	}
}

func applyValidations(field *Field, schema pkgopenapi.Schema, ns map[string]any) {
	if schema.Minimum != nil {
		field.Validations = append(field.Validations, valueRule(ValidationRuleMin, formatFloat(*schema.Minimum)))
	}
	if schema.Maximum != nil {
		field.Validations = append(field.Validations, valueRule(ValidationRuleMax, formatFloat(*schema.Maximum)))
	}
	if schema.MinLength != nil {
		field.Validations = append(field.Validations, valueRule(ValidationRuleMinLength, strconv.Itoa(*schema.MinLength)))
	}
	if schema.MaxLength != nil {
		field.Validations = append(field.Validations, valueRule(ValidationRuleMaxLength, strconv.Itoa(*schema.MaxLength)))
	}
	if schema.MinItems != nil {
		field.Validations = append(field.Validations, valueRule(ValidationRuleMinItems, strconv.Itoa(*schema.MinItems)))
	}
	if schema.Pattern != "" {
		params := map[string]string{"pattern": schema.Pattern}
		if flags := stringValue(ns, extFlags); flags != "" {
			params["flags"] = flags
		}
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRulePattern, Params: params})
	}
	if field.Type == FieldTypeBoolean && len(schema.Enum) == 1 && schema.Enum[0] == true {
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleAccepted})
	}
}

func valueRule(kind, value string) ValidationRule {
	return ValidationRule{Kind: kind, Params: map[string]string{"value": value}}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func mergeMetadata(target map[string]string, updates map[string]string) {
	if target == nil {
		return
	}
	for key, value := range updates {
		target[key] = value
	}
}
