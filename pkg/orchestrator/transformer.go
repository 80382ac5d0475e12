package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-regforms/pkg/model"
)

// Transformer mutates a FormModel after it is built and before decorators
// run. The result is cached with the model.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// Transformers runs each transformer in order.
func Transformers(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, form *model.FormModel) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, form); err != nil {
				return err
			}
		}
		return nil
	})
}

// PresetTransformer applies copy overrides loaded from a YAML (or JSON)
// document. Forms not listed are left untouched:
//
//	forms:
//	  form-one:
//	    title: Sign up
//	    fields:
//	      firstName:
//	        label: Given name
//	      hobbies.name:
//	        placeholder: Chess, climbing...
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Forms map[string]formPreset `yaml:"forms"`
}

type formPreset struct {
	Title       string                `yaml:"title"`
	Description string                `yaml:"description"`
	Metadata    map[string]string     `yaml:"metadata"`
	Fields      map[string]fieldPatch `yaml:"fields"`
}

type fieldPatch struct {
	Label       string            `yaml:"label"`
	Description string            `yaml:"description"`
	Placeholder string            `yaml:"placeholder"`
	Metadata    map[string]string `yaml:"metadata"`
}

// NewPresetTransformer constructs a transformer from raw YAML or JSON bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// NewPresetTransformerFromFile loads a preset document from disk.
func NewPresetTransformerFromFile(path string) (*PresetTransformer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the patches declared for form.OperationID.
func (t *PresetTransformer) Transform(ctx context.Context, form *model.FormModel) error {
	if form == nil {
		return errors.New("preset transformer: form model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	preset, ok := t.document.Forms[form.OperationID]
	if !ok {
		return nil
	}
	if preset.Title != "" {
		form.Title = preset.Title
	}
	if preset.Description != "" {
		form.Description = preset.Description
	}
	if len(preset.Metadata) > 0 {
		form.Metadata = mergeStringMap(form.Metadata, preset.Metadata)
	}

	for path, patch := range preset.Fields {
		field := findFieldByPath(form.Fields, path)
		if field == nil {
			return fmt.Errorf("preset transformer: %s: field %q not found", form.OperationID, path)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch fieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if len(patch.Metadata) > 0 {
		field.Metadata = mergeStringMap(field.Metadata, patch.Metadata)
	}
}

// findFieldByPath resolves dotted paths; array fields descend into their
// item fields, so hobbies.name addresses the name of every hobby entry.
func findFieldByPath(fields []model.Field, path string) *model.Field {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return walkFieldsByPath(fields, strings.Split(path, "."))
}

func walkFieldsByPath(fields []model.Field, segments []string) *model.Field {
	if len(segments) == 0 {
		return nil
	}
	for idx := range fields {
		field := &fields[idx]
		if field.Name != segments[0] {
			continue
		}
		if len(segments) == 1 {
			return field
		}
		if field.Items != nil {
			return walkFieldsByPath(field.Items.Nested, segments[1:])
		}
		return walkFieldsByPath(field.Nested, segments[1:])
	}
	return nil
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
